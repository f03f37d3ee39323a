package builder

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"einvois/internal/domain"
	"einvois/internal/sheet"
)

// Legacy named fields. Unlike the invoice-based layout these sheets carried
// real header names, so resolution is by name rather than position.
const (
	legacyInvoiceNo   = "InvoiceNumber"
	legacyDocNo       = "DocumentNumber"
	legacyInvoiceDate = "InvoiceDate"
	legacyCurrency    = "CurrencyCode"
	legacyTypeCode    = "InvoiceTypeCode"

	legacySupplierName    = "SupplierName"
	legacySupplierID      = "SupplierID"
	legacySupplierAddress = "SupplierAddress"
	legacySupplierCity    = "SupplierCity"
	legacySupplierState   = "SupplierState"
	legacySupplierCountry = "SupplierCountry"

	legacyBuyerName    = "BuyerName"
	legacyBuyerID      = "BuyerID"
	legacyBuyerAddress = "BuyerAddress"
	legacyBuyerCity    = "BuyerCity"
	legacyBuyerState   = "BuyerState"
	legacyBuyerCountry = "BuyerCountry"

	legacyDeliveryName    = "DeliveryName"
	legacyDeliveryAddress = "DeliveryAddress"

	legacyLineNo      = "LineNumber"
	legacyItemNo      = "ItemNumber"
	legacyItemDesc    = "ItemDescription"
	legacyItemCode    = "ItemCode"
	legacyQuantity    = "Quantity"
	legacyUnitCode    = "UnitCode"
	legacyUnitPrice   = "UnitPrice"
	legacyLineAmount  = "LineAmount"
	legacyTaxRate     = "TaxRate"
	legacyTaxAmount   = "TaxAmount"
	legacyACReason    = "AllowanceChargeReason"
	legacyACAmount    = "AllowanceChargeAmount"
	legacyACIndicator = "AllowanceChargeIndicator"

	legacyTotalAmount    = "TotalAmount"
	legacyTotalExclusive = "TotalExcludingTax"
	legacyTotalInclusive = "TotalIncludingTax"
	legacyTotalTax       = "TotalTaxAmount"
	legacyTotalPayable   = "TotalPayableAmount"
)

// identificationSchemes is the order the three identification rows following
// a header row are assumed to carry.
var identificationSchemes = []domain.IDScheme{domain.SchemeBRN, domain.SchemeSST, domain.SchemeTTX}

// LegacyBuilder reconstructs documents from the multi-row H/L/F layout:
// a header row opens a document, line rows accumulate into it and a footer
// row totals and closes it.
type LegacyBuilder struct {
	resolver *sheet.Resolver
	defaults Defaults
	now      func() time.Time
}

// NewLegacy creates a LegacyBuilder.
func NewLegacy(defaults Defaults) *LegacyBuilder {
	return &LegacyBuilder{
		resolver: sheet.NewResolver(),
		defaults: defaults,
		now:      time.Now,
	}
}

// WithClock overrides the processing-time source for tests.
func (lb *LegacyBuilder) WithClock(now func() time.Time) *LegacyBuilder {
	lb.now = now
	return lb
}

// BuildAll walks the row sequence and returns every document it can close,
// the per-group failures, and validation-gap warnings. A document still open
// at end of input (no terminating F row) is flushed as-is.
func (lb *LegacyBuilder) BuildAll(rows []sheet.Row) ([]domain.InvoiceDocument, []domain.BuildFailure, []string) {
	var (
		docs     []domain.InvoiceDocument
		failures []domain.BuildFailure
		warnings []string
		open     *domain.InvoiceDocument
	)

	for i := 0; i < len(rows); i++ {
		row := rows[i]
		switch sheet.InferLegacyRowType(row) {
		case domain.RowTypeHeader:
			if open != nil {
				// Previous document never saw its footer. Flush anyway.
				warnings = append(warnings, fmt.Sprintf(
					"row %d: new header before footer of invoice %s; previous document flushed without totals",
					i, open.Header.InvoiceNo))
				docs = append(docs, *open)
				open = nil
			}
			doc, consumed, warns, err := lb.openDocument(rows, i)
			warnings = append(warnings, warns...)
			if err != nil {
				failures = append(failures, domain.BuildFailure{
					RowIndex: i,
					Reason:   err.Error(),
				})
				continue
			}
			open = doc
			i += consumed

		case domain.RowTypeLine:
			if open == nil {
				failures = append(failures, domain.BuildFailure{
					RowIndex: i,
					Reason:   "line row without an open document",
				})
				continue
			}
			lb.appendLine(open, row)

		case domain.RowTypeFooter:
			if open == nil {
				failures = append(failures, domain.BuildFailure{
					RowIndex: i,
					Reason:   "footer row without an open document",
				})
				continue
			}
			lb.applyFooter(open, row)
			docs = append(docs, *open)
			open = nil
		}
	}

	if open != nil {
		docs = append(docs, *open)
	}

	return docs, failures, warnings
}

// openDocument seeds a document from a header row and reads the fixed three
// identification rows that follow it. The +3 offset assumption is inherited
// from the original system and has no guard against those rows belonging to
// another document. Explicit L/F tags on a window row take precedence, the
// window is cut short, and a validation-gap warning is emitted.
func (lb *LegacyBuilder) openDocument(rows []sheet.Row, idx int) (*domain.InvoiceDocument, int, []string, error) {
	row := rows[idx]

	invoiceNo := lb.str(row, legacyInvoiceNo)
	if invoiceNo == "" {
		invoiceNo = lb.str(row, legacyDocNo)
	}
	if invoiceNo == "" {
		return nil, 0, nil, domain.ErrMissingInvoiceNumber
	}

	now := lb.now()
	currency := lb.str(row, legacyCurrency)
	if currency == "" {
		currency = lb.defaults.CurrencyCode
	}
	typeCode := lb.str(row, legacyTypeCode)
	if typeCode == "" {
		typeCode = lb.defaults.InvoiceTypeCode
	}

	doc := &domain.InvoiceDocument{
		Header: domain.InvoiceHeader{
			InvoiceNo:            invoiceNo,
			InvoiceTypeCode:      typeCode,
			DocumentCurrencyCode: currency,
			TaxCurrencyCode:      currency,
			Reference: domain.DocumentReference{
				UUID:             uuid.New().String(),
				InternalID:       invoiceNo,
				BillingReference: lb.defaults.Text,
			},
			IssueDate: lb.legacyDate(row, legacyInvoiceDate, now),
			IssueTime: now.UTC().Format("15:04:05Z"),
			Period: domain.InvoicePeriod{
				Description: lb.defaults.Text,
			},
		},
		Supplier: lb.legacyParty(row, legacySupplierName, legacySupplierID,
			legacySupplierAddress, legacySupplierCity, legacySupplierState, legacySupplierCountry),
		Buyer: lb.legacyParty(row, legacyBuyerName, legacyBuyerID,
			legacyBuyerAddress, legacyBuyerCity, legacyBuyerState, legacyBuyerCountry),
		Delivery: lb.legacyParty(row, legacyDeliveryName, "",
			legacyDeliveryAddress, "", "", ""),
	}

	consumed := 0
	var warnings []string
	for k, scheme := range identificationSchemes {
		j := idx + 1 + k
		if j >= len(rows) {
			break
		}
		idRow := rows[j]
		if tag := sheet.LegacyRowType(idRow); tag == domain.RowTypeLine || tag == domain.RowTypeFooter {
			warnings = append(warnings, fmt.Sprintf(
				"row %d: expected %s identification row for invoice %s but found tagged %s row; identification window cut short",
				j, scheme, invoiceNo, tag))
			break
		}
		if supID := lb.str(idRow, legacySupplierID); supID != "" {
			doc.Supplier.Identifications = append(doc.Supplier.Identifications,
				domain.PartyIdentification{ID: supID, Scheme: scheme})
		}
		if buyID := lb.str(idRow, legacyBuyerID); buyID != "" {
			doc.Buyer.Identifications = append(doc.Buyer.Identifications,
				domain.PartyIdentification{ID: buyID, Scheme: scheme})
		}
		consumed++
	}

	return doc, consumed, warnings, nil
}

// appendLine adds a line row to the open document. A row whose line id
// matches an existing item merges into it as an additional allowance/charge
// instead of opening a second line.
func (lb *LegacyBuilder) appendLine(doc *domain.InvoiceDocument, row sheet.Row) {
	lineID := lb.str(row, legacyLineNo)
	if lineID == "" {
		lineID = lb.str(row, legacyItemNo)
	}
	if lineID == "" {
		lineID = fmt.Sprintf("%d", len(doc.Items)+1)
	}

	ac := domain.AllowanceCharge{
		ChargeIndicator: lb.str(row, legacyACIndicator) == "true",
		Reason:          lb.defaults.textOr(lb.str(row, legacyACReason)),
		Amount:          lb.num(row, legacyACAmount),
	}

	for i := range doc.Items {
		if doc.Items[i].ID == lineID {
			doc.Items[i].AllowanceCharges = append(doc.Items[i].AllowanceCharges, ac)
			return
		}
	}

	unitCode := lb.str(row, legacyUnitCode)
	if unitCode == "" {
		unitCode = lb.defaults.UnitCode
	}

	ext := lb.num(row, legacyLineAmount)
	item := domain.LineItem{
		ID:                  lineID,
		Quantity:            lb.num(row, legacyQuantity),
		UnitCode:            unitCode,
		UnitPrice:           lb.num(row, legacyUnitPrice),
		LineExtensionAmount: ext,
		AllowanceCharges:    []domain.AllowanceCharge{ac},
		TaxSubtotal: domain.TaxSubtotal{
			TaxableAmount:   ext,
			TaxAmount:       lb.num(row, legacyTaxAmount),
			CategoryID:      lb.defaults.TaxCategory,
			Percent:         lb.num(row, legacyTaxRate),
			ExemptionReason: lb.defaults.Text,
			SchemeID:        lb.defaults.TaxScheme,
		},
		Classification: domain.ItemClassification{
			Code:          lb.defaults.textOr(lb.str(row, legacyItemCode)),
			Type:          lb.defaults.Text,
			Description:   lb.defaults.textOr(lb.str(row, legacyItemDesc)),
			OriginCountry: lb.defaults.Text,
		},
		Price: domain.PriceBreakdown{
			Amount:       lb.num(row, legacyUnitPrice),
			SubtotalRate: ext,
		},
	}
	doc.Items = append(doc.Items, item)
}

// applyFooter computes the document summary from the footer row, falling back
// to sums over the accumulated lines where the footer is silent.
func (lb *LegacyBuilder) applyFooter(doc *domain.InvoiceDocument, row sheet.Row) {
	var lineSum, taxSum float64
	for i := range doc.Items {
		lineSum += doc.Items[i].LineExtensionAmount
		taxSum += doc.Items[i].TaxSubtotal.TaxAmount
	}

	total := lb.num(row, legacyTotalAmount)
	exclusive := lb.num(row, legacyTotalExclusive)
	if exclusive == 0 {
		exclusive = lineSum
	}
	inclusive := lb.num(row, legacyTotalInclusive)
	if inclusive == 0 {
		inclusive = total
	}
	tax := lb.num(row, legacyTotalTax)
	if tax == 0 {
		tax = taxSum
	}
	payable := lb.num(row, legacyTotalPayable)
	if payable == 0 {
		payable = inclusive
	}

	summaryTax := domain.TaxTotal{
		TotalAmount:     tax,
		TaxableAmount:   exclusive,
		TypeCode:        lb.defaults.TaxTypeCode,
		ExemptionReason: lb.defaults.Text,
		Category:        lb.defaults.TaxCategory,
	}
	if len(doc.Items) > 0 {
		summaryTax.Rate = doc.Items[0].TaxSubtotal.Percent
		summaryTax.Category = doc.Items[0].TaxSubtotal.CategoryID
	}

	doc.Summary = domain.MonetarySummary{
		LineExtensionAmount: lineSum,
		TaxExclusiveAmount:  exclusive,
		TaxInclusiveAmount:  inclusive,
		PayableAmount:       payable,
		Tax:                 summaryTax,
	}
	doc.AllowanceCharge = domain.AllowanceCharge{
		Reason: lb.defaults.Text,
	}
}

func (lb *LegacyBuilder) legacyDate(row sheet.Row, field string, now time.Time) string {
	v, ok := lb.resolver.Resolve(row, field)
	if !ok || sheet.IsEmptyValue(v) {
		return now.UTC().Format("2006-01-02")
	}
	if d := sheet.CellToDate(v); d != "" {
		return d
	}
	return now.UTC().Format("2006-01-02")
}

func (lb *LegacyBuilder) legacyParty(row sheet.Row, name, id, addr, city, state, country string) domain.OrganizationParty {
	tin := ""
	if id != "" {
		tin = lb.str(row, id)
	}
	countryCode := ""
	if country != "" {
		countryCode = lb.str(row, country)
	}
	if countryCode == "" {
		countryCode = lb.defaults.Country
	}

	party := domain.OrganizationParty{
		Identifier: lb.defaults.textOr(tin),
		Name:       lb.defaults.textOr(lb.str(row, name)),
		Address: domain.Address{
			Line:            lb.defaults.textOr(sheet.JoinAddressFragments([]string{lb.str(row, addr)})),
			City:            lb.defaults.textOr(lb.strOpt(row, city)),
			Postcode:        lb.defaults.Text,
			State:           lb.defaults.textOr(domain.ResolveStateCode(lb.strOpt(row, state))),
			Country:         countryCode,
			CountryListID:   lb.defaults.CountryListID,
			CountryListName: lb.defaults.CountryListAgency,
		},
		Contact: domain.Contact{
			Phone: lb.defaults.Text,
			Email: lb.defaults.Text,
		},
	}
	party.Identifications = []domain.PartyIdentification{
		{ID: lb.defaults.textOr(tin), Scheme: domain.SchemeTIN},
	}
	return party
}

func (lb *LegacyBuilder) str(row sheet.Row, field string) string {
	return lb.resolver.ResolveString(row, field)
}

func (lb *LegacyBuilder) strOpt(row sheet.Row, field string) string {
	if field == "" {
		return ""
	}
	return lb.resolver.ResolveString(row, field)
}

func (lb *LegacyBuilder) num(row sheet.Row, field string) float64 {
	return lb.resolver.ResolveFloat(row, field)
}
