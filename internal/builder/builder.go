package builder

import (
	"time"

	"github.com/google/uuid"

	"einvois/internal/domain"
	"einvois/internal/sheet"
)

// Builder reconstructs a complete InvoiceDocument from a raw row under the
// invoice-based layout, where one row carries the whole document behind
// positional column indices.
type Builder struct {
	resolver *sheet.Resolver
	schema   Schema
	defaults Defaults
	now      func() time.Time
}

// Context carries the surrounding rows for layouts that need neighbours.
// The invoice-based path ignores everything but RowIndex.
type Context struct {
	Rows     []sheet.Row
	RowIndex int
}

// New creates a Builder for the given positional schema.
func New(schema Schema, defaults Defaults) *Builder {
	return &Builder{
		resolver: sheet.NewResolver(),
		schema:   schema,
		defaults: defaults,
		now:      time.Now,
	}
}

// WithClock overrides the processing-time source. Tests use it; production
// code should not.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build constructs one document from a single invoice-based row. It fails
// only when the invoice number cannot be resolved; any other malformed cell
// degrades to the sentinel defaults instead.
func (b *Builder) Build(row sheet.Row, ctx Context) (*domain.InvoiceDocument, error) {
	invoiceNo := sheet.InvoiceNumber(row)
	if invoiceNo == "" {
		return nil, domain.ErrMissingInvoiceNumber
	}

	doc := &domain.InvoiceDocument{
		Header:   b.buildHeader(row, invoiceNo),
		Supplier: b.buildSupplier(row),
		Buyer:    b.buildBuyer(row),
		Delivery: b.buildDelivery(row),
	}

	if item, ok := b.buildLineItem(row); ok {
		doc.Items = append(doc.Items, item)
	}
	doc.Summary = b.buildSummary(row, doc.Items)
	doc.AllowanceCharge = domain.AllowanceCharge{
		ChargeIndicator: b.boolField(row, b.schema.DocACIndicator),
		Reason:          b.defaults.textOr(b.str(row, b.schema.DocACReason)),
		Amount:          b.num(row, b.schema.DocACAmount),
	}

	return doc, nil
}

func (b *Builder) buildHeader(row sheet.Row, invoiceNo string) domain.InvoiceHeader {
	now := b.now()

	currency := b.str(row, b.schema.DocumentCurrency)
	if currency == "" || currency == domain.NotApplicable {
		currency = b.defaults.CurrencyCode
	}
	taxCurrency := b.str(row, b.schema.TaxCurrency)
	if taxCurrency == "" || taxCurrency == domain.NotApplicable {
		taxCurrency = currency
	}

	typeCode := b.str(row, b.schema.InvoiceTypeCode)
	if typeCode == "" {
		typeCode = b.defaults.InvoiceTypeCode
	}

	refUUID := b.str(row, b.schema.ReferenceUUID)
	if refUUID == "" {
		refUUID = uuid.New().String()
	}
	internalID := b.str(row, b.schema.ReferenceInternal)
	if internalID == "" {
		internalID = invoiceNo
	}

	return domain.InvoiceHeader{
		InvoiceNo:            invoiceNo,
		InvoiceTypeCode:      typeCode,
		DocumentCurrencyCode: currency,
		TaxCurrencyCode:      taxCurrency,
		ExchangeRate:         b.num(row, b.schema.ExchangeRate),
		Reference: domain.DocumentReference{
			UUID:             refUUID,
			InternalID:       internalID,
			BillingReference: b.defaults.textOr(b.str(row, b.schema.BillingReference)),
		},
		// Issue date/time are deliberately the processing time, not a sheet
		// column. See the validation-gap notes in DESIGN.md before changing.
		IssueDate: now.UTC().Format("2006-01-02"),
		IssueTime: now.UTC().Format("15:04:05Z"),
		Period: domain.InvoicePeriod{
			StartDate:   b.date(row, b.schema.PeriodStart),
			EndDate:     b.date(row, b.schema.PeriodEnd),
			Description: b.defaults.textOr(b.str(row, b.schema.PeriodDescription)),
		},
	}
}

// partyColumns groups the schema slots of one party so that supplier, buyer
// and delivery share a single construction path.
type partyColumns struct {
	name     string
	tin      string
	brn      string
	sst      string
	ttx      string
	email    string
	phone    string
	addrBase string
	city     string
	postcode string
	state    string
	country  string
	msic     string
	activity string
}

func (b *Builder) buildSupplier(row sheet.Row) domain.OrganizationParty {
	s := b.schema
	return b.buildParty(row, partyColumns{
		name: s.SupplierName, tin: s.SupplierTIN, brn: s.SupplierBRN,
		sst: s.SupplierSST, ttx: s.SupplierTTX,
		email: s.SupplierEmail, phone: s.SupplierPhone,
		addrBase: s.SupplierAddrBase, city: s.SupplierCity,
		postcode: s.SupplierPostcode, state: s.SupplierState,
		country: s.SupplierCountry,
		msic:    s.SupplierMSIC, activity: s.SupplierActivity,
	})
}

func (b *Builder) buildBuyer(row sheet.Row) domain.OrganizationParty {
	s := b.schema
	return b.buildParty(row, partyColumns{
		name: s.BuyerName, tin: s.BuyerTIN, brn: s.BuyerBRN,
		sst: s.BuyerSST, ttx: s.BuyerTTX,
		email: s.BuyerEmail, phone: s.BuyerPhone,
		addrBase: s.BuyerAddrBase, city: s.BuyerCity,
		postcode: s.BuyerPostcode, state: s.BuyerState,
		country: s.BuyerCountry,
	})
}

func (b *Builder) buildDelivery(row sheet.Row) domain.OrganizationParty {
	s := b.schema
	return b.buildParty(row, partyColumns{
		name: s.DeliveryName, tin: s.DeliveryTIN, brn: s.DeliveryBRN,
		addrBase: s.DeliveryAddrBase, city: s.DeliveryCity,
		postcode: s.DeliveryPostcode, state: s.DeliveryState,
		country: s.DeliveryCountry,
	})
}

func (b *Builder) buildParty(row sheet.Row, cols partyColumns) domain.OrganizationParty {
	tin := b.str(row, cols.tin)

	party := domain.OrganizationParty{
		Identifier: b.defaults.textOr(tin),
		Name:       b.defaults.textOr(b.str(row, cols.name)),
		Address:    b.buildAddress(row, cols),
		Contact: domain.Contact{
			Phone: b.defaults.textOr(b.str(row, cols.phone)),
			Email: b.defaults.textOr(b.str(row, cols.email)),
		},
	}
	if cols.msic != "" {
		party.IndustryCode = b.defaults.textOr(b.str(row, cols.msic))
		party.IndustryActivity = b.defaults.textOr(b.str(row, cols.activity))
	}

	party.Identifications = []domain.PartyIdentification{
		{ID: b.defaults.textOr(tin), Scheme: domain.SchemeTIN},
		{ID: b.defaults.textOr(b.str(row, cols.brn)), Scheme: domain.SchemeBRN},
	}
	if cols.sst != "" {
		party.Identifications = append(party.Identifications,
			domain.PartyIdentification{ID: b.defaults.textOr(b.str(row, cols.sst)), Scheme: domain.SchemeSST},
			domain.PartyIdentification{ID: b.defaults.textOr(b.str(row, cols.ttx)), Scheme: domain.SchemeTTX},
		)
	}
	return party
}

func (b *Builder) buildAddress(row sheet.Row, cols partyColumns) domain.Address {
	fragments := make([]string, 0, 2)
	for _, slot := range AddressSlots(cols.addrBase) {
		fragments = append(fragments, b.str(row, slot))
	}

	country := b.str(row, cols.country)
	if country == "" {
		country = b.defaults.Country
	}

	return domain.Address{
		Line:            b.defaults.textOr(sheet.JoinAddressFragments(fragments)),
		City:            b.defaults.textOr(b.str(row, cols.city)),
		Postcode:        b.defaults.textOr(b.str(row, cols.postcode)),
		State:           b.defaults.textOr(domain.ResolveStateCode(b.str(row, cols.state))),
		Country:         country,
		CountryListID:   b.defaults.CountryListID,
		CountryListName: b.defaults.CountryListAgency,
	}
}

// buildLineItem returns (item, false) when none of the line-item signals
// (line id, quantity, line extension amount) is present. A row missing all
// three is legitimately header-only and yields a zero-item document.
func (b *Builder) buildLineItem(row sheet.Row) (domain.LineItem, bool) {
	s := b.schema

	lineID, hasID := b.resolver.Resolve(row, s.LineID)
	qty, hasQty := b.resolver.Resolve(row, s.Quantity)
	ext, hasExt := b.resolver.Resolve(row, s.LineExtension)

	if (!hasID || sheet.IsEmptyValue(lineID)) &&
		(!hasQty || sheet.IsEmptyValue(qty)) &&
		(!hasExt || sheet.IsEmptyValue(ext)) {
		return domain.LineItem{}, false
	}

	id := sheet.AsString(lineID)
	if id == "" {
		id = "1"
	}

	unitCode := b.str(row, s.UnitCode)
	if unitCode == "" {
		unitCode = b.defaults.UnitCode
	}

	item := domain.LineItem{
		ID:                  id,
		Quantity:            sheet.AsFloat(qty),
		UnitCode:            unitCode,
		UnitPrice:           b.num(row, s.UnitPrice),
		LineExtensionAmount: sheet.AsFloat(ext),
		TaxSubtotal:         b.buildLineTax(row),
		Classification: domain.ItemClassification{
			Code:          b.defaults.textOr(b.str(row, s.ItemClassCode)),
			Type:          b.defaults.textOr(b.str(row, s.ItemClassType)),
			Description:   b.defaults.textOr(b.str(row, s.ItemDescription)),
			OriginCountry: b.defaults.textOr(b.str(row, s.ItemOriginCountry)),
		},
		Price: domain.PriceBreakdown{
			Amount:       b.num(row, s.UnitPrice),
			DiscountRate: b.num(row, s.PriceDiscountRate),
			Discount:     b.num(row, s.PriceDiscount),
			SubtotalRate: sheet.AsFloat(ext),
		},
	}

	item.AllowanceCharges = []domain.AllowanceCharge{{
		ChargeIndicator: b.boolField(row, s.ACIndicator),
		Reason:          b.defaults.textOr(b.str(row, s.ACReason)),
		Multiplier:      b.num(row, s.ACMultiplier),
		Amount:          b.num(row, s.ACAmount),
	}}

	return item, true
}

func (b *Builder) buildLineTax(row sheet.Row) domain.TaxSubtotal {
	s := b.schema

	category := b.str(row, s.LineTaxCategory)
	if category == "" {
		category = b.defaults.TaxCategory
	}
	scheme := b.str(row, s.LineTaxScheme)
	if scheme == "" {
		scheme = b.defaults.TaxScheme
	}

	return domain.TaxSubtotal{
		TaxableAmount:   b.num(row, s.LineTaxableAmount),
		TaxAmount:       b.num(row, s.LineTaxAmount),
		CategoryID:      category,
		Percent:         b.num(row, s.LineTaxPercent),
		ExemptionReason: b.defaults.textOr(b.str(row, s.LineTaxExemptReason)),
		SchemeID:        scheme,
	}
}

func (b *Builder) buildSummary(row sheet.Row, items []domain.LineItem) domain.MonetarySummary {
	s := b.schema

	tax := domain.TaxTotal{
		TotalAmount:     b.num(row, s.TaxTotalAmount),
		TaxableAmount:   b.num(row, s.TaxTotalTaxable),
		ExemptedAmount:  b.num(row, s.TaxTotalExempted),
		Rate:            b.num(row, s.TaxTotalRate),
		TypeCode:        b.defaults.textOr(b.str(row, s.TaxTotalTypeCode)),
		ExemptionReason: b.defaults.textOr(b.str(row, s.TaxTotalExemptRsn)),
		Category:        b.defaults.textOr(b.str(row, s.TaxTotalCategory)),
	}
	if tax.TypeCode == domain.NotApplicable {
		tax.TypeCode = b.defaults.TaxTypeCode
	}

	// The document tax block preferentially mirrors the first line's tax
	// subtotal; document-level positional fields are the fallback.
	if len(items) > 0 {
		sub := items[0].TaxSubtotal
		tax.Category = sub.CategoryID
		tax.Rate = sub.Percent
		tax.ExemptionReason = sub.ExemptionReason
		if tax.TaxableAmount == 0 {
			tax.TaxableAmount = sub.TaxableAmount
		}
		if tax.TotalAmount == 0 {
			tax.TotalAmount = sub.TaxAmount
		}
	}

	return domain.MonetarySummary{
		LineExtensionAmount:  b.num(row, s.SumLineExtension),
		TaxExclusiveAmount:   b.num(row, s.SumTaxExclusive),
		TaxInclusiveAmount:   b.num(row, s.SumTaxInclusive),
		AllowanceTotalAmount: b.num(row, s.SumAllowanceTotal),
		ChargeTotalAmount:    b.num(row, s.SumChargeTotal),
		PayableRounding:      b.num(row, s.SumPayableRounding),
		PayableAmount:        b.num(row, s.SumPayable),
		Tax:                  tax,
	}
}

func (b *Builder) str(row sheet.Row, field string) string {
	if field == "" {
		return ""
	}
	return b.resolver.ResolveString(row, field)
}

func (b *Builder) num(row sheet.Row, field string) float64 {
	if field == "" {
		return 0
	}
	return b.resolver.ResolveFloat(row, field)
}

func (b *Builder) date(row sheet.Row, field string) string {
	v, ok := b.resolver.Resolve(row, field)
	if !ok {
		return ""
	}
	return sheet.CellToDate(v)
}

func (b *Builder) boolField(row sheet.Row, field string) bool {
	s := b.str(row, field)
	switch s {
	case "true", "TRUE", "True", "1", "yes", "Y":
		return true
	default:
		return false
	}
}
