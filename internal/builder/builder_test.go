package builder_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"einvois/internal/builder"
	"einvois/internal/domain"
	"einvois/internal/sheet"
)

var testClock = func() time.Time {
	return time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
}

// fullRow is a complete invoice-based row under the V1 positional layout,
// keyed the way the export tool keys blank-header columns.
func fullRow() sheet.Row {
	return sheet.Row{
		"Invoice":    "INV-2024-001",
		"__EMPTY_2":  "01",
		"__EMPTY_3":  "f6f2c9f0-6f4a-4f6e-9a6e-0d3c7a1b2c3d",
		"__EMPTY_4":  "REF-001",
		"__EMPTY_5":  "MYR",
		"__EMPTY_14": "Acme Sdn Bhd",
		"__EMPTY_15": "C12345678901",
		"__EMPTY_16": "201901234567",
		"__EMPTY_17": "W10-1809-32000001",
		"__EMPTY_18": "NA",
		"__EMPTY_19": "billing@acme.example",
		"__EMPTY_20": "+60123456789",
		"__EMPTY_21": "12 Jalan Ampang",
		"__EMPTY_22": "Taman Desa",
		"__EMPTY_23": "Kuala Lumpur",
		"__EMPTY_24": "50450",
		"__EMPTY_25": "14",
		"__EMPTY_26": "MYS",
		"__EMPTY_27": "46510",
		"__EMPTY_28": "Wholesale of computers",
		"__EMPTY_33": "Buyer Bhd",
		"__EMPTY_34": "C98765432109",
		"__EMPTY_35": "202001234567",
		"__EMPTY_36": "NA",
		"__EMPTY_37": "NA",
		"__EMPTY_40": "5 Lorong Kiri",
		"__EMPTY_42": "Johor Bahru",
		"__EMPTY_43": "80000",
		"__EMPTY_44": "1",
		"__EMPTY_45": "MYS",
		"__EMPTY_57": 1.0,
		"__EMPTY_60": "Laptop",
		"__EMPTY_62": 2.0,
		"__EMPTY_63": "C62",
		"__EMPTY_64": 50.0,
		"__EMPTY_65": 100.0,
		"__EMPTY_70": 100.0,
		"__EMPTY_71": 6.0,
		"__EMPTY_72": "01",
		"__EMPTY_73": 6.0,
		"__EMPTY_79": 100.0,
		"__EMPTY_80": 100.0,
		"__EMPTY_81": 106.0,
		"__EMPTY_85": 106.0,
		"__EMPTY_86": 6.0,
		"__EMPTY_87": 100.0,
	}
}

func newTestBuilder() *builder.Builder {
	return builder.New(builder.LayoutSchemaV1, builder.StandardDefaults).WithClock(testClock)
}

func TestBuild_FullRow(t *testing.T) {
	doc, err := newTestBuilder().Build(fullRow(), builder.Context{})
	require.NoError(t, err)

	assert.Equal(t, "INV-2024-001", doc.Header.InvoiceNo)
	assert.Equal(t, "01", doc.Header.InvoiceTypeCode)
	assert.Equal(t, "MYR", doc.Header.DocumentCurrencyCode)
	// Tax currency falls back to the document currency.
	assert.Equal(t, "MYR", doc.Header.TaxCurrencyCode)
	assert.Equal(t, "REF-001", doc.Header.Reference.InternalID)

	// Issue date and time are the processing time.
	assert.Equal(t, "2024-06-15", doc.Header.IssueDate)
	assert.Equal(t, "10:30:00Z", doc.Header.IssueTime)

	assert.Equal(t, "Acme Sdn Bhd", doc.Supplier.Name)
	assert.Equal(t, "C12345678901", doc.Supplier.Identifier)
	assert.Equal(t, "12 Jalan Ampang, Taman Desa", doc.Supplier.Address.Line)
	assert.Equal(t, "Wilayah Persekutuan Kuala Lumpur", doc.Supplier.Address.State)
	assert.Equal(t, "46510", doc.Supplier.IndustryCode)

	assert.Equal(t, "Buyer Bhd", doc.Buyer.Name)
	assert.Equal(t, "Johor", doc.Buyer.Address.State)

	require.Len(t, doc.Items, 1)
	item := doc.Items[0]
	assert.Equal(t, "1", item.ID)
	assert.Equal(t, 2.0, item.Quantity)
	assert.Equal(t, 100.0, item.LineExtensionAmount)
	assert.Equal(t, 6.0, item.TaxSubtotal.TaxAmount)

	assert.Equal(t, 106.0, doc.Summary.TaxInclusiveAmount)
	assert.Equal(t, 106.0, doc.Summary.PayableAmount)
	// The document tax block mirrors the first line's subtotal.
	assert.Equal(t, "01", doc.Summary.Tax.Category)
	assert.Equal(t, 6.0, doc.Summary.Tax.Rate)
}

func TestBuild_MissingInvoiceNumber(t *testing.T) {
	row := fullRow()
	delete(row, "Invoice")

	_, err := newTestBuilder().Build(row, builder.Context{})
	assert.ErrorIs(t, err, domain.ErrMissingInvoiceNumber)
}

func TestBuild_SupplierIdentificationSchemes(t *testing.T) {
	doc, err := newTestBuilder().Build(fullRow(), builder.Context{})
	require.NoError(t, err)

	require.Len(t, doc.Supplier.Identifications, 4)
	assert.Equal(t, domain.SchemeTIN, doc.Supplier.Identifications[0].Scheme)
	assert.Equal(t, "C12345678901", doc.Supplier.Identifications[0].ID)
	assert.Equal(t, domain.SchemeBRN, doc.Supplier.Identifications[1].Scheme)
	assert.Equal(t, domain.SchemeSST, doc.Supplier.Identifications[2].Scheme)
	assert.Equal(t, domain.SchemeTTX, doc.Supplier.Identifications[3].Scheme)
	// Absent TTX degrades to the sentinel, never to empty.
	assert.Equal(t, "NA", doc.Supplier.Identifications[3].ID)

	// Delivery carries no SST/TTX columns, so only TIN and BRN.
	require.Len(t, doc.Delivery.Identifications, 2)
}

func TestBuild_DefaultsForMissingCells(t *testing.T) {
	row := sheet.Row{"Invoice": "INV-002"}
	doc, err := newTestBuilder().Build(row, builder.Context{})
	require.NoError(t, err)

	assert.Equal(t, "01", doc.Header.InvoiceTypeCode)
	assert.Equal(t, "MYR", doc.Header.DocumentCurrencyCode)
	assert.Equal(t, "INV-002", doc.Header.Reference.InternalID)
	assert.NotEmpty(t, doc.Header.Reference.UUID)

	assert.Equal(t, "NA", doc.Supplier.Name)
	assert.Equal(t, "NA", doc.Supplier.Address.Line)
	assert.Equal(t, "MYS", doc.Supplier.Address.Country)
	assert.Equal(t, "ISO3166-1", doc.Supplier.Address.CountryListID)

	// No line-item signal at all means a zero-item document.
	assert.Empty(t, doc.Items)
	assert.Equal(t, 0.0, doc.Summary.PayableAmount)
}

func TestBuild_HeaderOnlyRowHasNoItems(t *testing.T) {
	row := fullRow()
	delete(row, "__EMPTY_57")
	delete(row, "__EMPTY_62")
	delete(row, "__EMPTY_65")

	doc, err := newTestBuilder().Build(row, builder.Context{})
	require.NoError(t, err)
	assert.Empty(t, doc.Items)
}

func TestBuild_LineIDDefaultsToOne(t *testing.T) {
	row := fullRow()
	delete(row, "__EMPTY_57")

	doc, err := newTestBuilder().Build(row, builder.Context{})
	require.NoError(t, err)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "1", doc.Items[0].ID)
}

func TestBuild_DeterministicExceptTimestamps(t *testing.T) {
	b := newTestBuilder()
	first, err := b.Build(fullRow(), builder.Context{})
	require.NoError(t, err)
	second, err := b.Build(fullRow(), builder.Context{})
	require.NoError(t, err)

	// With a fixed clock the documents are identical.
	assert.Equal(t, first, second)
}

func TestBuild_NumericInvoiceNumber(t *testing.T) {
	row := fullRow()
	row["Invoice"] = 20240001.0

	doc, err := newTestBuilder().Build(row, builder.Context{})
	require.NoError(t, err)
	assert.Equal(t, "20240001", doc.Header.InvoiceNo)
}

func TestAddressSlots(t *testing.T) {
	assert.Equal(t, []string{"21", "22"}, builder.AddressSlots("21"))
	assert.Equal(t, []string{"40", "41"}, builder.AddressSlots("40"))
}
