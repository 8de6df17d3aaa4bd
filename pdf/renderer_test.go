package pdf

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"gstbilling-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func sampleProfile() *models.CompanyProfile {
	return &models.CompanyProfile{
		CompanyName: "Acme Traders Pvt Ltd",
		Tagline:     "Quality since 1985",
		Email:       "billing@acmetraders.in",
		Phone:       "+91 98765 43210",
		GSTNumber:   "27AABCA1234F1Z5",
		Address: datatypes.NewJSONType(models.Address{
			AddressLine1: "Plot 14, Industrial Estate",
			City:         "Pune",
			State:        "Maharashtra",
			Pincode:      "411001",
		}),
		BankDetails: datatypes.NewJSONType(models.BankDetails{
			BankName:      "State Bank of India",
			AccountNumber: "000123456789",
			IFSCCode:      "SBIN0001234",
		}),
		InvoiceSettings: datatypes.NewJSONType(models.InvoiceSettings{
			ShowGST:         true,
			ShowBankDetails: true,
			ShowSignature:   true,
			ShowFooter:      true,
			DefaultTerms:    "Payment due within 30 days.",
		}),
		IsActive: true,
	}
}

func sampleInvoice(itemCount int) *models.Invoice {
	due := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	inv := &models.Invoice{
		InvoiceNumber: "INV/2506/0001",
		InvoiceType:   models.TypeTaxInvoice,
		InvoiceDate:   time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       &due,
		PaymentTerms:  "30 Days",
		CustomerDetails: datatypes.NewJSONType(models.CustomerSnapshot{
			CustomerName: "Ravi Kumar",
			CompanyName:  "Kumar Hardware",
			GSTNumber:    "29AABCK9876G1Z1",
			BillingAddress: models.Address{
				AddressLine1: "88 Brigade Road",
				City:         "Bengaluru",
				State:        "Karnataka",
			},
			ShippingAddress: models.Address{
				AddressLine1: "Warehouse 2, Hosur Road",
				City:         "Bengaluru",
				State:        "Karnataka",
			},
		}),
		Subtotal:      1000,
		TotalDiscount: 100,
		TotalIGST:     162,
		TotalTax:      162,
		GrandTotal:    1062,
		BalanceAmount: 1062,
		PaymentStatus: models.PaymentUnpaid,
		Status:        models.StatusSent,
		Notes:         "Deliver during business hours.",
	}
	for i := 1; i <= itemCount; i++ {
		inv.Items = append(inv.Items, models.InvoiceItem{
			Position:    i,
			ItemName:    fmt.Sprintf("Steel Bracket %d", i),
			HSNCode:     "7308",
			Quantity:    10,
			Unit:        "Pcs",
			Rate:        100,
			TaxRate:     18,
			IGST:        162,
			TotalAmount: 1062,
		})
	}
	return inv
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := Render(sampleInvoice(3), sampleProfile())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output should start with a PDF header")
	assert.Greater(t, len(out), 1500, "document should not be trivially small")
}

func TestRenderManyItemsPaginates(t *testing.T) {
	short, err := Render(sampleInvoice(2), sampleProfile())
	require.NoError(t, err)
	long, err := Render(sampleInvoice(60), sampleProfile())
	require.NoError(t, err)

	assert.Greater(t, len(long), len(short))
	// A 60-line document must span multiple pages.
	assert.Greater(t, bytes.Count(long, []byte("/Type /Page")), bytes.Count(short, []byte("/Type /Page")))
}

func TestRenderRequiresInputs(t *testing.T) {
	_, err := Render(nil, sampleProfile())
	assert.Error(t, err)
	_, err = Render(sampleInvoice(1), nil)
	assert.Error(t, err)
}

func TestRenderPaidInvoiceShowsPaidAmounts(t *testing.T) {
	inv := sampleInvoice(1)
	inv.PaidAmount = 1062
	inv.BalanceAmount = 0
	inv.PaymentStatus = models.PaymentPaid

	out, err := Render(inv, sampleProfile())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, [3]int{0x66, 0x7e, 0xea}, parseHexColor("#667eea"))
	assert.Equal(t, [3]int{255, 255, 255}, parseHexColor("ffffff"))
	assert.Equal(t, [3]int{0, 0, 0}, parseHexColor("not-a-color"))
	assert.Equal(t, [3]int{0, 0, 0}, parseHexColor(""))
}
