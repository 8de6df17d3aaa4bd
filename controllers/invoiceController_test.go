package controllers

import (
	"testing"
	"time"

	"gstbilling-backend/models"
	"gstbilling-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func trackedProduct(id string, stock float64) *models.Product {
	return &models.Product{
		Id:           id,
		Code:         "ITEM00001",
		Name:         "Steel Bracket",
		HSNCode:      "7308",
		Unit:         "Pcs",
		Price:        100,
		GSTPercent:   18,
		CurrentStock: &stock,
	}
}

func TestComputeInvoiceLinesIntraState(t *testing.T) {
	product := trackedProduct("p1", 50)
	inputs := []InvoiceItemInput{{
		ItemID:   "p1",
		Quantity: 10,
		Discount: 10,
	}}

	items, totals, err := computeInvoiceLines(inputs, map[string]*models.Product{"p1": product}, "Maharashtra", "Maharashtra")
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, 1, item.Position)
	assert.Equal(t, "Steel Bracket", item.ItemName)
	assert.Equal(t, "7308", item.HSNCode)
	assert.Equal(t, 100.0, item.Rate)
	assert.Equal(t, 18.0, item.TaxRate)
	assert.InDelta(t, 81.0, item.CGST, 0.001)
	assert.InDelta(t, 81.0, item.SGST, 0.001)
	assert.Zero(t, item.IGST)
	assert.InDelta(t, 1062.0, item.TotalAmount, 0.001)

	assert.InDelta(t, 1000.0, totals.Subtotal, 0.001)
	assert.InDelta(t, 100.0, totals.TotalDiscount, 0.001)
	assert.InDelta(t, 81.0, totals.TotalCGST, 0.001)
	assert.InDelta(t, 81.0, totals.TotalSGST, 0.001)
	assert.Zero(t, totals.TotalIGST)
}

func TestComputeInvoiceLinesInterState(t *testing.T) {
	product := trackedProduct("p1", 50)
	inputs := []InvoiceItemInput{{ItemID: "p1", Quantity: 10, Discount: 10}}

	items, totals, err := computeInvoiceLines(inputs, map[string]*models.Product{"p1": product}, "Karnataka", "Maharashtra")
	require.NoError(t, err)

	assert.Zero(t, items[0].CGST)
	assert.Zero(t, items[0].SGST)
	assert.InDelta(t, 162.0, items[0].IGST, 0.001)
	assert.InDelta(t, 1062.0, items[0].TotalAmount, 0.001)
	assert.InDelta(t, 162.0, totals.TotalIGST, 0.001)
}

func TestComputeInvoiceLinesInsufficientStock(t *testing.T) {
	product := trackedProduct("p1", 5)
	inputs := []InvoiceItemInput{{ItemID: "p1", Quantity: 10}}

	_, _, err := computeInvoiceLines(inputs, map[string]*models.Product{"p1": product}, "Maharashtra", "Maharashtra")
	require.Error(t, err)

	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Contains(t, fe.Message, "Insufficient stock")
	assert.Contains(t, fe.Message, "Available: 5")
}

func TestComputeInvoiceLinesCombinedLinesExceedStock(t *testing.T) {
	// Two lines of the same product are checked as one combined ask, not each
	// against the same snapshot.
	product := trackedProduct("p1", 10)
	inputs := []InvoiceItemInput{
		{ItemID: "p1", Quantity: 6},
		{ItemID: "p1", Quantity: 6},
	}

	_, _, err := computeInvoiceLines(inputs, map[string]*models.Product{"p1": product}, "Maharashtra", "Maharashtra")
	require.Error(t, err)

	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Contains(t, fe.Message, "Insufficient stock")

	// The same two lines pass when the combined ask fits.
	inputs[1].Quantity = 4
	_, _, err = computeInvoiceLines(inputs, map[string]*models.Product{"p1": trackedProduct("p1", 10)}, "Maharashtra", "Maharashtra")
	assert.NoError(t, err)
}

func TestComputeInvoiceLinesUntrackedStockNeverRejects(t *testing.T) {
	product := trackedProduct("p1", 0)
	product.CurrentStock = nil
	inputs := []InvoiceItemInput{{ItemID: "p1", Quantity: 10000}}

	_, _, err := computeInvoiceLines(inputs, map[string]*models.Product{"p1": product}, "Maharashtra", "Maharashtra")
	assert.NoError(t, err)
}

func TestComputeInvoiceLinesCustomItem(t *testing.T) {
	// A line without a catalog reference carries its own pricing.
	inputs := []InvoiceItemInput{{
		ItemName: "Transport",
		Quantity: 1,
		Rate:     ptr(500.0),
		TaxRate:  ptr(5.0),
	}}

	items, _, err := computeInvoiceLines(inputs, map[string]*models.Product{}, "Maharashtra", "Maharashtra")
	require.NoError(t, err)
	assert.Equal(t, "Transport", items[0].ItemName)
	assert.Equal(t, "Pcs", items[0].Unit)
	assert.Nil(t, items[0].ProductID)
	assert.InDelta(t, 525.0, items[0].TotalAmount, 0.001)
}

func TestComputeInvoiceLinesNamelessCustomItem(t *testing.T) {
	inputs := []InvoiceItemInput{{Quantity: 1, Rate: ptr(100.0)}}

	items, _, err := computeInvoiceLines(inputs, map[string]*models.Product{}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Custom Item", items[0].ItemName)
}

func TestComputeInvoiceLinesRateOverride(t *testing.T) {
	product := trackedProduct("p1", 50)
	inputs := []InvoiceItemInput{{ItemID: "p1", Quantity: 2, Rate: ptr(80.0)}}

	items, _, err := computeInvoiceLines(inputs, map[string]*models.Product{"p1": product}, "Karnataka", "Maharashtra")
	require.NoError(t, err)
	assert.Equal(t, 80.0, items[0].Rate)
	assert.InDelta(t, 160*1.18, items[0].TotalAmount, 0.001)
}

func TestComputeInvoiceLinesFixedDiscountClamp(t *testing.T) {
	inputs := []InvoiceItemInput{{
		ItemName:     "Sample",
		Quantity:     1,
		Rate:         ptr(100.0),
		Discount:     500,
		DiscountType: models.DiscountFixed,
		TaxRate:      ptr(18.0),
	}}

	items, totals, err := computeInvoiceLines(inputs, map[string]*models.Product{}, "Delhi", "Delhi")
	require.NoError(t, err)
	// Discount clamps at the base; taxable amount and tax are zero.
	assert.InDelta(t, 100.0, totals.TotalDiscount, 0.001)
	assert.Zero(t, items[0].TotalAmount)
}

func TestComputeInvoiceLinesRejectsNegatives(t *testing.T) {
	_, _, err := computeInvoiceLines([]InvoiceItemInput{{ItemName: "X", Quantity: -1}}, nil, "", "")
	require.Error(t, err)

	_, _, err = computeInvoiceLines([]InvoiceItemInput{{ItemName: "X", Quantity: 1, Rate: ptr(-10.0)}}, nil, "", "")
	require.Error(t, err)
}

func TestEnsureTotalCoversPaid(t *testing.T) {
	// A draft that already took 600 in payments cannot be reworked down to a
	// 100 total; the derived balance would go negative and the invoice would
	// read as overpaid-Paid.
	err := ensureTotalCoversPaid(100, 600)
	require.Error(t, err)

	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Contains(t, fe.Message, "already paid")

	assert.NoError(t, ensureTotalCoversPaid(600, 600))
	assert.NoError(t, ensureTotalCoversPaid(700, 600))
	assert.NoError(t, ensureTotalCoversPaid(100, 0))
}

func TestRoundOffReconciliation(t *testing.T) {
	// Grand total is rounded to the whole rupee; roundOff records the delta so
	// the printed breakdown still sums exactly.
	subtotal, discount, tax, shipping, other := 1000.0, 100.0, 162.35, 50.0, 0.0
	beforeRound := subtotal - discount + tax + shipping + other
	grand := utils.RoundRupee(beforeRound)
	roundOff := utils.Round2(grand - beforeRound)

	assert.Equal(t, 1112.0, grand)
	assert.InDelta(t, -0.35, roundOff, 0.001)
	assert.InDelta(t, beforeRound+roundOff, grand, 0.001)
}

func TestParseDate(t *testing.T) {
	d := parseDate("2025-06-15")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), *d)

	d = parseDate("2025-06-15T10:30:00Z")
	require.NotNil(t, d)
	assert.Equal(t, 10, d.Hour())

	assert.Nil(t, parseDate(""))
	assert.Nil(t, parseDate("15/06/2025"))
}
