package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTaxIntraState(t *testing.T) {
	// 10 x 100 with 10% discount leaves 900 taxable; 18% GST splits 9% + 9%.
	split := SplitTax(900, 18, "Maharashtra", "Maharashtra")

	assert.InDelta(t, 81.0, split.CGST, 0.001)
	assert.InDelta(t, 81.0, split.SGST, 0.001)
	assert.Zero(t, split.IGST)
	assert.InDelta(t, 162.0, split.Total(), 0.001)
}

func TestSplitTaxInterState(t *testing.T) {
	split := SplitTax(900, 18, "Karnataka", "Maharashtra")

	assert.Zero(t, split.CGST)
	assert.Zero(t, split.SGST)
	assert.InDelta(t, 162.0, split.IGST, 0.001)
}

func TestSplitTaxUnknownStatesAreInterState(t *testing.T) {
	for _, state := range []string{"", "Other"} {
		split := SplitTax(1000, 12, state, "Maharashtra")
		assert.Zero(t, split.CGST, "state=%q", state)
		assert.Zero(t, split.SGST, "state=%q", state)
		assert.InDelta(t, 120.0, split.IGST, 0.001, "state=%q", state)
	}
}

func TestSplitTaxTotalMatchesSingleRate(t *testing.T) {
	// The split never changes the total tax, only its components.
	for _, amount := range []float64{0, 1, 99.99, 1234.56, 100000} {
		intra := SplitTax(amount, 18, "Delhi", "Delhi")
		inter := SplitTax(amount, 18, "Delhi", "Goa")
		assert.InDelta(t, intra.Total(), inter.Total(), 0.001)
		assert.InDelta(t, amount*0.18, intra.Total(), 0.001)
	}
}

func TestSplitTaxZeroRate(t *testing.T) {
	split := SplitTax(500, 0, "Delhi", "Delhi")
	assert.Zero(t, split.Total())
}

func TestDiscountAmountPercentage(t *testing.T) {
	assert.InDelta(t, 100.0, DiscountAmount(1000, 10, "percentage"), 0.001)
	assert.Zero(t, DiscountAmount(1000, 0, "percentage"))
	assert.Zero(t, DiscountAmount(1000, -5, "percentage"))
}

func TestDiscountAmountFixed(t *testing.T) {
	assert.InDelta(t, 150.0, DiscountAmount(1000, 150, "fixed"), 0.001)
}

func TestDiscountAmountClampedAtBase(t *testing.T) {
	assert.InDelta(t, 200.0, DiscountAmount(200, 500, "fixed"), 0.001)
	assert.InDelta(t, 200.0, DiscountAmount(200, 150, "percentage"), 0.001)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.05, Round2(1.054))
	assert.Equal(t, 1.06, Round2(1.056))
	assert.Equal(t, -1.05, Round2(-1.054))
}

func TestRoundRupee(t *testing.T) {
	assert.Equal(t, 1062.0, RoundRupee(1061.8))
	assert.Equal(t, 1061.0, RoundRupee(1061.2))
}
