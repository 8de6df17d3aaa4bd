package utils

// TaxSplit is the GST component breakdown of a taxable amount. Exactly one of
// IGST / (CGST+SGST) is nonzero for a nonzero rate.
type TaxSplit struct {
	CGST float64
	SGST float64
	IGST float64
}

// Total returns the combined tax of the split.
func (s TaxSplit) Total() float64 {
	return s.CGST + s.SGST + s.IGST
}

// SplitTax computes the CGST/SGST vs IGST split for a taxable amount. A
// missing customer state, the "Other" sentinel, or a state different from the
// company's is treated as inter-state (IGST); otherwise the rate is halved
// into CGST and SGST. Pure function; the caller coerces inputs to >= 0.
func SplitTax(taxableAmount, taxRatePercent float64, customerState, companyState string) TaxSplit {
	if customerState == "" || customerState == "Other" || customerState != companyState {
		return TaxSplit{IGST: taxableAmount * taxRatePercent / 100}
	}
	half := taxableAmount * (taxRatePercent / 2) / 100
	return TaxSplit{CGST: half, SGST: half}
}

// DiscountAmount resolves a line discount against its base amount
// (quantity x rate). Fixed discounts are clamped at the base so the taxable
// amount never goes negative.
func DiscountAmount(base, discount float64, discountType string) float64 {
	if discount <= 0 {
		return 0
	}
	var amount float64
	if discountType == "fixed" {
		amount = discount
	} else {
		amount = base * discount / 100
	}
	if amount > base {
		amount = base
	}
	return amount
}
