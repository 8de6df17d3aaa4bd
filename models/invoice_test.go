package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTypeCode(t *testing.T) {
	cases := map[string]string{
		TypeTaxInvoice:      "INV",
		TypeProformaInvoice: "PRO",
		TypeCreditNote:      "CRN",
		TypeDebitNote:       "DBN",
		TypeEstimate:        "EST",
		TypeQuotation:       "QTN",
		"Something Else":    "INV",
	}
	for typ, want := range cases {
		assert.Equal(t, want, TypeCode(typ), "type=%q", typ)
	}
}

func TestSequenceKeyUsesIssueMonth(t *testing.T) {
	// Backdated documents file under their own month's counter.
	assert.Equal(t, "INV2501", SequenceKey(TypeTaxInvoice, date(2025, time.January, 15)))
	assert.Equal(t, "INV2512", SequenceKey(TypeTaxInvoice, date(2025, time.December, 1)))
	assert.Equal(t, "CRN2604", SequenceKey(TypeCreditNote, date(2026, time.April, 30)))
}

func TestFormatInvoiceNumber(t *testing.T) {
	issued := date(2025, time.September, 1)
	assert.Equal(t, "INV/2509/0001", FormatInvoiceNumber(TypeTaxInvoice, issued, 1))
	assert.Equal(t, "PRO/2509/0042", FormatInvoiceNumber(TypeProformaInvoice, issued, 42))
	assert.Equal(t, "EST/2509/12345", FormatInvoiceNumber(TypeEstimate, issued, 12345))
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusDraft, StatusSent},
		{StatusDraft, StatusCancelled},
		{StatusSent, StatusViewed},
		{StatusSent, StatusPaid},
		{StatusSent, StatusOverdue},
		{StatusViewed, StatusPaid},
		{StatusOverdue, StatusPaid},
		{StatusOverdue, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{StatusDraft, StatusPaid},
		{StatusDraft, StatusViewed},
		{StatusSent, StatusDraft},
		{StatusPaid, StatusCancelled},
		{StatusPaid, StatusDraft},
		{StatusCancelled, StatusSent},
		{StatusViewed, StatusSent},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusDraft, StatusSent, StatusViewed, StatusPaid, StatusCancelled, StatusOverdue} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("Archived"))
	assert.False(t, ValidStatus(""))
}

func TestRecomputePaymentStatus(t *testing.T) {
	now := date(2025, time.June, 15)

	inv := Invoice{GrandTotal: 1000}
	inv.Recompute(now)
	assert.Equal(t, PaymentUnpaid, inv.PaymentStatus)
	assert.Equal(t, 1000.0, inv.BalanceAmount)

	inv.PaidAmount = 400
	inv.Recompute(now)
	assert.Equal(t, PaymentPartial, inv.PaymentStatus)
	assert.Equal(t, 600.0, inv.BalanceAmount)

	inv.PaidAmount = 1000
	inv.Recompute(now)
	assert.Equal(t, PaymentPaid, inv.PaymentStatus)
	assert.Zero(t, inv.BalanceAmount)
}

func TestRecomputeOverdueOverride(t *testing.T) {
	now := date(2025, time.June, 15)
	due := date(2025, time.June, 1)

	inv := Invoice{GrandTotal: 1000, PaidAmount: 400, DueDate: &due}
	inv.Recompute(now)
	assert.Equal(t, PaymentOverdue, inv.PaymentStatus)

	// Fully paid invoices never report overdue, regardless of the due date.
	inv.PaidAmount = 1000
	inv.Recompute(now)
	assert.Equal(t, PaymentPaid, inv.PaymentStatus)

	// A future due date leaves the derived status untouched.
	future := date(2025, time.July, 1)
	inv = Invoice{GrandTotal: 1000, DueDate: &future}
	inv.Recompute(now)
	assert.Equal(t, PaymentUnpaid, inv.PaymentStatus)
}

func TestRecomputeAtPaidFloor(t *testing.T) {
	// A reworked draft may shrink at most to its collected amount (the update
	// path rejects anything lower), so the derived balance bottoms out at zero.
	inv := Invoice{GrandTotal: 600, PaidAmount: 600}
	inv.Recompute(date(2025, time.June, 15))
	assert.Equal(t, PaymentPaid, inv.PaymentStatus)
	assert.Zero(t, inv.BalanceAmount)
	assert.GreaterOrEqual(t, inv.BalanceAmount, 0.0)
}

func TestRecomputeRoundsBalance(t *testing.T) {
	inv := Invoice{GrandTotal: 100.10, PaidAmount: 33.33}
	inv.Recompute(date(2025, time.June, 15))
	assert.Equal(t, 66.77, inv.BalanceAmount)
}
