package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "Zero Rupees Only"},
		{1, "One Rupees Only"},
		{17, "Seventeen Rupees Only"},
		{42, "Forty Two Rupees Only"},
		{100, "One Hundred Rupees Only"},
		{1062, "One Thousand Sixty Two Rupees Only"},
		{100000, "One Lakh Rupees Only"},
		{2550000, "Twenty Five Lakh Fifty Thousand Rupees Only"},
		{10000000, "One Crore Rupees Only"},
		{12345678, "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Rupees Only"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AmountInWords(tc.amount), "amount=%v", tc.amount)
	}
}

func TestAmountInWordsWithPaise(t *testing.T) {
	assert.Equal(t, "One Hundred Rupees and Fifty Paise Only", AmountInWords(100.50))
	assert.Equal(t, "Zero Rupees and One Paise Only", AmountInWords(0.01))
}

func TestAmountInWordsPaiseCarry(t *testing.T) {
	// Paise that round to a full rupee carry over instead of reading
	// "One Hundred Paise".
	assert.Equal(t, "Two Rupees Only", AmountInWords(1.999))
	assert.Equal(t, "One Rupees Only", AmountInWords(0.9999))
}

func TestNumberToWordsTeens(t *testing.T) {
	assert.Equal(t, "Ten", numberToWords(10))
	assert.Equal(t, "Nineteen", numberToWords(19))
	assert.Equal(t, "One Hundred Eleven", numberToWords(111))
}
