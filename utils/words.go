package utils

import (
	"math"
	"strings"
)

var (
	wordOnes  = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	wordTens  = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
	wordTeens = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
)

// numberToWords spells out a non-negative integer using the Indian numbering
// system (crore/lakh groupings).
func numberToWords(num int64) string {
	if num == 0 {
		return "Zero"
	}

	var b strings.Builder

	if num >= 10000000 {
		b.WriteString(numberToWords(num/10000000) + " Crore ")
		num %= 10000000
	}
	if num >= 100000 {
		b.WriteString(numberToWords(num/100000) + " Lakh ")
		num %= 100000
	}
	if num >= 1000 {
		b.WriteString(numberToWords(num/1000) + " Thousand ")
		num %= 1000
	}
	if num >= 100 {
		b.WriteString(wordOnes[num/100] + " Hundred ")
		num %= 100
	}
	if num >= 20 {
		b.WriteString(wordTens[num/10] + " ")
		num %= 10
	}
	if num >= 10 {
		b.WriteString(wordTeens[num-10] + " ")
		return strings.TrimSpace(b.String())
	}
	if num > 0 {
		b.WriteString(wordOnes[num] + " ")
	}

	return strings.TrimSpace(b.String())
}

// AmountInWords renders a currency amount as rupees (and paise when nonzero)
// in words, always suffixed "Only".
func AmountInWords(amount float64) string {
	rupees := int64(math.Floor(amount))
	paise := int64(math.Round((amount - float64(rupees)) * 100))
	if paise >= 100 {
		rupees++
		paise -= 100
	}

	words := numberToWords(rupees) + " Rupees"
	if paise > 0 {
		words += " and " + numberToWords(paise) + " Paise"
	}
	return words + " Only"
}
