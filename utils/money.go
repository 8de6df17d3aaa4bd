package utils

import "math"

// Round2 rounds x to 2 decimal places (banking-style simple round).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// RoundRupee rounds a grand total to the nearest whole currency unit.
func RoundRupee(x float64) float64 {
	return math.Round(x)
}
