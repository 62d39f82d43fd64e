// Package fare computes per-head costs for pools. Every function is total
// over all numeric inputs and never panics; validation is the caller's job.
package fare

import (
	"math"
	"strconv"
)

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PerHead returns the per-person cost of splitting totalFare across
// partySize people, rounded to two decimals. A non-positive party size
// yields zero rather than an error.
func PerHead(totalFare, partySize float64) float64 {
	if partySize <= 0 {
		return 0
	}
	return Round2(totalFare / partySize)
}

// Format renders a fare with exactly two decimal places for display.
// Currency symbols are a presentation concern and are not added here.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
