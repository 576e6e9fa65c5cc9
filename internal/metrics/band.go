// Package metrics computes Price-to-Income Ratio affordability metrics and
// their band, rank, percentile, and year-over-year derivatives.
package metrics

// Band is the affordability classification of a price-to-income ratio,
// following the Demographia housing affordability scale.
type Band string

const (
	BandAffordable Band = "Affordable"
	BandModerate   Band = "Moderately Unaffordable"
	BandSerious    Band = "Seriously Unaffordable"
	BandSevere     Band = "Severely Unaffordable"
	BandImpossible Band = "Impossibly Unaffordable"
)

// Band boundaries. Each band covers [lower, next); the top band is unbounded.
const (
	affordableMax = 3.0
	moderateMax   = 4.0
	seriousMax    = 5.0
	severeMax     = 9.0
)

// Classify returns the affordability band for a price-to-income ratio.
// Rules:
//   - Affordable: ratio < 3.0
//   - Moderately Unaffordable: 3.0 <= ratio < 4.0
//   - Seriously Unaffordable: 4.0 <= ratio < 5.0
//   - Severely Unaffordable: 5.0 <= ratio < 9.0
//   - Impossibly Unaffordable: ratio >= 9.0
func Classify(ratio float64) Band {
	switch {
	case ratio < affordableMax:
		return BandAffordable
	case ratio < moderateMax:
		return BandModerate
	case ratio < seriousMax:
		return BandSerious
	case ratio < severeMax:
		return BandSevere
	default:
		return BandImpossible
	}
}
