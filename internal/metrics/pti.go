package metrics

// Plausibility limits for aggregate metrics. Ratios outside
// [minPlausiblePTI, maxPlausiblePTI] or rows with per-capita income below
// minPlausibleIncome are data artifacts: they stay visible as "no data" but
// are excluded from medians and rankings.
const (
	minPlausiblePTI    = 0.5
	maxPlausiblePTI    = 50.0
	minPlausibleIncome = 5000.0
)

// ComputePTI returns the price-to-income ratio. The second return is false
// when the ratio is undefined (income <= 0).
func ComputePTI(price, income float64) (float64, bool) {
	if income <= 0 {
		return 0, false
	}
	return price / income, true
}

// Plausible reports whether a defined ratio is usable for aggregate
// metrics.
func Plausible(ratio, price, income float64) bool {
	return price > 0 &&
		income >= minPlausibleIncome &&
		ratio >= minPlausiblePTI &&
		ratio <= maxPlausiblePTI
}
