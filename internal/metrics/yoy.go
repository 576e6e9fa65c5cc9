package metrics

import "sort"

// Anchor years for the pandemic-era price change metric.
const (
	covidBaseYear = 2019
	covidPeakYear = 2021
)

// YoYChange is the percent change for one year versus the prior year.
type YoYChange struct {
	Year    int     `json:"year"`
	Pct     float64 `json:"pct"`
	Defined bool    `json:"defined"`
}

// YearOverYear computes percent change per year for a year-keyed series,
// in ascending year order. A year is undefined when it is the first in the
// series, when the prior calendar year is absent, or when the prior value
// is zero.
func YearOverYear(series map[int]float64) []YoYChange {
	years := make([]int, 0, len(series))
	for y := range series {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]YoYChange, 0, len(years))
	for _, y := range years {
		c := YoYChange{Year: y}
		if prev, ok := series[y-1]; ok && prev != 0 {
			c.Pct = (series[y] - prev) / prev * 100
			c.Defined = true
		}
		out = append(out, c)
	}
	return out
}

// CovidDelta returns the percent change between the fixed 2019 and 2021
// anchor years. Undefined when either anchor is absent or the base value is
// zero.
func CovidDelta(series map[int]float64) (float64, bool) {
	base, okBase := series[covidBaseYear]
	peak, okPeak := series[covidPeakYear]
	if !okBase || !okPeak || base == 0 {
		return 0, false
	}
	return (peak - base) / base * 100, true
}
