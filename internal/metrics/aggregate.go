package metrics

import (
	"sort"
	"strings"

	"github.com/hearthdata/affordability-cli/internal/model"
)

// MetroYear is one metro/year row of the aggregated affordability table.
// Aggregates are medians over the metro's plausible rows for that year,
// matching the dashboard the data feeds. PTIDefined is false when no row
// survived the plausibility filter; such rows are excluded from ranking but
// stay in the table as "no data".
type MetroYear struct {
	CityFull        string  `json:"city_full"`
	CityKey         string  `json:"city_key"`
	Year            int     `json:"year"`
	PTI             float64 `json:"pti,omitempty"`
	PTIDefined      bool    `json:"pti_defined"`
	MedianSalePrice float64 `json:"median_sale_price,omitempty"`
	PerCapitaIncome float64 `json:"per_capita_income,omitempty"`
	Band            Band    `json:"band,omitempty"`
	Ranking
	YoYPct     float64 `json:"yoy_pct,omitempty"`
	YoYDefined bool    `json:"yoy_defined"`
}

// ZipYear is one ZIP/year row. Duplicate input rows for the same ZIP and
// year are averaged. Ranks and percentiles are assigned within the ZIP's
// metro for each year.
type ZipYear struct {
	ZIPCode         string  `json:"zip_code"`
	CityFull        string  `json:"city_full"`
	CityKey         string  `json:"city_key"`
	Year            int     `json:"year"`
	PTI             float64 `json:"pti,omitempty"`
	PTIDefined      bool    `json:"pti_defined"`
	MedianSalePrice float64 `json:"median_sale_price,omitempty"`
	PerCapitaIncome float64 `json:"per_capita_income,omitempty"`
	Band            Band    `json:"band,omitempty"`
	Ranking
	YoYPct     float64 `json:"yoy_pct,omitempty"`
	YoYDefined bool    `json:"yoy_defined"`
	Lat        float64 `json:"lat,omitempty"`
	Lon        float64 `json:"lon,omitempty"`
}

type metroKey struct {
	key  string
	year int
}

type zipKey struct {
	zip  string
	year int
}

// AggregateMetros collapses observations to metro/year rows, then assigns
// bands, within-year ranks, and year-over-year changes. Output is sorted by
// metro key, then year.
func AggregateMetros(obs []model.Observation) []MetroYear {
	type agg struct {
		cityFull   string
		ptis       []float64
		prices     []float64
		incomes    []float64
		rawPrices  []float64
		rawIncomes []float64
	}

	groups := make(map[metroKey]*agg)
	for _, o := range obs {
		key := o.CityKey()
		if key == "" || o.Year == 0 {
			continue
		}
		k := metroKey{key: key, year: o.Year}
		g := groups[k]
		if g == nil {
			g = &agg{cityFull: displayName(o)}
			groups[k] = g
		}

		if o.PriceDefined {
			g.rawPrices = append(g.rawPrices, o.MedianSalePrice)
		}
		if o.IncomeDefined {
			g.rawIncomes = append(g.rawIncomes, o.PerCapitaIncome)
		}
		if !o.PriceDefined || !o.IncomeDefined {
			continue
		}

		ratio, ok := ComputePTI(o.MedianSalePrice, o.PerCapitaIncome)
		if !ok || !Plausible(ratio, o.MedianSalePrice, o.PerCapitaIncome) {
			continue
		}
		g.ptis = append(g.ptis, ratio)
		g.prices = append(g.prices, o.MedianSalePrice)
		g.incomes = append(g.incomes, o.PerCapitaIncome)
	}

	rows := make([]MetroYear, 0, len(groups))
	for k, g := range groups {
		r := MetroYear{CityFull: g.cityFull, CityKey: k.key, Year: k.year}
		if len(g.ptis) > 0 {
			r.PTI = median(g.ptis)
			r.PTIDefined = true
			r.MedianSalePrice = median(g.prices)
			r.PerCapitaIncome = median(g.incomes)
			r.Band = Classify(r.PTI)
		} else {
			// Raw display only; stays out of rankings.
			r.MedianSalePrice = median(g.rawPrices)
			r.PerCapitaIncome = median(g.rawIncomes)
		}
		rows = append(rows, r)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CityKey != rows[j].CityKey {
			return rows[i].CityKey < rows[j].CityKey
		}
		return rows[i].Year < rows[j].Year
	})

	rankMetros(rows)
	applyMetroYoY(rows)
	return rows
}

// AggregateZIPs collapses observations to ZIP/year rows using means, then
// assigns bands, within-metro ranks, and year-over-year changes. Output is
// sorted by ZIP, then year.
func AggregateZIPs(obs []model.Observation) []ZipYear {
	type agg struct {
		cityFull string
		cityKey  string
		ptis     []float64
		prices   []float64
		incomes  []float64
		lat, lon float64
	}

	groups := make(map[zipKey]*agg)
	for _, o := range obs {
		if o.ZIPCode == "" || o.Year == 0 {
			continue
		}
		k := zipKey{zip: o.ZIPCode, year: o.Year}
		g := groups[k]
		if g == nil {
			g = &agg{cityFull: displayName(o), cityKey: o.CityKey(), lat: o.Lat, lon: o.Lon}
			groups[k] = g
		}
		if !o.PriceDefined || !o.IncomeDefined {
			continue
		}
		ratio, ok := ComputePTI(o.MedianSalePrice, o.PerCapitaIncome)
		if !ok || !Plausible(ratio, o.MedianSalePrice, o.PerCapitaIncome) {
			continue
		}
		g.ptis = append(g.ptis, ratio)
		g.prices = append(g.prices, o.MedianSalePrice)
		g.incomes = append(g.incomes, o.PerCapitaIncome)
	}

	rows := make([]ZipYear, 0, len(groups))
	for k, g := range groups {
		r := ZipYear{
			ZIPCode:  k.zip,
			CityFull: g.cityFull,
			CityKey:  g.cityKey,
			Year:     k.year,
			Lat:      g.lat,
			Lon:      g.lon,
		}
		if len(g.ptis) > 0 {
			r.PTI = mean(g.ptis)
			r.PTIDefined = true
			r.MedianSalePrice = mean(g.prices)
			r.PerCapitaIncome = mean(g.incomes)
			r.Band = Classify(r.PTI)
		}
		rows = append(rows, r)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ZIPCode != rows[j].ZIPCode {
			return rows[i].ZIPCode < rows[j].ZIPCode
		}
		return rows[i].Year < rows[j].Year
	})

	rankZIPs(rows)
	applyZipYoY(rows)
	return rows
}

// rankMetros ranks defined rows ascending by PTI within each year.
func rankMetros(rows []MetroYear) {
	byYear := make(map[int][]int)
	for i, r := range rows {
		if r.PTIDefined {
			byYear[r.Year] = append(byYear[r.Year], i)
		}
	}
	for _, idxs := range byYear {
		vals := make([]float64, len(idxs))
		for j, i := range idxs {
			vals[j] = rows[i].PTI
		}
		for j, rk := range Rank(vals) {
			rows[idxs[j]].Ranking = rk
		}
	}
}

// rankZIPs ranks defined rows ascending by PTI within each metro and year.
func rankZIPs(rows []ZipYear) {
	byGroup := make(map[metroKey][]int)
	for i, r := range rows {
		if r.PTIDefined {
			k := metroKey{key: r.CityKey, year: r.Year}
			byGroup[k] = append(byGroup[k], i)
		}
	}
	for _, idxs := range byGroup {
		vals := make([]float64, len(idxs))
		for j, i := range idxs {
			vals[j] = rows[i].PTI
		}
		for j, rk := range Rank(vals) {
			rows[idxs[j]].Ranking = rk
		}
	}
}

func applyMetroYoY(rows []MetroYear) {
	series := make(map[string]map[int]float64)
	idx := make(map[metroKey]int)
	for i, r := range rows {
		if !r.PTIDefined {
			continue
		}
		s := series[r.CityKey]
		if s == nil {
			s = make(map[int]float64)
			series[r.CityKey] = s
		}
		s[r.Year] = r.PTI
		idx[metroKey{key: r.CityKey, year: r.Year}] = i
	}
	for key, s := range series {
		for _, c := range YearOverYear(s) {
			if !c.Defined {
				continue
			}
			if i, ok := idx[metroKey{key: key, year: c.Year}]; ok {
				rows[i].YoYPct = c.Pct
				rows[i].YoYDefined = true
			}
		}
	}
}

func applyZipYoY(rows []ZipYear) {
	series := make(map[string]map[int]float64)
	idx := make(map[zipKey]int)
	for i, r := range rows {
		if !r.PTIDefined {
			continue
		}
		s := series[r.ZIPCode]
		if s == nil {
			s = make(map[int]float64)
			series[r.ZIPCode] = s
		}
		s[r.Year] = r.PTI
		idx[zipKey{zip: r.ZIPCode, year: r.Year}] = i
	}
	for zip, s := range series {
		for _, c := range YearOverYear(s) {
			if !c.Defined {
				continue
			}
			if i, ok := idx[zipKey{zip: zip, year: c.Year}]; ok {
				rows[i].YoYPct = c.Pct
				rows[i].YoYDefined = true
			}
		}
	}
}

// PTISeries returns a metro's defined PTI values keyed by year.
func PTISeries(rows []MetroYear, cityKey string) map[int]float64 {
	out := make(map[int]float64)
	for _, r := range rows {
		if r.CityKey == cityKey && r.PTIDefined {
			out[r.Year] = r.PTI
		}
	}
	return out
}

// PriceSeries returns a metro's median sale price values keyed by year.
func PriceSeries(rows []MetroYear, cityKey string) map[int]float64 {
	out := make(map[int]float64)
	for _, r := range rows {
		if r.CityKey == cityKey && r.MedianSalePrice > 0 {
			out[r.Year] = r.MedianSalePrice
		}
	}
	return out
}

// ZipPTISeries returns a ZIP's defined PTI values keyed by year.
func ZipPTISeries(rows []ZipYear, zip string) map[int]float64 {
	out := make(map[int]float64)
	for _, r := range rows {
		if r.ZIPCode == zip && r.PTIDefined {
			out[r.Year] = r.PTI
		}
	}
	return out
}

func displayName(o model.Observation) string {
	if s := strings.TrimSpace(o.CityFull); s != "" {
		return s
	}
	return strings.TrimSpace(o.City)
}

func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
