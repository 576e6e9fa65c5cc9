// Package model defines the core housing affordability entities: the
// tabular price/income observations and the metro and ZIP boundary polygons
// they join against.
package model

import (
	"strings"

	"golang.org/x/text/cases"
)

const zipWidth = 5

var keyFolder = cases.Fold()

// NormalizeCityKey trims and case-folds a city or metro name so dataset
// rows and CBSA polygon names join on the same key.
func NormalizeCityKey(s string) string {
	return keyFolder.String(strings.TrimSpace(s))
}

// PadZIP zero-pads a ZIP code to the fixed 5-digit width. Spreadsheet
// exports sometimes carry ZIPs as floats ("6011.0"); the fractional part is
// dropped before padding. Empty input stays empty rather than becoming
// "00000".
func PadZIP(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return ""
	}
	for len(s) < zipWidth {
		s = "0" + s
	}
	return s
}

// Observation is one city/ZIP/year row of the housing time series. Price
// and income carry defined flags so malformed rows can be retained for raw
// display while staying out of ratio computation.
type Observation struct {
	City            string  `json:"city"`
	CityFull        string  `json:"city_full"`
	ZIPCode         string  `json:"zip_code"` // zero-padded, 5 digits
	Year            int     `json:"year"`
	MedianSalePrice float64 `json:"median_sale_price"`
	PriceDefined    bool    `json:"price_defined"`
	PerCapitaIncome float64 `json:"per_capita_income"`
	IncomeDefined   bool    `json:"income_defined"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
}

// CityKey returns the normalized metro join key. The full "City, ST" form
// is preferred over the short city name when present.
func (o Observation) CityKey() string {
	if k := NormalizeCityKey(o.CityFull); k != "" {
		return k
	}
	return NormalizeCityKey(o.City)
}
