package loader

import (
	"strconv"
	"strings"

	"github.com/hearthdata/affordability-cli/internal/model"
)

// houseColumns are the required tabular columns, in canonical order.
var houseColumns = []string{
	"city", "city_full", "zip_code", "year",
	"median_sale_price", "per_capita_income", "lat", "lon",
}

// houseColIdx maps canonical column names to their canonical positions,
// for sources that return columns in fixed order (sqlite, warehouse).
var houseColIdx = mapColumns(houseColumns)

// mapColumns builds a lowercased column name -> index map from a header row.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

// getCol gets a field by column name, or "" when absent.
func getCol(record []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseFloat parses a numeric field. The second return is false for empty
// or malformed values, so callers can keep the row without the number.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseIntOr parses an integer field, returning def on empty or malformed
// input. Tolerates float-formatted integers from spreadsheet exports.
func parseIntOr(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}

// observationFromRecord builds an Observation from one tabular row.
// Malformed price/income fields leave the defined flags false; the row is
// retained for raw display and excluded from ratio computation downstream.
func observationFromRecord(record []string, colIdx map[string]int) model.Observation {
	o := model.Observation{
		City:     strings.TrimSpace(getCol(record, colIdx, "city")),
		CityFull: strings.TrimSpace(getCol(record, colIdx, "city_full")),
		ZIPCode:  model.PadZIP(getCol(record, colIdx, "zip_code")),
		Year:     parseIntOr(getCol(record, colIdx, "year"), 0),
	}
	o.MedianSalePrice, o.PriceDefined = parseFloat(getCol(record, colIdx, "median_sale_price"))
	o.PerCapitaIncome, o.IncomeDefined = parseFloat(getCol(record, colIdx, "per_capita_income"))
	o.Lat, _ = parseFloat(getCol(record, colIdx, "lat"))
	o.Lon, _ = parseFloat(getCol(record, colIdx, "lon"))
	return o
}
