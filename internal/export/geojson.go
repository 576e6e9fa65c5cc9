// Package export serializes aggregated affordability data to static files a
// dashboard can serve directly: JSON tables, per-year GeoJSON layers, and a
// YAML manifest describing the run.
package export

import (
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/hearthdata/affordability-cli/internal/geomatch"
)

// MetroFeatureCollection builds the metro choropleth layer for one year.
// Rows without geometry or from other years are skipped; the table exports
// carry those.
func MetroFeatureCollection(features []geomatch.MetroFeature, year int) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for _, f := range features {
		if f.Geometry == nil || f.Year != year {
			continue
		}
		props := map[string]interface{}{
			"city_full":  f.CityFull,
			"metro_name": f.MetroName,
			"cbsa_code":  f.CBSACode,
			"year":       f.Year,
		}
		addMetricProps(props, f.PTI, f.PTIDefined, string(f.Band), f.Rank, f.Total, f.Percentile, f.YoYPct, f.YoYDefined)
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         f.CityKey,
			Geometry:   f.Geometry,
			Properties: props,
		})
	}
	return fc
}

// ZipFeatureCollection builds the ZIP drill-down layer for one year.
func ZipFeatureCollection(features []geomatch.ZipFeature, year int) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for _, f := range features {
		if f.Geometry == nil || f.Year != year {
			continue
		}
		props := map[string]interface{}{
			"zip_code":  f.ZIPCode,
			"city_full": f.CityFull,
			"year":      f.Year,
		}
		addMetricProps(props, f.PTI, f.PTIDefined, string(f.Band), f.Rank, f.Total, f.Percentile, f.YoYPct, f.YoYDefined)
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         f.ZIPCode,
			Geometry:   f.Geometry,
			Properties: props,
		})
	}
	return fc
}

// addMetricProps writes the shared metric properties, omitting the ones the
// row does not define so "no data" renders distinctly on the map.
func addMetricProps(props map[string]interface{}, pti float64, ptiDefined bool, band string, rank, total int, percentile, yoy float64, yoyDefined bool) {
	if !ptiDefined {
		return
	}
	props["pti"] = pti
	props["band"] = band
	if total > 0 {
		props["rank"] = rank
		props["rank_total"] = total
		props["percentile"] = percentile
	}
	if yoyDefined {
		props["yoy_pct"] = yoy
	}
}
