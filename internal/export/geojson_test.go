package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/hearthdata/affordability-cli/internal/geomatch"
	"github.com/hearthdata/affordability-cli/internal/metrics"
)

func unitSquare(t *testing.T) *geom.MultiPolygon {
	t.Helper()
	mp := geom.NewMultiPolygon(geom.XY)
	mp.SetSRID(4326)
	poly := geom.NewPolygon(geom.XY)
	ring := geom.NewLinearRingFlat(geom.XY, []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0})
	require.NoError(t, poly.Push(ring))
	require.NoError(t, mp.Push(poly))
	return mp
}

func metroFeature(t *testing.T, cityFull string, year int, pti float64, withGeom bool) geomatch.MetroFeature {
	t.Helper()
	f := geomatch.MetroFeature{
		MetroYear: metrics.MetroYear{
			CityFull:   cityFull,
			CityKey:    cityFull,
			Year:       year,
			PTI:        pti,
			PTIDefined: true,
			Band:       metrics.Classify(pti),
			Ranking:    metrics.Ranking{Rank: 1, Total: 2, Percentile: 0.5},
		},
		CBSACode:  "42660",
		MetroName: cityFull,
	}
	if withGeom {
		f.Geometry = unitSquare(t)
	}
	return f
}

func TestMetroFeatureCollection(t *testing.T) {
	features := []geomatch.MetroFeature{
		metroFeature(t, "seattle, wa", 2021, 8.2, true),
		metroFeature(t, "austin, tx", 2021, 4.1, false), // no boundary
		metroFeature(t, "seattle, wa", 2020, 7.5, true), // other year
	}

	fc := MetroFeatureCollection(features, 2021)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "seattle, wa", f.ID)
	assert.Equal(t, 8.2, f.Properties["pti"])
	assert.Equal(t, "Severely Unaffordable", f.Properties["band"])
	assert.Equal(t, 1, f.Properties["rank"])
	assert.Equal(t, 2, f.Properties["rank_total"])
	assert.Equal(t, 0.5, f.Properties["percentile"])
	assert.NotContains(t, f.Properties, "yoy_pct")
}

func TestMetroFeatureCollection_UndefinedPTIOmitsMetrics(t *testing.T) {
	f := metroFeature(t, "seattle, wa", 2021, 0, true)
	f.PTIDefined = false
	f.Band = ""
	f.Ranking = metrics.Ranking{}

	fc := MetroFeatureCollection([]geomatch.MetroFeature{f}, 2021)
	require.Len(t, fc.Features, 1)

	props := fc.Features[0].Properties
	assert.NotContains(t, props, "pti")
	assert.NotContains(t, props, "band")
	assert.NotContains(t, props, "rank")
	assert.Equal(t, "seattle, wa", props["city_full"])
}

func TestMetroFeatureCollection_MarshalsAsGeoJSON(t *testing.T) {
	fc := MetroFeatureCollection([]geomatch.MetroFeature{
		metroFeature(t, "seattle, wa", 2021, 8.2, true),
	}, 2021)

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])
	features, ok := doc["features"].([]interface{})
	require.True(t, ok)
	require.Len(t, features, 1)
}

func TestZipFeatureCollection(t *testing.T) {
	features := []geomatch.ZipFeature{
		{
			ZipYear: metrics.ZipYear{
				ZIPCode:    "98101",
				CityFull:   "Seattle, WA",
				Year:       2021,
				PTI:        6.0,
				PTIDefined: true,
				Band:       metrics.Classify(6.0),
				YoYPct:     3.5,
				YoYDefined: true,
			},
			Geometry: unitSquare(t),
		},
		{
			ZipYear: metrics.ZipYear{ZIPCode: "98102", Year: 2021, PTIDefined: true},
		},
	}

	fc := ZipFeatureCollection(features, 2021)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "98101", f.ID)
	assert.Equal(t, "98101", f.Properties["zip_code"])
	assert.Equal(t, 3.5, f.Properties["yoy_pct"])
}
