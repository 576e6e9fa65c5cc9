package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hearthdata/affordability-cli/internal/geomatch"
	"github.com/hearthdata/affordability-cli/internal/metrics"
)

func TestWriter_Tables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir)

	metroRows := []metrics.MetroYear{
		{CityFull: "Seattle, WA", CityKey: "seattle, wa", Year: 2021, PTI: 8.2, PTIDefined: true, Band: metrics.BandSevere},
	}
	zipRows := []metrics.ZipYear{
		{ZIPCode: "98101", CityKey: "seattle, wa", Year: 2021, PTI: 6.0, PTIDefined: true},
	}

	require.NoError(t, w.WriteMetroTable(metroRows))
	require.NoError(t, w.WriteZipTable(zipRows))

	data, err := os.ReadFile(filepath.Join(dir, "metro_year.json"))
	require.NoError(t, err)
	var decoded []metrics.MetroYear
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "seattle, wa", decoded[0].CityKey)
	assert.Equal(t, metrics.BandSevere, decoded[0].Band)

	_, err = os.Stat(filepath.Join(dir, "zip_year.json"))
	require.NoError(t, err)
}

func TestWriter_Layers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir)

	features := []geomatch.MetroFeature{metroFeature(t, "seattle, wa", 2021, 8.2, true)}
	require.NoError(t, w.WriteMetroLayer(features, 2021))

	data, err := os.ReadFile(filepath.Join(dir, "metros_2021.geojson"))
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])
}

func TestWriter_Manifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir)

	require.NoError(t, w.WriteMetroTable(nil))
	require.NoError(t, w.WriteZipTable(nil))
	require.NoError(t, w.WriteManifest("local", 120, 10, 40))

	data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)

	var m Manifest
	require.NoError(t, yaml.Unmarshal(data, &m))

	_, err = uuid.Parse(m.ID)
	require.NoError(t, err)
	assert.False(t, m.GeneratedAt.IsZero())
	assert.Equal(t, "local", m.Source)
	assert.Equal(t, 120, m.Observations)
	assert.Equal(t, 10, m.MetroRows)
	assert.Equal(t, 40, m.ZipRows)
	// The manifest lists what was written before it, not itself.
	assert.Equal(t, []string{"metro_year.json", "zip_year.json"}, m.Files)
}
