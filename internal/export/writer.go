package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hearthdata/affordability-cli/internal/geomatch"
	"github.com/hearthdata/affordability-cli/internal/metrics"
)

// Manifest records one export run so consumers can tell which files belong
// together and where the data came from.
type Manifest struct {
	ID           string    `yaml:"id"`
	GeneratedAt  time.Time `yaml:"generated_at"`
	Source       string    `yaml:"source"`
	Observations int       `yaml:"observations"`
	MetroRows    int       `yaml:"metro_rows"`
	ZipRows      int       `yaml:"zip_rows"`
	Files        []string  `yaml:"files"`
}

// Writer emits export artifacts under Dir, creating it on first write.
type Writer struct {
	Dir string

	files []string
}

// NewWriter returns a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// WriteMetroTable writes the full metro/year table as metro_year.json.
func (w *Writer) WriteMetroTable(rows []metrics.MetroYear) error {
	return w.writeJSON("metro_year.json", rows)
}

// WriteZipTable writes the full ZIP/year table as zip_year.json.
func (w *Writer) WriteZipTable(rows []metrics.ZipYear) error {
	return w.writeJSON("zip_year.json", rows)
}

// WriteMetroLayer writes the metro choropleth GeoJSON for one year.
func (w *Writer) WriteMetroLayer(features []geomatch.MetroFeature, year int) error {
	return w.writeJSON(fmt.Sprintf("metros_%d.geojson", year), MetroFeatureCollection(features, year))
}

// WriteZipLayer writes the ZIP drill-down GeoJSON for one year.
func (w *Writer) WriteZipLayer(features []geomatch.ZipFeature, year int) error {
	return w.writeJSON(fmt.Sprintf("zips_%d.geojson", year), ZipFeatureCollection(features, year))
}

// WriteManifest writes manifest.yaml listing everything this Writer emitted.
// Call it last.
func (w *Writer) WriteManifest(source string, observations, metroRows, zipRows int) error {
	m := Manifest{
		ID:           uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		Source:       source,
		Observations: observations,
		MetroRows:    metroRows,
		ZipRows:      zipRows,
		Files:        append([]string(nil), w.files...),
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return eris.Wrap(err, "export: marshal manifest")
	}
	if err := w.writeFile("manifest.yaml", data); err != nil {
		return err
	}
	zap.L().Info("export complete",
		zap.String("component", "export"),
		zap.String("dir", w.Dir),
		zap.String("manifest_id", m.ID),
		zap.Int("files", len(m.Files)),
	)
	return nil
}

func (w *Writer) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "export: marshal %s", name)
	}
	return w.writeFile(name, data)
}

func (w *Writer) writeFile(name string, data []byte) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create dir %s", w.Dir)
	}
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", name)
	}
	w.files = append(w.files, name)
	return nil
}
