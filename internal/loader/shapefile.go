package loader

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/hearthdata/affordability-cli/internal/model"
)

// ZCTA key field names across TIGER vintages.
var zctaKeyFields = []string{"ZCTA5CE10", "ZCTA5CE20"}

// ResolveShapefile returns a readable .shp path. The bare shapefile wins
// when present; otherwise the .zip bundle is extracted under tempDir. A
// DataUnavailableError is returned when neither exists.
func ResolveShapefile(shpPath, zipPath, tempDir string) (string, error) {
	if shpPath != "" {
		if _, err := os.Stat(shpPath); err == nil {
			return shpPath, nil
		}
	}
	if zipPath != "" {
		if _, err := os.Stat(zipPath); err == nil {
			dest := filepath.Join(tempDir, strings.TrimSuffix(filepath.Base(zipPath), ".zip"))
			if err := extractZIP(zipPath, dest); err != nil {
				return "", &DataUnavailableError{Path: zipPath, Err: err}
			}
			return findFileByExt(dest, ".shp")
		}
	}
	return "", &DataUnavailableError{
		Path: shpPath,
		Err:  eris.Errorf("shapefile not found at %q or %q", shpPath, zipPath),
	}
}

// LoadCBSA reads metro (CBSA) boundary polygons. The NAME field is the
// join key; CBSAFP and LSAD ride along when present.
func LoadCBSA(shpPath, zipPath, tempDir string) ([]model.MetroPolygon, error) {
	path, err := ResolveShapefile(shpPath, zipPath, tempDir)
	if err != nil {
		return nil, err
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, &DataUnavailableError{Path: path, Err: eris.Wrap(err, "open shapefile")}
	}
	defer func() { _ = reader.Close() }()

	nameIdx := fieldIndex(reader, "NAME")
	if nameIdx < 0 {
		return nil, &DataUnavailableError{Path: path, Err: eris.New("shapefile missing NAME field")}
	}
	cbsaIdx := fieldIndex(reader, "CBSAFP")
	lsadIdx := fieldIndex(reader, "LSAD")

	var metros []model.MetroPolygon
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		name := strings.TrimSpace(reader.Attribute(nameIdx))
		if name == "" {
			continue
		}

		m := model.MetroPolygon{
			Name:    name,
			NameKey: model.NormalizeCityKey(name),
		}
		if cbsaIdx >= 0 {
			m.CBSACode = strings.TrimSpace(reader.Attribute(cbsaIdx))
		}
		if lsadIdx >= 0 {
			m.LSAD = strings.TrimSpace(reader.Attribute(lsadIdx))
		}

		m.Geometry = multiPolygon(shape)
		if m.Geometry == nil {
			skipped++
			continue
		}
		metros = append(metros, m)
	}

	logShapefileLoad("cbsa", path, len(metros), skipped)
	return metros, nil
}

// LoadZCTA reads ZIP (ZCTA) boundary polygons, keyed by zero-padded ZIP.
func LoadZCTA(shpPath, zipPath, tempDir string) ([]model.ZipPolygon, error) {
	path, err := ResolveShapefile(shpPath, zipPath, tempDir)
	if err != nil {
		return nil, err
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, &DataUnavailableError{Path: path, Err: eris.Wrap(err, "open shapefile")}
	}
	defer func() { _ = reader.Close() }()

	keyIdx := -1
	for _, field := range zctaKeyFields {
		if keyIdx = fieldIndex(reader, field); keyIdx >= 0 {
			break
		}
	}
	if keyIdx < 0 {
		return nil, &DataUnavailableError{
			Path: path,
			Err:  eris.Errorf("shapefile missing ZCTA key field (tried %s)", strings.Join(zctaKeyFields, ", ")),
		}
	}

	var zips []model.ZipPolygon
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		code := model.PadZIP(reader.Attribute(keyIdx))
		if code == "" {
			continue
		}

		g := multiPolygon(shape)
		if g == nil {
			skipped++
			continue
		}
		zips = append(zips, model.ZipPolygon{ZIPCode: code, Geometry: g})
	}

	logShapefileLoad("zcta", path, len(zips), skipped)
	return zips, nil
}

func logShapefileLoad(kind, path string, loaded, skipped int) {
	zap.L().Info("shapefile loaded",
		zap.String("component", "loader"),
		zap.String("kind", kind),
		zap.String("path", path),
		zap.Int("polygons", loaded),
		zap.Int("skipped", skipped),
	)
}

// extractZIP extracts a ZIP archive to the destination directory, flattening
// entry paths to their base names.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return eris.Wrap(err, "create extract dir")
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		destPath := filepath.Join(destDir, filepath.Base(f.Name))

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "open zip entry %s", f.Name)
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return eris.Wrapf(err, "create %s", destPath)
		}

		if _, err := io.Copy(outFile, rc); err != nil {
			_ = outFile.Close()
			_ = rc.Close()
			return eris.Wrapf(err, "extract %s", f.Name)
		}
		_ = outFile.Close()
		_ = rc.Close()
	}

	return nil
}

// findFileByExt finds the first file with the given extension in a directory.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", &DataUnavailableError{Path: dir, Err: eris.Wrap(err, "read directory")}
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", &DataUnavailableError{Path: dir, Err: eris.Errorf("no %s file found", ext)}
}

// fieldIndex returns the index of a named field in the shapefile, or -1.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// multiPolygon converts a shapefile Polygon to a geom.MultiPolygon in
// EPSG 4326. Returns nil for nil, non-polygon, or degenerate shapes.
func multiPolygon(s shp.Shape) *geom.MultiPolygon {
	p, ok := s.(*shp.Polygon)
	if !ok || p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("loader: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("loader: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
