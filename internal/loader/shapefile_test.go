package loader

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// padField right-pads a dbf string value with spaces to the field width.
// go-shp's writer zero-fills records, but dBASE values are space-padded and
// the reader only trims spaces.
func padField(value string, width int) string {
	return value + strings.Repeat(" ", width-len(value))
}

func squarePolygon(x, y float64) *shp.Polygon {
	return &shp.Polygon{
		NumParts:  1,
		NumPoints: 5,
		Parts:     []int32{0},
		Points: []shp.Point{
			{X: x, Y: y},
			{X: x, Y: y + 1},
			{X: x + 1, Y: y + 1},
			{X: x + 1, Y: y},
			{X: x, Y: y},
		},
	}
}

func writeTestCBSA(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "cbsa.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	w.SetFields([]shp.Field{
		shp.StringField("CBSAFP", 5),
		shp.StringField("NAME", 100),
		shp.StringField("LSAD", 2),
	})

	records := []struct {
		code, name, lsad string
		poly             *shp.Polygon
	}{
		{"42660", "Seattle-Tacoma-Bellevue, WA", "M1", squarePolygon(-122.5, 47.0)},
		{"14460", "Boston-Cambridge-Newton, MA-NH", "M1", squarePolygon(-71.5, 42.0)},
	}
	for n, rec := range records {
		w.Write(rec.poly)
		w.WriteAttribute(n, 0, padField(rec.code, 5))
		w.WriteAttribute(n, 1, padField(rec.name, 100))
		w.WriteAttribute(n, 2, padField(rec.lsad, 2))
	}
	w.Close()

	return path
}

func writeTestZCTA(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "zcta.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	w.SetFields([]shp.Field{
		shp.StringField("ZCTA5CE10", 5),
	})

	zips := []string{"98101", "6011"}
	for n, code := range zips {
		w.Write(squarePolygon(float64(-122+n), 47))
		w.WriteAttribute(n, 0, padField(code, 5))
	}
	w.Close()

	return path
}

func TestLoadCBSA(t *testing.T) {
	path := writeTestCBSA(t, t.TempDir())

	metros, err := LoadCBSA(path, "", t.TempDir())
	require.NoError(t, err)
	require.Len(t, metros, 2)

	assert.Equal(t, "42660", metros[0].CBSACode)
	assert.Equal(t, "Seattle-Tacoma-Bellevue, WA", metros[0].Name)
	assert.Equal(t, "seattle-tacoma-bellevue, wa", metros[0].NameKey)
	assert.Equal(t, "M1", metros[0].LSAD)
	require.NotNil(t, metros[0].Geometry)
	assert.Equal(t, 1, metros[0].Geometry.NumPolygons())
}

func TestLoadZCTA(t *testing.T) {
	path := writeTestZCTA(t, t.TempDir())

	zips, err := LoadZCTA(path, "", t.TempDir())
	require.NoError(t, err)
	require.Len(t, zips, 2)

	assert.Equal(t, "98101", zips[0].ZIPCode)
	assert.Equal(t, "06011", zips[1].ZIPCode, "ZCTA keys get zero-padded")
	assert.NotNil(t, zips[0].Geometry)
}

func TestLoadCBSA_MissingBothPaths(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadCBSA(filepath.Join(dir, "no.shp"), filepath.Join(dir, "no.zip"), dir)
	require.Error(t, err)
	assert.True(t, IsDataUnavailable(err))
}

func TestResolveShapefile_PrefersShp(t *testing.T) {
	dir := t.TempDir()
	path := writeTestCBSA(t, dir)

	resolved, err := ResolveShapefile(path, filepath.Join(dir, "absent.zip"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
}

func TestResolveShapefile_FallsBackToZip(t *testing.T) {
	srcDir := t.TempDir()
	writeTestCBSA(t, srcDir)

	zipPath := filepath.Join(t.TempDir(), "cbsa_shapes.zip")
	zipDir(t, srcDir, zipPath)

	tempDir := t.TempDir()
	resolved, err := ResolveShapefile(filepath.Join(srcDir, "absent.shp"), zipPath, tempDir)
	require.NoError(t, err)
	assert.Equal(t, ".shp", filepath.Ext(resolved))

	metros, err := LoadCBSA("", zipPath, t.TempDir())
	require.NoError(t, err)
	assert.Len(t, metros, 2)
}

func zipDir(t *testing.T, srcDir, zipPath string) {
	t.Helper()

	out, err := os.Create(zipPath)
	require.NoError(t, err)
	defer out.Close()

	zw := zip.NewWriter(out)
	entries, err := os.ReadDir(srcDir)
	require.NoError(t, err)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		src, err := os.Open(filepath.Join(srcDir, e.Name()))
		require.NoError(t, err)
		dst, err := zw.Create(e.Name())
		require.NoError(t, err)
		_, err = io.Copy(dst, src)
		require.NoError(t, err)
		require.NoError(t, src.Close())
	}
	require.NoError(t, zw.Close())
}
