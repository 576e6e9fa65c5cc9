// Package geomatch joins aggregated affordability rows onto CBSA and ZCTA
// boundary polygons. Joins are exact-key only: metro rows match on the
// normalized CBSA name, ZIP rows on the zero-padded five-digit code. Rows
// without a boundary are kept with nil geometry so tables stay complete even
// when the map layer is sparse.
package geomatch

import (
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/hearthdata/affordability-cli/internal/metrics"
	"github.com/hearthdata/affordability-cli/internal/model"
)

// MetroFeature is a metro/year row with its CBSA boundary attached. Geometry
// is nil when no polygon matched the metro's key.
type MetroFeature struct {
	metrics.MetroYear
	CBSACode  string             `json:"cbsa_code,omitempty"`
	MetroName string             `json:"metro_name,omitempty"`
	Geometry  *geom.MultiPolygon `json:"-"`
}

// ZipFeature is a ZIP/year row with its ZCTA boundary attached.
type ZipFeature struct {
	metrics.ZipYear
	Geometry *geom.MultiPolygon `json:"-"`
}

// Matcher resolves dataset keys to boundary polygons. Build one with
// NewMatcher after loading; it is read-only afterwards.
type Matcher struct {
	metrosByKey map[string]*model.MetroPolygon
	zipsByCode  map[string]*model.ZipPolygon
	overrides   map[string]string
}

// NewMatcher indexes the loaded polygons for exact-key lookup. overrides maps
// normalized dataset metro keys to CBSA names for metros whose dataset
// shorthand differs from Census naming. When two polygons share a key the
// first one wins.
func NewMatcher(metros []model.MetroPolygon, zips []model.ZipPolygon, overrides map[string]string) *Matcher {
	m := &Matcher{
		metrosByKey: make(map[string]*model.MetroPolygon, len(metros)),
		zipsByCode:  make(map[string]*model.ZipPolygon, len(zips)),
		overrides:   overrides,
	}
	for i := range metros {
		p := &metros[i]
		if _, ok := m.metrosByKey[p.NameKey]; !ok {
			m.metrosByKey[p.NameKey] = p
		}
	}
	for i := range zips {
		p := &zips[i]
		if _, ok := m.zipsByCode[p.ZIPCode]; !ok {
			m.zipsByCode[p.ZIPCode] = p
		}
	}
	return m
}

// Metro returns the CBSA polygon for a normalized metro key, applying the
// override map first. The second return is false when no polygon matches.
func (m *Matcher) Metro(key string) (*model.MetroPolygon, bool) {
	key = model.NormalizeCityKey(key)
	if name, ok := m.overrides[key]; ok {
		key = model.NormalizeCityKey(name)
	}
	p, ok := m.metrosByKey[key]
	return p, ok
}

// ZIP returns the ZCTA polygon for a ZIP code, zero-padding short codes.
func (m *Matcher) ZIP(zip string) (*model.ZipPolygon, bool) {
	p, ok := m.zipsByCode[model.PadZIP(zip)]
	return p, ok
}

// MatchMetros attaches CBSA boundaries to metro rows. Every input row is
// returned in order; unmatched rows carry nil geometry.
func (m *Matcher) MatchMetros(rows []metrics.MetroYear) []MetroFeature {
	out := make([]MetroFeature, 0, len(rows))
	unmatched := 0
	for _, r := range rows {
		f := MetroFeature{MetroYear: r}
		if p, ok := m.Metro(r.CityKey); ok {
			f.CBSACode = p.CBSACode
			f.MetroName = p.Name
			f.Geometry = p.Geometry
		} else {
			unmatched++
		}
		out = append(out, f)
	}
	if unmatched > 0 {
		zap.L().Debug("metros without boundary",
			zap.String("component", "geomatch"),
			zap.Int("unmatched", unmatched),
			zap.Int("total", len(rows)),
		)
	}
	return out
}

// MatchZIPs attaches ZCTA boundaries to ZIP rows. Every input row is
// returned in order; unmatched rows carry nil geometry.
func (m *Matcher) MatchZIPs(rows []metrics.ZipYear) []ZipFeature {
	out := make([]ZipFeature, 0, len(rows))
	unmatched := 0
	for _, r := range rows {
		f := ZipFeature{ZipYear: r}
		if p, ok := m.ZIP(r.ZIPCode); ok {
			f.Geometry = p.Geometry
		} else {
			unmatched++
		}
		out = append(out, f)
	}
	if unmatched > 0 {
		zap.L().Debug("zips without boundary",
			zap.String("component", "geomatch"),
			zap.Int("unmatched", unmatched),
			zap.Int("total", len(rows)),
		)
	}
	return out
}

// ZIPsForMetro returns the matched ZIP features belonging to one metro, for
// the drill-down view.
func (m *Matcher) ZIPsForMetro(rows []metrics.ZipYear, cityKey string) []ZipFeature {
	cityKey = model.NormalizeCityKey(cityKey)
	subset := make([]metrics.ZipYear, 0)
	for _, r := range rows {
		if r.CityKey == cityKey {
			subset = append(subset, r)
		}
	}
	return m.MatchZIPs(subset)
}
