package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearOverYear_Example(t *testing.T) {
	series := map[int]float64{2019: 4.0, 2020: 5.0, 2021: 4.5}
	changes := YearOverYear(series)
	require.Len(t, changes, 3)

	assert.Equal(t, 2019, changes[0].Year)
	assert.False(t, changes[0].Defined, "first observed year has no prior")

	assert.Equal(t, 2020, changes[1].Year)
	require.True(t, changes[1].Defined)
	assert.InDelta(t, 25.0, changes[1].Pct, 1e-9)

	assert.Equal(t, 2021, changes[2].Year)
	require.True(t, changes[2].Defined)
	assert.InDelta(t, -10.0, changes[2].Pct, 1e-9)
}

func TestYearOverYear_GapYearUndefined(t *testing.T) {
	series := map[int]float64{2018: 3.0, 2020: 4.0, 2021: 5.0}
	changes := YearOverYear(series)
	require.Len(t, changes, 3)

	assert.False(t, changes[0].Defined)
	assert.False(t, changes[1].Defined, "2019 missing, so 2020 has no prior year")
	assert.True(t, changes[2].Defined)
}

func TestYearOverYear_ZeroPrevUndefined(t *testing.T) {
	series := map[int]float64{2019: 0.0, 2020: 5.0}
	changes := YearOverYear(series)
	require.Len(t, changes, 2)
	assert.False(t, changes[1].Defined)
}

func TestCovidDelta(t *testing.T) {
	delta, ok := CovidDelta(map[int]float64{2019: 4.0, 2020: 5.0, 2021: 4.5})
	require.True(t, ok)
	assert.InDelta(t, 12.5, delta, 1e-9)
}

func TestCovidDelta_MissingAnchor(t *testing.T) {
	tests := []struct {
		name   string
		series map[int]float64
	}{
		{"missing 2019", map[int]float64{2020: 5.0, 2021: 4.5}},
		{"missing 2021", map[int]float64{2019: 4.0, 2020: 5.0}},
		{"zero base", map[int]float64{2019: 0.0, 2021: 4.5}},
		{"empty", map[int]float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := CovidDelta(tt.series)
			assert.False(t, ok)
		})
	}
}
