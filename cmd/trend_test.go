package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTrend_Empty(t *testing.T) {
	err := printTrend("Seattle, WA", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data")
}

func TestPrintTrend_Series(t *testing.T) {
	series := map[int]float64{
		2019: 4.0,
		2020: 4.4,
		2021: 4.5,
	}
	require.NoError(t, printTrend("Seattle, WA", series))
}
