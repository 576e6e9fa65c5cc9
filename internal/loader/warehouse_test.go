package loader

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func warehouseRows() *pgxmock.Rows {
	price := 600000.0
	income := 60000.0
	lat := 47.61
	lon := -122.33
	return pgxmock.NewRows([]string{
		"city", "city_full", "zip_code", "year",
		"median_sale_price", "per_capita_income", "lat", "lon",
	}).
		AddRow("Seattle", "Seattle, WA", "98101", 2021, &price, &income, &lat, &lon).
		AddRow("Omaha", "Omaha, NE", "6011", 2020, (*float64)(nil), &income, &lat, &lon)
}

func TestLoadWarehouse(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(warehouseRows())

	obs, err := loadWarehouse(context.Background(), mock, "house_ts")
	require.NoError(t, err)
	require.Len(t, obs, 2)

	assert.Equal(t, "Seattle, WA", obs[0].CityFull)
	assert.Equal(t, "98101", obs[0].ZIPCode)
	assert.True(t, obs[0].PriceDefined)
	assert.InDelta(t, 600000, obs[0].MedianSalePrice, 1e-9)

	assert.Equal(t, "06011", obs[1].ZIPCode, "warehouse ZIPs get zero-padded too")
	assert.False(t, obs[1].PriceDefined, "NULL price stays undefined")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadWarehouse_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	_, err = loadWarehouse(context.Background(), mock, "house_ts")
	require.Error(t, err)
	assert.True(t, IsDataUnavailable(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadWarehouse_NilPool(t *testing.T) {
	_, err := loadWarehouse(context.Background(), nil, "house_ts")
	require.Error(t, err)
	assert.True(t, IsDataUnavailable(err))
}

func TestDialWarehouse_EmptyDSN(t *testing.T) {
	_, err := DialWarehouse(context.Background(), "")
	require.Error(t, err)
	assert.True(t, IsDataUnavailable(err))
}

func TestSanitizeTable(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"house_ts", `"house_ts"`},
		{"data511.house_ts", `"data511"."house_ts"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeTable(tt.input))
		})
	}
}
