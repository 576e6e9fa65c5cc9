package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/hearthdata/affordability-cli/internal/db"
	"github.com/hearthdata/affordability-cli/internal/model"
)

// DialWarehouse opens a connection pool to the remote warehouse. The DSN
// normally arrives via the AFFORD_WAREHOUSE_DSN environment variable.
func DialWarehouse(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, &DataUnavailableError{
			Path: "warehouse",
			Err:  eris.New("warehouse DSN not configured"),
		}
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "loader: connect warehouse")
	}
	return pool, nil
}

// loadWarehouse reads the housing time series from the warehouse,
// aggregating to city/zip/year in SQL the same way the local files are
// pre-aggregated.
func loadWarehouse(ctx context.Context, pool db.Pool, table string) ([]model.Observation, error) {
	if pool == nil {
		return nil, &DataUnavailableError{
			Path: "warehouse",
			Err:  eris.New("warehouse pool not configured"),
		}
	}

	query := fmt.Sprintf(`
		SELECT
			city,
			city_full,
			zip_code::text AS zip_code,
			year,
			AVG(median_sale_price) AS median_sale_price,
			AVG(per_capita_income) AS per_capita_income,
			AVG(lat) AS lat,
			AVG(lon) AS lon
		FROM %s
		WHERE median_sale_price IS NOT NULL
		  AND median_sale_price > 0
		GROUP BY city, city_full, zip_code, year`,
		sanitizeTable(table))

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, &DataUnavailableError{Path: table, Err: eris.Wrap(err, "warehouse query")}
	}
	defer rows.Close()

	var obs []model.Observation
	for rows.Next() {
		var (
			o                       model.Observation
			zip                     string
			price, income, lat, lon *float64
		)
		if err := rows.Scan(&o.City, &o.CityFull, &zip, &o.Year, &price, &income, &lat, &lon); err != nil {
			return nil, eris.Wrap(err, "loader: scan warehouse row")
		}
		o.ZIPCode = model.PadZIP(zip)
		if price != nil {
			o.MedianSalePrice, o.PriceDefined = *price, true
		}
		if income != nil {
			o.PerCapitaIncome, o.IncomeDefined = *income, true
		}
		if lat != nil {
			o.Lat = *lat
		}
		if lon != nil {
			o.Lon = *lon
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "loader: iterate warehouse rows")
	}
	return obs, nil
}

// sanitizeTable handles schema-qualified table names like "data511.house_ts".
func sanitizeTable(table string) string {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}
