package loader

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/hearthdata/affordability-cli/internal/model"
)

// loadSQLite reads the housing time series from a table of a static SQLite
// file, opened read-only. Fields scan as nullable strings so malformed or
// NULL numeric cells degrade to undefined values instead of failing the load.
func loadSQLite(ctx context.Context, path, table string) ([]model.Observation, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &DataUnavailableError{Path: path, Err: err}
	}

	sqldb, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, &DataUnavailableError{Path: path, Err: eris.Wrap(err, "open sqlite")}
	}
	defer sqldb.Close() //nolint:errcheck

	query := fmt.Sprintf(
		`SELECT %s FROM %q`,
		strings.Join(houseColumns, ", "),
		table,
	)
	rows, err := sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, &DataUnavailableError{Path: path, Err: eris.Wrapf(err, "query table %q", table)}
	}
	defer rows.Close() //nolint:errcheck

	var obs []model.Observation
	for rows.Next() {
		fields := make([]sql.NullString, len(houseColumns))
		dest := make([]any, len(fields))
		for i := range fields {
			dest[i] = &fields[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, eris.Wrap(err, "loader: scan sqlite row")
		}

		record := make([]string, len(fields))
		for i, f := range fields {
			record[i] = f.String
		}
		obs = append(obs, observationFromRecord(record, houseColIdx))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "loader: iterate sqlite rows")
	}
	return obs, nil
}
