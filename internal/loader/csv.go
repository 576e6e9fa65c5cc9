package loader

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/hearthdata/affordability-cli/internal/model"
)

// loadCSV reads the housing time series from a local CSV file. The header
// row maps columns by name, so column order does not matter.
func loadCSV(ctx context.Context, path string) ([]model.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataUnavailableError{Path: path, Err: err}
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err != nil {
		return nil, &DataUnavailableError{Path: path, Err: eris.Wrap(err, "read csv header")}
	}
	colIdx := mapColumns(header)
	if err := checkRequiredColumns(colIdx); err != nil {
		return nil, &DataUnavailableError{Path: path, Err: err}
	}

	var obs []model.Observation
	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "loader: csv read cancelled")
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataUnavailableError{Path: path, Err: eris.Wrap(err, "read csv row")}
		}
		obs = append(obs, observationFromRecord(record, colIdx))
	}
	return obs, nil
}

func checkRequiredColumns(colIdx map[string]int) error {
	for _, c := range houseColumns {
		if _, ok := colIdx[c]; !ok {
			return eris.Errorf("missing required column %q", c)
		}
	}
	return nil
}
