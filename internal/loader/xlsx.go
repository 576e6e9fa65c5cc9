package loader

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/hearthdata/affordability-cli/internal/model"
)

// loadXLSX reads the housing time series from the first sheet of an XLSX
// workbook. Row 0 is the header; columns map by name like the CSV source.
func loadXLSX(path string) ([]model.Observation, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, &DataUnavailableError{Path: path, Err: eris.Wrap(err, "open xlsx")}
	}
	if len(f.Sheets) == 0 {
		return nil, &DataUnavailableError{Path: path, Err: eris.New("xlsx has no sheets")}
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, &DataUnavailableError{Path: path, Err: eris.New("xlsx sheet is empty")}
	}

	colIdx := mapColumns(rowToStrings(sheet.Rows[0]))
	if err := checkRequiredColumns(colIdx); err != nil {
		return nil, &DataUnavailableError{Path: path, Err: err}
	}

	obs := make([]model.Observation, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		obs = append(obs, observationFromRecord(rowToStrings(row), colIdx))
	}
	return obs, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
