// Package loader reads the housing time series and the CBSA/ZCTA boundary
// shapefiles into memory. Everything is loaded once per process and held
// resident; nothing here mutates after Load returns.
package loader

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hearthdata/affordability-cli/internal/db"
	"github.com/hearthdata/affordability-cli/internal/model"
)

// Source selects where the tabular dataset is read from.
type Source string

const (
	SourceLocal     Source = "local"     // CSV file
	SourceXLSX      Source = "xlsx"      // XLSX workbook, first sheet
	SourceSQLite    Source = "sqlite"    // static SQLite file, read-only
	SourceWarehouse Source = "warehouse" // remote Postgres-protocol warehouse
)

// Config specifies input locations for a load.
type Config struct {
	Source         Source
	HouseFile      string // csv/xlsx/sqlite path depending on Source
	SQLiteTable    string
	WarehousePool  db.Pool // required when Source is SourceWarehouse
	WarehouseTable string
	CBSAShapefile  string
	CBSAArchive    string
	ZCTAShapefile  string
	ZCTAArchive    string
	OverridesFile  string // optional metro-name override YAML
	TempDir        string // scratch space for archive extraction
}

// Dataset is everything the metric engine and geo matcher consume.
type Dataset struct {
	Observations []model.Observation
	Metros       []model.MetroPolygon
	ZIPs         []model.ZipPolygon
	Overrides    map[string]string
}

// Load reads all inputs per cfg. The tabular dataset and both polygon
// archives are required; a missing or unparsable one yields a
// DataUnavailableError for the caller to report.
func Load(ctx context.Context, cfg Config) (*Dataset, error) {
	log := zap.L().With(zap.String("component", "loader"))

	obs, err := loadObservations(ctx, cfg)
	if err != nil {
		return nil, err
	}

	metros, err := LoadCBSA(cfg.CBSAShapefile, cfg.CBSAArchive, cfg.TempDir)
	if err != nil {
		return nil, err
	}

	zips, err := LoadZCTA(cfg.ZCTAShapefile, cfg.ZCTAArchive, cfg.TempDir)
	if err != nil {
		return nil, err
	}

	overrides, err := LoadOverrides(cfg.OverridesFile)
	if err != nil {
		return nil, err
	}

	log.Info("dataset loaded",
		zap.String("source", string(cfg.Source)),
		zap.Int("observations", len(obs)),
		zap.Int("metro_polygons", len(metros)),
		zap.Int("zip_polygons", len(zips)),
	)

	return &Dataset{
		Observations: obs,
		Metros:       metros,
		ZIPs:         zips,
		Overrides:    overrides,
	}, nil
}

func loadObservations(ctx context.Context, cfg Config) ([]model.Observation, error) {
	switch cfg.Source {
	case SourceLocal, "":
		return loadCSV(ctx, cfg.HouseFile)
	case SourceXLSX:
		return loadXLSX(cfg.HouseFile)
	case SourceSQLite:
		return loadSQLite(ctx, cfg.HouseFile, cfg.SQLiteTable)
	case SourceWarehouse:
		return loadWarehouse(ctx, cfg.WarehousePool, cfg.WarehouseTable)
	default:
		return nil, eris.Errorf("loader: unknown source %q", cfg.Source)
	}
}
