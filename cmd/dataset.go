package main

import (
	"context"

	"github.com/hearthdata/affordability-cli/internal/loader"
)

// buildDataset validates config and loads all inputs. The returned cleanup
// closes the warehouse pool when one was dialed; call it even on error paths
// after a non-nil return.
func buildDataset(ctx context.Context) (*loader.Dataset, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	lcfg := loader.Config{
		Source:         loader.Source(cfg.Data.Source),
		HouseFile:      cfg.Data.HouseFile,
		SQLiteTable:    cfg.Data.SQLiteTable,
		WarehouseTable: cfg.Warehouse.Table,
		CBSAShapefile:  cfg.Data.CBSAShapefile,
		CBSAArchive:    cfg.Data.CBSAArchive,
		ZCTAShapefile:  cfg.Data.ZCTAShapefile,
		ZCTAArchive:    cfg.Data.ZCTAArchive,
		OverridesFile:  cfg.Data.OverridesFile,
		TempDir:        cfg.Data.TempDir,
	}

	cleanup := func() {}
	if lcfg.Source == loader.SourceWarehouse {
		pool, err := loader.DialWarehouse(ctx, cfg.Warehouse.DSN)
		if err != nil {
			return nil, nil, err
		}
		lcfg.WarehousePool = pool
		cleanup = pool.Close
	}

	ds, err := loader.Load(ctx, lcfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return ds, cleanup, nil
}
