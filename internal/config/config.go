package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Warehouse WarehouseConfig `yaml:"warehouse" mapstructure:"warehouse"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DataConfig configures the dataset and boundary inputs.
type DataConfig struct {
	Source        string `yaml:"source" mapstructure:"source"`
	HouseFile     string `yaml:"house_file" mapstructure:"house_file"`
	SQLiteTable   string `yaml:"sqlite_table" mapstructure:"sqlite_table"`
	CBSAShapefile string `yaml:"cbsa_shapefile" mapstructure:"cbsa_shapefile"`
	CBSAArchive   string `yaml:"cbsa_archive" mapstructure:"cbsa_archive"`
	ZCTAShapefile string `yaml:"zcta_shapefile" mapstructure:"zcta_shapefile"`
	ZCTAArchive   string `yaml:"zcta_archive" mapstructure:"zcta_archive"`
	OverridesFile string `yaml:"overrides_file" mapstructure:"overrides_file"`
	TempDir       string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// WarehouseConfig configures the optional warehouse source.
type WarehouseConfig struct {
	DSN   string `yaml:"dsn" mapstructure:"dsn"`
	Table string `yaml:"table" mapstructure:"table"`
}

// ExportConfig configures export output.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AFFORD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.source", "local")
	v.SetDefault("data.house_file", "data/house_ts_agg.csv")
	v.SetDefault("data.sqlite_table", "house_ts")
	v.SetDefault("data.cbsa_shapefile", "data/cb_2018_us_cbsa_500k.shp")
	v.SetDefault("data.cbsa_archive", "data/cbsa_shapes.zip")
	v.SetDefault("data.zcta_shapefile", "data/cb_2018_us_zcta510_500k.shp")
	v.SetDefault("data.zcta_archive", "data/zcta_shapes.zip")
	v.SetDefault("data.temp_dir", "/tmp/affordability")
	v.SetDefault("warehouse.table", "house_ts")
	v.SetDefault("export.dir", "out")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the loaded configuration before a run.
func (c *Config) Validate() error {
	var problems []string

	switch c.Data.Source {
	case "local", "xlsx", "sqlite", "warehouse":
	default:
		problems = append(problems, fmt.Sprintf("data.source %q is not one of local, xlsx, sqlite, warehouse", c.Data.Source))
	}
	if c.Data.Source == "warehouse" {
		if c.Warehouse.DSN == "" {
			problems = append(problems, "warehouse.dsn is required when data.source is warehouse")
		}
	} else if c.Data.HouseFile == "" {
		problems = append(problems, "data.house_file is required")
	}
	if c.Data.CBSAShapefile == "" && c.Data.CBSAArchive == "" {
		problems = append(problems, "data.cbsa_shapefile or data.cbsa_archive is required")
	}
	if c.Data.ZCTAShapefile == "" && c.Data.ZCTAArchive == "" {
		problems = append(problems, "data.zcta_shapefile or data.zcta_archive is required")
	}
	if c.Export.Dir == "" {
		problems = append(problems, "export.dir is required")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
