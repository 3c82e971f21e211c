package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
	"github.com/sumedhd1118/chargback-export/pkg/store/warehouse"
)

type WarehouseConfig struct {
	Driver       string        `mapstructure:"driver"`
	Table        string        `mapstructure:"table"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type ClickHouseConfig struct {
	URL         string        `mapstructure:"url"`
	User        string        `mapstructure:"user"`
	Password    string        `mapstructure:"password"`
	Database    string        `mapstructure:"database"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type DuckDBConfig struct {
	Path string `mapstructure:"path"`
}

type SnowflakeConfig struct {
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
	Warehouse string `mapstructure:"warehouse"`
	Role      string `mapstructure:"role"`
}

type DatabricksConfig struct {
	Host     string `mapstructure:"host"`
	Token    string `mapstructure:"token"`
	HTTPPath string `mapstructure:"http_path"`
	Catalog  string `mapstructure:"catalog"`
	Schema   string `mapstructure:"schema"`
}

type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

type ScheduleConfig struct {
	Spec     string `mapstructure:"spec"`
	Timezone string `mapstructure:"timezone"`
}

type StatusConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Warehouse  WarehouseConfig  `mapstructure:"warehouse"`
	ClickHouse ClickHouseConfig `mapstructure:"clickhouse"`
	DuckDB     DuckDBConfig     `mapstructure:"duckdb"`
	Snowflake  SnowflakeConfig  `mapstructure:"snowflake"`
	Databricks DatabricksConfig `mapstructure:"databricks"`
	Report     ReportConfig     `mapstructure:"report"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Status     StatusConfig     `mapstructure:"status"`
	Log        LogConfig        `mapstructure:"log"`
}

type setting struct {
	key      string
	env      string
	fallback interface{}
}

// settings maps every configuration key to its environment variable and local development default.
var settings = []setting{
	{"warehouse.driver", "WAREHOUSE_DRIVER", warehouse.DriverClickHouse},
	{"warehouse.table", "CHARGEBACK_TABLE", "CHARGEBACK_NEW"},
	{"warehouse.query_timeout", "QUERY_TIMEOUT", 5 * time.Minute},

	{"clickhouse.url", "CLK_HS_HOST_WITH_PORT", "http://localhost:8123"},
	{"clickhouse.user", "CLK_HS_USER_NAME", "default"},
	{"clickhouse.password", "CLK_HS_USER_PASS", ""},
	{"clickhouse.database", "CLK_HS_DB", "default"},
	{"clickhouse.dial_timeout", "CLK_HS_DIAL_TIMEOUT", 10 * time.Second},

	{"duckdb.path", "DUCKDB_PATH", "chargebacks.db"},

	{"snowflake.account", "SNOWFLAKE_ACCOUNT", ""},
	{"snowflake.user", "SNOWFLAKE_USER", ""},
	{"snowflake.password", "SNOWFLAKE_PASSWORD", ""},
	{"snowflake.database", "SNOWFLAKE_DATABASE", ""},
	{"snowflake.schema", "SNOWFLAKE_SCHEMA", ""},
	{"snowflake.warehouse", "SNOWFLAKE_WAREHOUSE", ""},
	{"snowflake.role", "SNOWFLAKE_ROLE", ""},

	{"databricks.host", "DATABRICKS_HOST", ""},
	{"databricks.token", "DATABRICKS_TOKEN", ""},
	{"databricks.http_path", "DATABRICKS_HTTP_PATH", ""},
	{"databricks.catalog", "DATABRICKS_CATALOG", ""},
	{"databricks.schema", "DATABRICKS_SCHEMA", ""},

	{"report.output_dir", "REPORT_OUTPUT_DIR", ""},
	{"schedule.spec", "CRON_SCHEDULE", "0 10 1 * *"},
	{"schedule.timezone", "CRON_TIMEZONE", "Local"},
	{"status.addr", "STATUS_ADDR", ""},
	{"log.level", "LOG_LEVEL", "info"},
}

// Load reads the optional config file at path and overlays environment variables on top.
func Load(path string) (*Config, error) {
	v := viper.New()

	for _, s := range settings {
		v.SetDefault(s.key, s.fallback)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", s.env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, domain.NewConfigurationError("", fmt.Sprintf("failed to read config file %s: %v", path, err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, domain.NewConfigurationError("", fmt.Sprintf("failed to parse config: %v", err))
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var problems []string

	if _, err := warehouse.DialectFor(c.Warehouse.Driver); err != nil {
		problems = append(problems, fmt.Sprintf("unsupported warehouse driver %q, supported: %v", c.Warehouse.Driver, warehouse.Drivers()))
	}
	if err := warehouse.ValidateIdentifier(c.Warehouse.Table); err != nil {
		problems = append(problems, fmt.Sprintf("invalid table %q", c.Warehouse.Table))
	}
	if c.Warehouse.QueryTimeout <= 0 {
		problems = append(problems, "query timeout must be positive")
	}
	if _, err := cron.ParseStandard(c.Schedule.Spec); err != nil {
		problems = append(problems, fmt.Sprintf("invalid cron schedule %q: %v", c.Schedule.Spec, err))
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid timezone %q", c.Schedule.Timezone))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.Log.Level))
	}

	if len(problems) > 0 {
		return domain.NewConfigurationError("", strings.Join(problems, "; "))
	}
	return nil
}

// Location resolves the scheduler time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Schedule.Timezone == "" || c.Schedule.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Schedule.Timezone)
}

func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func (c *Config) WarehouseSettings() warehouse.Settings {
	return warehouse.Settings{
		Driver: c.Warehouse.Driver,
		Table:  c.Warehouse.Table,
		ClickHouse: warehouse.ClickHouseSettings{
			URL:         c.ClickHouse.URL,
			User:        c.ClickHouse.User,
			Password:    c.ClickHouse.Password,
			Database:    c.ClickHouse.Database,
			DialTimeout: c.ClickHouse.DialTimeout,
		},
		DuckDB: warehouse.DuckDBSettings{Path: c.DuckDB.Path},
		Snowflake: warehouse.SnowflakeSettings{
			Account:   c.Snowflake.Account,
			User:      c.Snowflake.User,
			Password:  c.Snowflake.Password,
			Database:  c.Snowflake.Database,
			Schema:    c.Snowflake.Schema,
			Warehouse: c.Snowflake.Warehouse,
			Role:      c.Snowflake.Role,
		},
		Databricks: warehouse.DatabricksSettings{
			Host:     c.Databricks.Host,
			Token:    c.Databricks.Token,
			HTTPPath: c.Databricks.HTTPPath,
			Catalog:  c.Databricks.Catalog,
			Schema:   c.Databricks.Schema,
		},
	}
}
