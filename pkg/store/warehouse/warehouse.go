package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"

	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
)

const (
	DriverClickHouse = "clickhouse"
	DriverDuckDB     = "duckdb"
	DriverSnowflake  = "snowflake"
	DriverDatabricks = "databricks"
)

type ClickHouseSettings struct {
	URL         string
	User        string
	Password    string
	Database    string
	DialTimeout time.Duration
}

type DuckDBSettings struct {
	Path string
}

type SnowflakeSettings struct {
	Account   string
	User      string
	Password  string
	Database  string
	Schema    string
	Warehouse string
	Role      string
}

type DatabricksSettings struct {
	Host     string
	Token    string
	HTTPPath string
	Catalog  string
	Schema   string
}

// Settings selects the analytical store and carries per-driver connection options.
// Table is the chargeback transaction source; the embedded DuckDB store creates it when missing.
type Settings struct {
	Driver     string
	Table      string
	ClickHouse ClickHouseSettings
	DuckDB     DuckDBSettings
	Snowflake  SnowflakeSettings
	Databricks DatabricksSettings
}

type opener func(settings Settings) (*sql.DB, error)

type driverEntry struct {
	open    opener
	dialect Dialect
}

var drivers = map[string]driverEntry{
	DriverClickHouse: {open: openClickHouse, dialect: ClickHouse},
	DriverDuckDB:     {open: openDuckDB, dialect: DuckDB},
	DriverSnowflake:  {open: openSnowflake, dialect: Snowflake},
	DriverDatabricks: {open: openDatabricks, dialect: Databricks},
}

// Drivers returns the supported driver names in lexical order.
func Drivers() []string {
	names := maps.Keys(drivers)
	sort.Strings(names)
	return names
}

// DialectFor returns the SQL dialect of a supported driver.
func DialectFor(name string) (Dialect, error) {
	d, ok := drivers[name]
	if !ok {
		return Dialect{}, domain.NewConfigurationError("", fmt.Sprintf("unsupported warehouse driver %q, supported: %v", name, Drivers()))
	}
	return d.dialect, nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidateIdentifier accepts plain or dot qualified SQL identifiers only.
// Identifiers cannot be bound as query parameters, so they are checked before use.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return domain.NewConfigurationError("", fmt.Sprintf("invalid table identifier %q", name))
	}
	return nil
}

// Warehouse is the process-wide handle to the analytical store.
type Warehouse struct {
	DB      *sql.DB
	Dialect Dialect
	Table   string
}

// New wraps an already opened handle.
func New(db *sql.DB, dialect Dialect, table string) (*Warehouse, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	return &Warehouse{DB: db, Dialect: dialect, Table: table}, nil
}

// Connect builds a handle to the configured store without dialing it.
func Connect(ctx context.Context, settings Settings) (*Warehouse, error) {
	d, ok := drivers[settings.Driver]
	if !ok {
		return nil, domain.NewConfigurationError("", fmt.Sprintf("unsupported warehouse driver %q, supported: %v", settings.Driver, Drivers()))
	}
	if err := ValidateIdentifier(settings.Table); err != nil {
		return nil, err
	}

	db, err := d.open(settings)
	if err != nil {
		return nil, domain.NewDataSourceError("", fmt.Sprintf("open %s connection", settings.Driver), err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("driver", settings.Driver).
		Str("table", settings.Table).
		Msg("analytical store handle created")

	return &Warehouse{DB: db, Dialect: d.dialect, Table: settings.Table}, nil
}

// Open connects to the configured store and verifies the connection with a ping.
func Open(ctx context.Context, settings Settings) (*Warehouse, error) {
	w, err := Connect(ctx, settings)
	if err != nil {
		return nil, err
	}

	if err := w.Ping(ctx); err != nil {
		if cerr := w.Close(); cerr != nil {
			zerolog.Ctx(ctx).Warn().Err(cerr).Msg("failed to close warehouse connection after ping failure")
		}
		return nil, err
	}

	return w, nil
}

// Ping verifies the store is reachable.
func (w *Warehouse) Ping(ctx context.Context) error {
	if err := w.DB.PingContext(ctx); err != nil {
		return domain.NewDataSourceError("", fmt.Sprintf("ping %s", w.Dialect.Name), err)
	}

	zerolog.Ctx(ctx).Info().
		Str("dialect", w.Dialect.Name).
		Str("table", w.Table).
		Msg("connected to analytical store")
	return nil
}

func (w *Warehouse) Close() error {
	return w.DB.Close()
}
