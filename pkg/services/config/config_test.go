package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
)

func TestLoad_Defaults(t *testing.T) {
	// When
	cfg, err := Load("")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "clickhouse", cfg.Warehouse.Driver)
	assert.Equal(t, "CHARGEBACK_NEW", cfg.Warehouse.Table)
	assert.Equal(t, 5*time.Minute, cfg.Warehouse.QueryTimeout)
	assert.Equal(t, "http://localhost:8123", cfg.ClickHouse.URL)
	assert.Equal(t, "default", cfg.ClickHouse.User)
	assert.Equal(t, "", cfg.ClickHouse.Password)
	assert.Equal(t, "default", cfg.ClickHouse.Database)
	assert.Equal(t, "0 10 1 * *", cfg.Schedule.Spec)
	assert.Equal(t, "", cfg.Report.OutputDir)
	assert.Equal(t, "", cfg.Status.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	// Given
	t.Setenv("CLK_HS_HOST_WITH_PORT", "https://ch.prod:8443")
	t.Setenv("CLK_HS_USER_NAME", "reporter")
	t.Setenv("CLK_HS_USER_PASS", "s3cret")
	t.Setenv("CLK_HS_DB", "payments")
	t.Setenv("QUERY_TIMEOUT", "90s")
	t.Setenv("CRON_TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "debug")

	// When
	cfg, err := Load("")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "https://ch.prod:8443", cfg.ClickHouse.URL)
	assert.Equal(t, "reporter", cfg.ClickHouse.User)
	assert.Equal(t, "s3cret", cfg.ClickHouse.Password)
	assert.Equal(t, "payments", cfg.ClickHouse.Database)
	assert.Equal(t, 90*time.Second, cfg.Warehouse.QueryTimeout)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	settings := cfg.WarehouseSettings()
	assert.Equal(t, "payments", settings.ClickHouse.Database)
	assert.Equal(t, "CHARGEBACK_NEW", settings.Table)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	// Given
	dir := t.TempDir()
	path := filepath.Join(dir, "chargeback.yaml")
	content := `warehouse:
  driver: duckdb
  table: analytics.CHARGEBACK_NEW
duckdb:
  path: /data/cb.db
report:
  output_dir: /reports
schedule:
  spec: "30 6 1 * *"`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("REPORT_OUTPUT_DIR", "/override")

	// When
	cfg, err := Load(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.Warehouse.Driver)
	assert.Equal(t, "analytics.CHARGEBACK_NEW", cfg.Warehouse.Table)
	assert.Equal(t, "/data/cb.db", cfg.DuckDB.Path)
	assert.Equal(t, "/override", cfg.Report.OutputDir)
	assert.Equal(t, "30 6 1 * *", cfg.Schedule.Spec)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	// Given
	t.Setenv("WAREHOUSE_DRIVER", "oracle")
	t.Setenv("CHARGEBACK_TABLE", "cb; DROP TABLE cb")
	t.Setenv("CRON_SCHEDULE", "monthly")
	t.Setenv("CRON_TIMEZONE", "Mars/Olympus")
	t.Setenv("LOG_LEVEL", "loud")
	cfg, err := Load("")
	require.NoError(t, err)

	// When
	err = cfg.Validate()

	// Then
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
	for _, fragment := range []string{"oracle", "invalid table", "invalid cron schedule", "Mars/Olympus", "loud"} {
		assert.Contains(t, err.Error(), fragment)
	}
}
