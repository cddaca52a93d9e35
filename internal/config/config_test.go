package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8084, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, SourceGenerator, cfg.Source.Kind)
	assert.Equal(t, 180, cfg.Generator.Days)
	assert.Len(t, cfg.Generator.Products, 5)
	assert.Equal(t, "none", cfg.Dashboard.EmptySelection)
	assert.Equal(t, 8, cfg.Dashboard.LegendMaxItems)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.Security.EnableRateLimit)
	assert.Equal(t, "localhost:8084", cfg.Address())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9090
  read_timeout: 5s
source:
  kind: csv
  csv_file: sales.csv
generator:
  seed: 42
dashboard:
  empty_selection: all
  table_rows: 50
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, SourceCSV, cfg.Source.Kind)
	assert.Equal(t, "sales.csv", cfg.Source.CSVFile)
	assert.Equal(t, uint64(42), cfg.Generator.Seed)
	assert.Equal(t, "all", cfg.Dashboard.EmptySelection)
	assert.Equal(t, 50, cfg.Dashboard.TableRows)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CSV_FILE", "/data/export.csv")
	t.Setenv("DASHBOARD_TABLE_ROWS", "25")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "/data/export.csv", cfg.Source.CSVFile)
	assert.Equal(t, 25, cfg.Dashboard.TableRows)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600))
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}, "server port"},
		{"unknown source", map[string]string{"SOURCE_KIND": "kafka"}, "invalid source kind"},
		{"bad policy", map[string]string{"DASHBOARD_EMPTY_SELECTION": "some"}, "empty selection policy"},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "invalid log level"},
		{"empty amount range", map[string]string{"GENERATOR_MIN_AMOUNT": "100", "GENERATOR_MAX_AMOUNT": "100"}, "amount range"},
		{"zero table rows", map[string]string{"DASHBOARD_TABLE_ROWS": "0"}, "table rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
