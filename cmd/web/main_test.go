package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testConfig = `
source:
  kind: generator
generator:
  days: 14
  min_per_day: 2
  max_per_day: 5
  products: ["Laptop Pro", "Tablet"]
  seed: 7
logger:
  level: error
  format: text
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCmd()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_HelpAndSubcommands(t *testing.T) {
	tests := []struct {
		args    []string
		wantOut string
		wantErr bool
	}{
		{args: []string{"--help"}, wantOut: "Interactive sales dashboard"},
		{args: []string{"serve", "--help"}, wantOut: "Run the web dashboard"},
		{args: []string{"export", "--help"}, wantOut: "--format"},
		{args: []string{"report", "--help"}, wantOut: "--products"},
		{args: []string{"seed", "--help"}, wantOut: "--db"},
		{args: []string{"--version"}, wantOut: version},
		{args: []string{"unknown"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestCLI_BadConfig(t *testing.T) {
	path := writeConfig(t, "source:\n  kind: kafka\n")

	_, err := run(t, "--config", path, "report")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid source kind")
}

func TestCLI_Report(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := run(t, "--config", path, "report")
	require.NoError(t, err)

	assert.Contains(t, out, "Sales report, ")
	assert.Contains(t, out, "Total Sales")
	assert.Contains(t, out, "Active Products")
	assert.Contains(t, out, "Average Sale")
	assert.Contains(t, out, "Laptop Pro")
	assert.Contains(t, out, "Tablet")
	assert.Contains(t, out, "Total: 2 products")
}

func TestCLI_ReportEmptySelection(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := run(t, "--config", path, "report", "--products", "")
	require.NoError(t, err)

	assert.Contains(t, out, "Sales report, all dates")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Total: 0 products")
}

func TestCLI_ExportCSV(t *testing.T) {
	path := writeConfig(t, testConfig)
	out := filepath.Join(t.TempDir(), "tablet.csv")

	_, err := run(t, "--config", path, "export", "--products", "Tablet", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "date,product,amount", lines[0])
	for _, line := range lines[1:] {
		assert.Contains(t, line, ",Tablet,")
	}
}

func TestCLI_ExportToStdout(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := run(t, "--config", path, "export", "--products", "", "--out", "-")
	require.NoError(t, err)
	assert.Equal(t, "date,product,amount\n", out)
}

func TestCLI_ExportXLSX(t *testing.T) {
	path := writeConfig(t, testConfig)
	out := filepath.Join(t.TempDir(), "report.xlsx")

	_, err := run(t, "--config", path, "export", "--format", "xlsx", "--out", out)
	require.NoError(t, err)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	require.Greater(t, len(rows), 1)
	assert.Equal(t, []string{"date", "product", "amount"}, rows[0])
}

func TestCLI_ExportErrors(t *testing.T) {
	path := writeConfig(t, testConfig)

	_, err := run(t, "--config", path, "export", "--format", "pdf", "--out", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")

	_, err = run(t, "--config", path, "export", "--start", "2024-03-02", "--end", "2024-03-01", "--out", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VALIDATION_ERROR")
}

func TestCLI_SeedThenReportFromSQLite(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "sales.db")
	path := writeConfig(t, testConfig)

	out, err := run(t, "--config", path, "seed", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded ")
	assert.Contains(t, out, db)

	sqliteConfig := writeConfig(t, testConfig+"\n"+strings.Join([]string{
		"dashboard:",
		"  empty_selection: all",
	}, "\n")+"\n")
	t.Setenv("SOURCE_KIND", "sqlite")
	t.Setenv("SOURCE_SQLITE_PATH", db)

	out, err = run(t, "--config", sqliteConfig, "report", "--products", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Laptop Pro")
	assert.Contains(t, out, "Total: 2 products")
}
