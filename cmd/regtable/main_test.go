package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sartorproj/statextras/internal/config"
)

func writeFixtures(t *testing.T) (dir string) {
	t.Helper()
	dir = t.TempDir()

	var b strings.Builder
	b.WriteString("y,x,z,group\n")
	for i := 0; i < 60; i++ {
		x := float64(i) / 6
		z := float64((i*7)%11) / 2
		group := "a"
		if i%3 == 0 {
			group = "b"
		}
		noise := 0.4 * float64((i*5)%7-3)
		y := 1 + 2*x + 0.3*x*x + 0.5*z + noise
		fmt.Fprintf(&b, "%g,%g,%g,%s\n", y, x, z, group)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte(b.String()), 0o644))

	yaml := `
data:
  path: ` + filepath.Join(dir, "data.csv") + `
models:
  - name: linear
    formula: "y ~ x"
  - name: full
    formula: "y ~ x + z + C(group)"
reset:
  max_power: 3
  models: [linear]
vuong:
  - preferred: full
    alternative: linear
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "regtable.yaml"), []byte(yaml), 0o644))
	return dir
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunText(t *testing.T) {
	dir := writeFixtures(t)
	cfg, err := loadConfig(filepath.Join(dir, "regtable.yaml"), "", "", "")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(cfg, discardLogger(), &out))

	s := out.String()
	for _, want := range []string{"linear", "full", "Intercept", "C(group)[T.b]", "R-squared", "DIAGNOSTICS", "RESET", "Durbin-Watson", "Vuong full vs linear"} {
		assert.Contains(t, s, want)
	}
}

func TestRunCSV(t *testing.T) {
	dir := writeFixtures(t)
	cfg, err := loadConfig(filepath.Join(dir, "regtable.yaml"), "", "csv", "")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(cfg, discardLogger(), &out))

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err, "diagnostics must not be mixed into CSV output")
	assert.Equal(t, []string{"", "linear", "full"}, records[0])
	assert.Equal(t, "Intercept", records[1][0])
}

func TestRunXLSX(t *testing.T) {
	dir := writeFixtures(t)
	path := filepath.Join(dir, "table.xlsx")
	cfg, err := loadConfig(filepath.Join(dir, "regtable.yaml"), "", "xlsx", path)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(cfg, discardLogger(), &out))
	assert.Empty(t, out.String())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(cfg.Output.Sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "linear", v)
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := writeFixtures(t)
	cfg, err := loadConfig(filepath.Join(dir, "regtable.yaml"), "other.csv", "csv", "out.csv")
	require.NoError(t, err)
	assert.Equal(t, "other.csv", cfg.Data.Path)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "out.csv", cfg.Output.Path)

	_, err = loadConfig(filepath.Join(dir, "regtable.yaml"), "", "pdf", "")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRunMissingData(t *testing.T) {
	dir := writeFixtures(t)
	cfg, err := loadConfig(filepath.Join(dir, "regtable.yaml"), filepath.Join(dir, "missing.csv"), "", "")
	require.NoError(t, err)

	assert.Error(t, run(cfg, discardLogger(), io.Discard))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
