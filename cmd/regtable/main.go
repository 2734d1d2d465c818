// Command regtable fits OLS models from a YAML description, prints a
// side-by-side coefficient table and runs the configured specification tests.
//
// Usage:
//
//	regtable -config models.yaml [-data file.csv] [-format text|csv|xlsx] [-out path]
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sartorproj/statextras/dataset"
	"github.com/sartorproj/statextras/internal/config"
	"github.com/sartorproj/statextras/ols"
	"github.com/sartorproj/statextras/stats"
	"github.com/sartorproj/statextras/table"
)

func main() {
	configPath := flag.String("config", "regtable.yaml", "YAML file describing the data and models")
	dataPath := flag.String("data", "", "CSV file to fit (overrides data.path)")
	format := flag.String("format", "", "output format: text, csv or xlsx (overrides output.format)")
	out := flag.String("out", "", "output file, stdout when empty (overrides output.path)")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *dataPath, *format, *out)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging, os.Stderr)
	if err := run(cfg, logger, os.Stdout); err != nil {
		logger.Error("regtable failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// loadConfig applies command-line overrides on top of the loaded file.
func loadConfig(path, data, format, out string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if data != "" {
		cfg.Data.Path = data
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if out != "" {
		cfg.Output.Path = out
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Data.Path == "" {
		return nil, fmt.Errorf("%w: no data file; set data.path or -data", config.ErrInvalid)
	}
	return cfg, nil
}

func newLogger(lc config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.SlogLevel()}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func run(cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	data, err := dataset.LoadCSV(cfg.Data.Path, cfg.CSVOptions())
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Data.Path, err)
	}
	logger.Info("Loaded data",
		slog.String("path", cfg.Data.Path),
		slog.Int("rows", data.Len()),
		slog.String("columns", strings.Join(data.Names(), ",")))

	opts := cfg.TableOptions()
	tbl, err := table.BuildFromSpecs(cfg.Models, data, opts)
	if err != nil {
		return err
	}
	logger.Debug("Built table",
		slog.Int("models", len(tbl.Columns())),
		slog.Int("rows", len(tbl.Rows())),
		slog.String("cov_type", string(opts.CovType)))

	if err := writeTable(cfg.Output, tbl, stdout); err != nil {
		return err
	}
	if cfg.Output.Path != "" {
		logger.Info("Wrote table", slog.String("path", cfg.Output.Path), slog.String("format", cfg.Output.Format))
	}

	// Diagnostics go to stdout only when it holds a text table.
	report := io.Discard
	if cfg.Output.Format == "text" && cfg.Output.Path == "" {
		report = stdout
	}
	return runDiagnostics(cfg, data, logger, report)
}

func writeTable(oc config.OutputConfig, tbl *table.Table, stdout io.Writer) error {
	w := stdout
	if oc.Path != "" {
		f, err := os.Create(oc.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch oc.Format {
	case "csv":
		return tbl.WriteCSV(w)
	case "xlsx":
		return tbl.WriteXLSX(w, oc.Sheet)
	default:
		_, err := fmt.Fprintln(w, tbl)
		return err
	}
}

func runDiagnostics(cfg *config.Config, data *dataset.Frame, logger *slog.Logger, w io.Writer) error {
	if len(cfg.Reset.Models) == 0 && len(cfg.Vuong) == 0 {
		return nil
	}

	formulas := make(map[string]string, len(cfg.Models))
	for _, m := range cfg.Models {
		formulas[m.Name] = m.Formula
	}
	fitted := make(map[string]*ols.Results)
	fit := func(name string) (*ols.Results, error) {
		if res, ok := fitted[name]; ok {
			return res, nil
		}
		model, err := ols.FromFormula(formulas[name], data)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
		res, err := model.Fit(cfg.CovType())
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
		fitted[name] = res
		return res, nil
	}

	fmt.Fprintf(w, "\n%s\nDIAGNOSTICS\n%s\n", strings.Repeat("=", 60), strings.Repeat("=", 60))

	for _, name := range cfg.Reset.Models {
		res, err := fit(name)
		if err != nil {
			return err
		}

		ft, err := stats.RamseyReset(res, cfg.Reset.MaxPower)
		if err != nil {
			logger.Warn("RESET test skipped", slog.String("model", name), slog.String("error", err.Error()))
			continue
		}
		logger.Info("RESET test",
			slog.String("model", name),
			slog.Float64("f", ft.FValue),
			slog.Float64("p_value", ft.PValue),
			slog.Int("df_num", ft.DFNum),
			slog.Int("df_denom", ft.DFDenom))
		fmt.Fprintf(w, "%s RESET (power %d): %s\n", name, cfg.Reset.MaxPower, ft)

		residualDiagnostics(name, res.Residuals(), logger, w)
	}

	for _, pair := range cfg.Vuong {
		a, err := fit(pair.Preferred)
		if err != nil {
			return err
		}
		b, err := fit(pair.Alternative)
		if err != nil {
			return err
		}

		v, err := stats.Vuong(a, b)
		if err != nil {
			logger.Warn("Vuong test skipped",
				slog.String("preferred", pair.Preferred),
				slog.String("alternative", pair.Alternative),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("Vuong test",
			slog.String("preferred", pair.Preferred),
			slog.String("alternative", pair.Alternative),
			slog.Float64("z", v.Z),
			slog.Float64("p_value", v.PValue))
		fmt.Fprintf(w, "Vuong %s vs %s: z=%.4f, p=%.4g\n", pair.Preferred, pair.Alternative, v.Z, v.PValue)
	}
	return nil
}

// residualDiagnostics reports what it can; a failing statistic is logged, not fatal.
func residualDiagnostics(name string, resid []float64, logger *slog.Logger, w io.Writer) {
	if dw, err := stats.DurbinWatson(resid); err == nil {
		fmt.Fprintf(w, "%s Durbin-Watson: %.4f\n", name, dw.Statistic)
	} else {
		logger.Debug("Durbin-Watson skipped", slog.String("model", name), slog.String("error", err.Error()))
	}

	if jb, err := stats.JarqueBera(resid); err == nil {
		fmt.Fprintf(w, "%s Jarque-Bera: %.4f (p=%.4g, skew=%.3f, kurtosis=%.3f)\n",
			name, jb.Statistic, jb.PValue, jb.Skew, jb.Kurtosis)
	} else {
		logger.Debug("Jarque-Bera skipped", slog.String("model", name), slog.String("error", err.Error()))
	}

	lags := min(10, len(resid)/5)
	if lb, err := stats.LjungBox(resid, lags, 0); err == nil {
		fmt.Fprintf(w, "%s Ljung-Box(%d): %.4f (p=%.4g)\n", name, lb.Lags, lb.Statistic, lb.PValue)
	} else {
		logger.Debug("Ljung-Box skipped", slog.String("model", name), slog.String("error", err.Error()))
	}
}
