package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/sartorproj/statextras/dataset"
	"github.com/sartorproj/statextras/ols"
	"github.com/sartorproj/statextras/stats"
	"github.com/sartorproj/statextras/table"
)

// EnvPrefix is the prefix of environment overrides, e.g. REGTABLE_TABLE_COV_TYPE.
const EnvPrefix = "REGTABLE"

// ErrInvalid is returned when the loaded configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Leaf fields carry no envconfig tag: envconfig also reads a tagged field
// from the bare tag name, which would pick up variables such as PATH.

// Config represents the complete regtable configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Models  []table.Spec  `yaml:"models" ignored:"true" validate:"required,min=1,dive"`
	Table   TableConfig   `yaml:"table"`
	Reset   ResetConfig   `yaml:"reset"`
	Vuong   []VuongPair   `yaml:"vuong" ignored:"true" validate:"dive"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig describes the input CSV file.
type DataConfig struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter" validate:"len=1"`
}

// TableConfig controls the comparison table.
type TableConfig struct {
	Coefficients  []string             `yaml:"coefficients"`
	Statistics    []table.StatisticRow `yaml:"statistics" ignored:"true" validate:"omitempty,dive"`
	CovType       string               `yaml:"cov_type" split_words:"true" validate:"covtype"`
	DecimalPlaces int                  `yaml:"decimal_places" split_words:"true" validate:"min=0,max=15"`
}

// ResetConfig selects models for Ramsey's RESET test. No models means none are tested.
type ResetConfig struct {
	MaxPower int      `yaml:"max_power" split_words:"true" validate:"min=2"`
	Models   []string `yaml:"models"`
}

// VuongPair names two configured models to compare; Preferred should have the
// higher likelihood.
type VuongPair struct {
	Preferred   string `yaml:"preferred" validate:"required"`
	Alternative string `yaml:"alternative" validate:"required,nefield=Preferred"`
}

// OutputConfig controls where the table goes.
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=text csv xlsx"`
	Path   string `yaml:"path"` // Empty means stdout; required for xlsx
	Sheet  string `yaml:"sheet"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Delimiter: ",",
		},
		Table: TableConfig{
			CovType:       string(ols.HC3),
			DecimalPlaces: table.DefaultDecimalPlaces,
		},
		Reset: ResetConfig{
			MaxPower: stats.DefaultResetPower,
		},
		Output: OutputConfig{
			Format: "text",
			Sheet:  table.DefaultSheet,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("covtype", func(fl validator.FieldLevel) bool {
		_, err := ols.ParseCovType(fl.Field().String())
		return err == nil
	})

	// Use YAML key names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints and that RESET and Vuong entries refer
// to configured models.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	names := make(map[string]struct{}, len(c.Models))
	for _, m := range c.Models {
		if _, dup := names[m.Name]; dup {
			return fmt.Errorf("%w: model %q defined twice", ErrInvalid, m.Name)
		}
		names[m.Name] = struct{}{}
	}
	known := func(section, name string) error {
		if _, ok := names[name]; !ok {
			return fmt.Errorf("%w: %s refers to unknown model %q", ErrInvalid, section, name)
		}
		return nil
	}
	for _, name := range c.Reset.Models {
		if err := known("reset", name); err != nil {
			return err
		}
	}
	for _, p := range c.Vuong {
		if err := known("vuong", p.Preferred); err != nil {
			return err
		}
		if err := known("vuong", p.Alternative); err != nil {
			return err
		}
	}

	if c.Output.Format == "xlsx" && c.Output.Path == "" {
		return fmt.Errorf("%w: xlsx output needs output.path", ErrInvalid)
	}
	return nil
}

// CovType returns the parsed covariance estimator.
func (c *Config) CovType() ols.CovType {
	cov, err := ols.ParseCovType(c.Table.CovType)
	if err != nil {
		return ols.HC3
	}
	return cov
}

// TableOptions converts the table section into builder options.
func (c *Config) TableOptions() *table.Options {
	opts := table.DefaultOptions()
	opts.Coefficients = c.Table.Coefficients
	opts.Statistics = c.Table.Statistics
	opts.DecimalPlaces = c.Table.DecimalPlaces
	opts.CovType = c.CovType()
	return opts
}

// CSVOptions converts the data section into loader options.
func (c *Config) CSVOptions() *dataset.CSVOptions {
	opts := dataset.DefaultCSVOptions()
	if r, _ := utf8.DecodeRuneInString(c.Data.Delimiter); r != utf8.RuneError {
		opts.Delimiter = r
	}
	return opts
}

// SlogLevel returns the configured log level, info when unrecognised.
func (l LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
