package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-playground/validator"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"trackmatch/internal/match"
)

var errNoConfigFile = fmt.Errorf("no config file loaded")

type Config struct {
	// where the fingerprint index lives (relative to cwd supported)
	StoragePath string `validate:"path_exists" yaml:"storage_path"`
	// which embedded database keeps the index: sqlite or duckdb
	Backend string `validate:"oneof=sqlite duckdb" yaml:"backend"`
	// how many hashes go into a single index lookup
	BatchSize int `validate:"gt=0" yaml:"batch_size"`
	// how many lookups may run at once,
	// defaults to the number of cores if omitted or <1.
	Concurrency int `yaml:"concurrency"`
	// Max memory the duckdb instance is allowed to allocate, Mb
	// (duckdb backend only, default: 500)
	DuckdbMaxMemMb int `yaml:"duckdb_max_mem_mb"`

	// Matching thresholds, see match.Tuning.
	BinWidth     int `validate:"gt=0" yaml:"bin_width"`
	MaxGap       int `validate:"gt=0" yaml:"max_gap"`
	MinGroupSize int `yaml:"min_group_size"`
	MinPeakCount int `yaml:"min_peak_count"`
	// Extraction scheme constants. These must match the extractor that
	// produced the fingerprints, or reported seconds are meaningless.
	SampleRate   int     `validate:"gt=0" yaml:"sample_rate"`
	WindowSize   int     `validate:"gt=0" yaml:"window_size"`
	OverlapRatio float64 `validate:"gt=0" yaml:"overlap_ratio"`
}

// Tuning maps the configured thresholds onto the matching engine's knobs.
func (cfg Config) Tuning() match.Tuning {
	return match.Tuning{
		BinWidth:     cfg.BinWidth,
		MaxGap:       cfg.MaxGap,
		MinGroupSize: cfg.MinGroupSize,
		MinPeakCount: cfg.MinPeakCount,
		SampleRate:   cfg.SampleRate,
		WindowSize:   cfg.WindowSize,
		OverlapRatio: cfg.OverlapRatio,
	}
}

// Validate is the final check after all overrides are done (file load, command arguments substituted)
func (cfg Config) Validate() error {
	translateError := func(e validator.FieldError) string {
		switch e.ActualTag() {
		case "path_exists":
			return fmt.Sprintf("path \"%v\" does not exist", e.Value())
		case "required":
			return "value is empty"
		case "oneof":
			return fmt.Sprintf("must be one of: %s", e.Param())
		case "gt":
			return fmt.Sprintf("must be greater than %s", e.Param())
		default:
			return fmt.Sprintf("invalid value (%s)", e.Tag())
		}
	}

	cfgValidate := validator.New()

	err := cfgValidate.RegisterValidation(
		"path_exists", func(fl validator.FieldLevel) bool {
			path := fl.Field().String()
			if !filepath.IsAbs(path) {
				cwd, _ := os.Getwd()
				path = filepath.Join(cwd, path)
			}
			_, err := os.Stat(path)
			return err == nil
		},
	)
	if err != nil {
		return err
	}

	err = cfgValidate.Struct(cfg)
	if err != nil {
		message := "Invalid config values:\n"
		for _, err := range err.(validator.ValidationErrors) {
			message += fmt.Sprintf("> %v: %s\n", err.StructField(), translateError(err))
		}
		return errors.New(message)
	}

	return nil
}

var DefaultCfg = func() Config {
	t := match.DefaultTuning()
	return Config{
		StoragePath:    "./",
		Backend:        "sqlite",
		BatchSize:      1000,
		Concurrency:    runtime.NumCPU(),
		DuckdbMaxMemMb: 500,
		BinWidth:       t.BinWidth,
		MaxGap:         t.MaxGap,
		MinGroupSize:   t.MinGroupSize,
		MinPeakCount:   t.MinPeakCount,
		SampleRate:     t.SampleRate,
		WindowSize:     t.WindowSize,
		OverlapRatio:   t.OverlapRatio,
	}
}()

func LoadConfig() (cfg Config, err error) {

	cfg = DefaultCfg

	viper.AddConfigPath(".")
	viper.SetConfigName("trackmatch")

	err = viper.ReadInConfig()
	if err == nil {
		err = viper.Unmarshal(
			&cfg, func(dc *mapstructure.DecoderConfig) {
				dc.TagName = "yaml"
			},
		)
		if err != nil {
			err = fmt.Errorf("unable to decode into config struct: %w", err)
			return
		}
	} else {
		// Check config read errors
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			err = errNoConfigFile
			return
		}
		err = fmt.Errorf("unable to use config file: %s", err)
		return
	}

	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultCfg.Concurrency
	}

	return cfg, cfg.Validate()
}
