// Package config parses the dashboard command line. Every flag takes its
// default from an environment variable, which may be set in a .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read for flag defaults.
const (
	EnvAddr        = "DASHBOARD_ADDR"
	EnvMetricsAddr = "METRICS_ADDR"
	EnvData        = "CREDITCARD_DATA"
	EnvLogLevel    = "LOG_LEVEL"
	EnvUseFixtures = "USE_FIXTURES"
)

// Config is the dashboard runtime configuration.
type Config struct {
	Addr            string
	MetricsAddr     string
	Data            string
	UseFixtures     bool
	FixtureRows     int
	FixtureSeed     uint64
	LogLevel        string
	PreviewRows     int
	ShutdownTimeout time.Duration
}

// Parse reads args (without the program name) using getenv for defaults.
func Parse(name string, args []string, getenv func(string) string, output io.Writer) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Addr, "addr", envOr(getenv, EnvAddr, ":8501"), "Dashboard HTTP address")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", envOr(getenv, EnvMetricsAddr, ":9090"), "Prometheus metrics HTTP address (empty to disable)")
	fs.StringVar(&cfg.Data, "data", envOr(getenv, EnvData, "creditcard.csv"), "Dataset location: CSV path, file://, gs://, postgres:// or clickhouse:// URI")
	fs.BoolVar(&cfg.UseFixtures, "use-fixtures", envBool(getenv, EnvUseFixtures), "Serve a synthetic dataset instead of --data")
	fs.IntVar(&cfg.FixtureRows, "fixture-rows", 20000, "Number of synthetic rows with --use-fixtures")
	fs.Uint64Var(&cfg.FixtureSeed, "fixture-seed", 1, "Random seed of the synthetic rows")
	fs.StringVar(&cfg.LogLevel, "log-level", envOr(getenv, EnvLogLevel, "info"), "Log level (debug, info, warn, error)")
	fs.IntVar(&cfg.PreviewRows, "preview-rows", 5, "Rows shown in the dataset preview")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the dashboard cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("--addr is required"))
	}
	if !c.UseFixtures && c.Data == "" {
		errs = append(errs, errors.New("--data is required (use --use-fixtures for synthetic data)"))
	}
	if c.UseFixtures && c.FixtureRows < 1 {
		errs = append(errs, fmt.Errorf("--fixture-rows must be positive, got %d", c.FixtureRows))
	}
	if c.PreviewRows < 1 {
		errs = append(errs, fmt.Errorf("--preview-rows must be positive, got %d", c.PreviewRows))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("--shutdown-timeout must be positive, got %s", c.ShutdownTimeout))
	}
	return errors.Join(errs...)
}

// LoadEnvFile sets variables from a KEY=VALUE file. Existing variables are
// not overridden. A missing file is not an error.
func LoadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read env file: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, set := os.LookupEnv(key); !set {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
		}
	}
	return nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(getenv func(string) string, key string) bool {
	b, err := strconv.ParseBool(getenv(key))
	return err == nil && b
}
