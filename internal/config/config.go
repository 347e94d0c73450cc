// Package config loads runtime settings from defaults, the environment, an
// optional .env file and an optional YAML file, in that order of precedence
// (later layers win).
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the admin core.
type Config struct {
	StorageDriver    string `env:"MYERS_STORAGE_DRIVER" envDefault:"sqlite" yaml:"storage_driver"`
	SQLitePath       string `env:"MYERS_SQLITE_PATH" envDefault:"myersadmin.db" yaml:"sqlite_path"`
	PostgresDSN      string `env:"MYERS_POSTGRES_DSN" yaml:"postgres_dsn"`
	FSRoot           string `env:"MYERS_FS_ROOT" envDefault:"./myers-data" yaml:"fs_root"`
	S3Bucket         string `env:"MYERS_S3_BUCKET" yaml:"s3_bucket"`
	S3Region         string `env:"MYERS_S3_REGION" envDefault:"us-east-1" yaml:"s3_region"`
	S3Endpoint       string `env:"MYERS_S3_ENDPOINT" yaml:"s3_endpoint"`
	S3PathStyle      bool   `env:"MYERS_S3_PATH_STYLE" envDefault:"false" yaml:"s3_path_style"`
	S3Prefix         string `env:"MYERS_S3_PREFIX" yaml:"s3_prefix"`
	LogLevel         string `env:"MYERS_LOG_LEVEL" envDefault:"info" yaml:"log_level"`
	LogFormat        string `env:"MYERS_LOG_FORMAT" envDefault:"console" yaml:"log_format"`
	PageSize         int    `env:"MYERS_PAGE_SIZE" envDefault:"5" yaml:"page_size"`
	MetricsNamespace string `env:"MYERS_METRICS_NAMESPACE" envDefault:"myersadmin" yaml:"metrics_namespace"`
}

var (
	storageDrivers = []string{"memory", "fs", "sqlite", "postgres", "s3"}
	logLevels      = []string{"debug", "info", "warn", "error"}
	logFormats     = []string{"console", "json"}
)

// Options controls where Load looks for files.
type Options struct {
	// DotEnvPath is loaded into the process environment when it exists.
	// Existing variables are not overridden.
	DotEnvPath string
	// YAMLPath, when set, must exist; its fields override the environment.
	YAMLPath string
}

// Load builds a Config and validates it.
func Load(opts Options) (Config, error) {
	if opts.DotEnvPath != "" {
		if err := godotenv.Load(opts.DotEnvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", opts.DotEnvPath, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if opts.YAMLPath != "" {
		if err := cfg.mergeYAML(opts.YAMLPath); err != nil {
			return Config{}, err
		}
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	// #nosec G304 -- path is an operator-supplied config file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

// Validate rejects unknown enumerations and missing driver settings.
func (c Config) Validate() error {
	if !slices.Contains(storageDrivers, c.StorageDriver) {
		return fmt.Errorf("unknown storage driver %q (want one of %s)", c.StorageDriver, strings.Join(storageDrivers, ", "))
	}
	switch c.StorageDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("MYERS_POSTGRES_DSN required for postgres driver")
		}
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("MYERS_S3_BUCKET required for s3 driver")
		}
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if !slices.Contains(logFormats, c.LogFormat) {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	return nil
}
