// Package config loads runtime settings through viper and builds the
// process logger from them.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/spockhart/spockhart/internal/app/usecases"
	"github.com/spockhart/spockhart/pkg/validation"
)

// EnvPrefix is prepended to every environment override, e.g. SPOCKHART_LOG_LEVEL
const EnvPrefix = "SPOCKHART"

// Keys shared by flags, config files and the environment
const (
	KeyLogLevel      = "log-level"
	KeyLogFormat     = "log-format"
	KeyLogFile       = "log-file"
	KeyFlow          = "flow"
	KeyOutputDir     = "output-dir"
	KeySnapshotName  = "snapshot-name"
	KeySnapshotScale = "snapshot-scale"
)

// Config holds every setting the CLI reads
type Config struct {
	LogLevel      string `mapstructure:"log-level" validate:"required,log_level"`
	LogFormat     string `mapstructure:"log-format" validate:"required,oneof=text json"`
	LogFile       string `mapstructure:"log-file"`
	Flow          string `mapstructure:"flow"`
	OutputDir     string `mapstructure:"output-dir" validate:"required"`
	SnapshotName  string `mapstructure:"snapshot-name" validate:"required,excludesall=/\\"`
	SnapshotScale int    `mapstructure:"snapshot-scale" validate:"min=1,max=4"`
}

// SetDefaults registers default values and environment binding on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyFlow, "")
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeySnapshotName, usecases.DefaultSnapshotName)
	v.SetDefault(KeySnapshotScale, 2)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load reads the config file named by path, if any, and decodes v into a
// validated Config.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := validation.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Level maps LogLevel to a slog level
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger. Output goes to LogFile when set,
// otherwise to w. The returned closer releases the log file.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, io.Closer, error) {
	var closer io.Closer = nopCloser{}
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}

	opts := &slog.HandlerOptions{Level: c.Level()}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
