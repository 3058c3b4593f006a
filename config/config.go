// Package config loads cfdate service and CLI configuration from TOML
// or YAML files.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/blockberries/cfdate/types"
)

// EnvVar names the environment variable holding the config path.
const EnvVar = "CFDATE_CONFIG"

// Config holds the complete cfdate configuration
type Config struct {
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Convert  ConvertConfig  `toml:"convert" yaml:"convert"`
	Defaults DefaultsConfig `toml:"defaults" yaml:"defaults"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// ServerConfig holds the gRPC and metrics listener settings
type ServerConfig struct {
	GRPCAddr        string   `toml:"grpc_addr" yaml:"grpc_addr"`
	MetricsAddr     string   `toml:"metrics_addr" yaml:"metrics_addr"`
	MaxElements     int      `toml:"max_elements" yaml:"max_elements"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ConvertConfig holds converter tuning
type ConvertConfig struct {
	Workers int `toml:"workers" yaml:"workers"`
}

// DefaultsConfig holds the unit used when the CLI is given no flags
type DefaultsConfig struct {
	Calendar   string `toml:"calendar" yaml:"calendar"`
	Resolution string `toml:"resolution" yaml:"resolution"`
	Epoch      string `toml:"epoch" yaml:"epoch"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by
// extension, applies defaults and validates the result
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(content), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the CFDATE_CONFIG environment
// variable. Without it the default locations are tried; when none
// exists the built-in defaults are returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		defaultPaths := []string{
			"./configs/cfdate.toml",
			"./cfdate.toml",
			"./cfdate.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/cfdate/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Server
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = "127.0.0.1:7070"
	}
	if c.Server.MetricsAddr == "" {
		c.Server.MetricsAddr = "127.0.0.1:9090"
	}
	if c.Server.MaxElements == 0 {
		c.Server.MaxElements = 1 << 22
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 10 * time.Second
	}

	// Convert
	if c.Convert.Workers == 0 {
		c.Convert.Workers = 1
	}

	// Defaults
	if c.Defaults.Calendar == "" {
		c.Defaults.Calendar = types.Standard.String()
	}
	if c.Defaults.Resolution == "" {
		c.Defaults.Resolution = types.Seconds.String()
	}
	if c.Defaults.Epoch == "" {
		c.Defaults.Epoch = "1970-01-01"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks names and limits. It is called by Load.
func (c *Config) Validate() error {
	if c.Server.MaxElements < 0 {
		return fmt.Errorf("server.max_elements must not be negative, got %d", c.Server.MaxElements)
	}
	if c.Convert.Workers < 1 {
		return fmt.Errorf("convert.workers must be at least 1, got %d", c.Convert.Workers)
	}
	if _, err := c.Defaults.Unit(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Unit resolves the default unit
func (d DefaultsConfig) Unit() (types.TimeUnit, error) {
	kind, err := types.CalendarByName(d.Calendar)
	if err != nil {
		return types.TimeUnit{}, err
	}
	res, err := types.ResolutionByName(d.Resolution)
	if err != nil {
		return types.TimeUnit{}, err
	}
	epoch, err := ParseEpoch(kind, d.Epoch)
	if err != nil {
		return types.TimeUnit{}, err
	}
	return types.NewTimeUnit(res, kind, epoch)
}

// Logger builds the structured logger described by c
func (c LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
