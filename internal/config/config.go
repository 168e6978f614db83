// Package config loads specleak's configuration.
//
// Sources, lowest to highest precedence: built-in defaults, an optional
// YAML file, SPECLEAK_* environment variables, command-line flags bound by
// the CLI. Keys are dotted paths ("oracle.max_rounds"); the matching
// environment variable replaces dots with underscores
// (SPECLEAK_ORACLE_MAX_ROUNDS).
//
// Example file:
//
//	oracle:
//	  max_rounds: 1000
//	  training_iterations: 500
//	  train_ratio: 10
//	  convergence_margin: 200
//	  stall_iterations: 1000
//	region:
//	  secret: "Hello\n"
//	  protect: false
//	log:
//	  level: info
//	  format: text
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/kolkov/specleak/internal/oracle"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "SPECLEAK"

// DefaultSecret is recovered when no secret is configured.
const DefaultSecret = "Hello\n"

// Config is the complete configuration.
type Config struct {
	Oracle oracle.Config `yaml:"oracle" mapstructure:"oracle"`
	Region Region        `yaml:"region" mapstructure:"region"`
	Log    Log           `yaml:"log" mapstructure:"log"`
}

// Region configures the demonstration memory and the range to recover.
type Region struct {
	// Secret is placed behind the public page.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// Protect makes the secret page PROT_NONE before recovery.
	Protect bool `yaml:"protect" mapstructure:"protect"`

	// Offset is where recovery starts, relative to the secret.
	Offset int `yaml:"offset" mapstructure:"offset"`

	// Length is the number of bytes to recover; 0 means the whole secret
	// from Offset on.
	Length int `yaml:"length" mapstructure:"length"`
}

// Log configures the logrus logger.
type Log struct {
	// Level is a logrus level name: trace, debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Oracle: oracle.DefaultConfig(),
		Region: Region{Secret: DefaultSecret},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// NewViper returns a viper instance with defaults and environment lookup
// configured. Callers bind flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("oracle.max_rounds", d.Oracle.MaxRounds)
	v.SetDefault("oracle.training_iterations", d.Oracle.TrainingIterations)
	v.SetDefault("oracle.train_ratio", d.Oracle.TrainRatio)
	v.SetDefault("oracle.convergence_margin", d.Oracle.ConvergenceMargin)
	v.SetDefault("oracle.stall_iterations", d.Oracle.StallIterations)
	v.SetDefault("region.secret", d.Region.Secret)
	v.SetDefault("region.protect", d.Region.Protect)
	v.SetDefault("region.offset", d.Region.Offset)
	v.SetDefault("region.length", d.Region.Length)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	return v
}

// Load reads path (if non-empty) into v, decodes and validates the result.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Oracle.Validate(); err != nil {
		return err
	}
	if c.Region.Secret == "" {
		return errors.New("config: region.secret must not be empty")
	}
	if c.Region.Offset < 0 {
		return fmt.Errorf("config: region.offset must not be negative, got %d", c.Region.Offset)
	}
	if c.Region.Length < 0 {
		return fmt.Errorf("config: region.length must not be negative, got %d", c.Region.Length)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Span returns the offset and length to recover, relative to the secret.
// Length 0 expands to the rest of the secret.
func (r Region) Span() (offset, length int) {
	length = r.Length
	if length == 0 {
		length = len(r.Secret) - r.Offset
		if length < 0 {
			length = 0
		}
	}
	return r.Offset, length
}

// YAML renders the configuration as YAML.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}

// NewLogger builds a logrus logger writing to w.
func (l Log) NewLogger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	switch l.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logger, nil
}
