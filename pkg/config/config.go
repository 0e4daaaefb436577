package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const redacted = "******"

type Config struct {
	Address         string        `mapstructure:"address"          yaml:"address"`
	LogLevel        string        `mapstructure:"log_level"        yaml:"log_level"`
	StoreURL        string        `mapstructure:"store_url"        yaml:"store_url"`
	ShutdownTimeout Duration      `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	BodyLimit       int           `mapstructure:"body_limit"       yaml:"body_limit"`
	Version         string        `mapstructure:"version"          yaml:"version"`
	Store           StoreConfig   `mapstructure:"store"            yaml:"store"`
	History         HistoryConfig `mapstructure:"history"          yaml:"history"`
	Parser          ParserConfig  `mapstructure:"parser"           yaml:"parser"`
	Report          ReportConfig  `mapstructure:"report"           yaml:"report"`
}

type StoreConfig struct {
	// Timeout bounds every store call.
	Timeout       Duration `mapstructure:"timeout"        yaml:"timeout"`
	SlowThreshold Duration `mapstructure:"slow_threshold" yaml:"slow_threshold"`
	// Retain keeps only the most recent datasets after each upload. 0 keeps everything.
	Retain int `mapstructure:"retain" yaml:"retain"`
}

type HistoryConfig struct {
	DefaultLimit int `mapstructure:"default_limit" yaml:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"     yaml:"max_limit"`
}

type ParserConfig struct {
	MaxRows int `mapstructure:"max_rows" yaml:"max_rows"`
}

// ReportConfig holds the credential guarding report export. Password may be a bcrypt
// hash. When PasswordFile is set the password is read from it on every check.
type ReportConfig struct {
	Username     string `mapstructure:"username"      yaml:"username"`
	Password     string `mapstructure:"password"      yaml:"password"`
	PasswordFile string `mapstructure:"password_file" yaml:"password_file"`
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("address", d.Address)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("store_url", d.StoreURL)
	v.SetDefault("shutdown_timeout", d.ShutdownTimeout.String())
	v.SetDefault("body_limit", d.BodyLimit)
	v.SetDefault("version", d.Version)
	v.SetDefault("store.timeout", d.Store.Timeout.String())
	v.SetDefault("store.slow_threshold", d.Store.SlowThreshold.String())
	v.SetDefault("store.retain", d.Store.Retain)
	v.SetDefault("history.default_limit", d.History.DefaultLimit)
	v.SetDefault("history.max_limit", d.History.MaxLimit)
	v.SetDefault("parser.max_rows", d.Parser.MaxRows)
	v.SetDefault("report.username", "")
	v.SetDefault("report.password", "")
	v.SetDefault("report.password_file", "")
}

// Load reads configuration from the optional file at path and CHEMVIZ_* environment
// variables, e.g. CHEMVIZ_REPORT_PASSWORD. Without a path, ./chemviz.yaml is used if present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CHEMVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("chemviz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Address == "" {
		errs = append(errs, errors.New("address must not be empty"))
	}
	if c.StoreURL == "" {
		errs = append(errs, errors.New("store_url must not be empty"))
	}
	if c.History.DefaultLimit <= 0 {
		errs = append(errs, fmt.Errorf("history.default_limit must be positive, got %d", c.History.DefaultLimit))
	}
	if c.History.MaxLimit < c.History.DefaultLimit {
		errs = append(errs, fmt.Errorf(
			"history.max_limit (%d) must not be lower than history.default_limit (%d)",
			c.History.MaxLimit, c.History.DefaultLimit,
		))
	}
	if c.Store.Retain < 0 {
		errs = append(errs, fmt.Errorf("store.retain must not be negative, got %d", c.Store.Retain))
	}
	if c.Store.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("store.timeout must be positive"))
	}

	return errors.Join(errs...)
}

// Redacted returns a copy safe to print or log.
func (c Config) Redacted() Config {
	if c.Report.Password != "" {
		c.Report.Password = redacted
	}

	return c
}

// YAML renders the redacted configuration.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c.Redacted())
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	return out, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Address:         "localhost:8000",
		LogLevel:        "info",
		StoreURL:        "sqlite://chemviz.db",
		ShutdownTimeout: Duration{10 * time.Second},
		BodyLimit:       16 * 1024 * 1024,
		Version:         "dev",
		Store: StoreConfig{
			Timeout:       Duration{5 * time.Second},
			SlowThreshold: Duration{200 * time.Millisecond},
		},
		History: HistoryConfig{DefaultLimit: 5, MaxLimit: 100},
		Parser:  ParserConfig{MaxRows: 100000},
	}
}
