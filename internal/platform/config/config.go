// Package config loads the server configuration through viper: built-in
// defaults, then an optional YAML file, then STAFFDIR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. STAFFDIR_SERVER_ADDR for server.addr.
const EnvPrefix = "STAFFDIR"

// Config is the full server configuration.
type Config struct {
	Server Server `mapstructure:"server"`
	API    API    `mapstructure:"api"`
	Log    Log    `mapstructure:"log"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	Environment     string        `mapstructure:"environment"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// API describes the upstream people API.
type API struct {
	BaseURL       string        `mapstructure:"base_url"`
	Fields        []string      `mapstructure:"fields"`
	Results       int           `mapstructure:"results"`
	Nationalities []string      `mapstructure:"nationalities"`
	Timeout       time.Duration `mapstructure:"timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// Log configures the structured logger.
type Log struct {
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:            ":8080",
			Environment:     "development",
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		API: API{
			BaseURL:       "https://randomuser.me/api/1.3/",
			Fields:        []string{"picture", "name", "email", "location", "cell", "dob"},
			Results:       12,
			Nationalities: []string{"gb", "us"},
			Timeout:       15 * time.Second,
			UserAgent:     "staffdir/1.0",
		},
		Log: Log{Level: "info"},
	}
}

// SetDefaults registers every default on v so env overrides resolve even
// without a config file.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.environment", defaults.Server.Environment)
	v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
	v.SetDefault("server.request_timeout", defaults.Server.RequestTimeout)

	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.fields", defaults.API.Fields)
	v.SetDefault("api.results", defaults.API.Results)
	v.SetDefault("api.nationalities", defaults.API.Nationalities)
	v.SetDefault("api.timeout", defaults.API.Timeout)
	v.SetDefault("api.user_agent", defaults.API.UserAgent)

	v.SetDefault("log.level", defaults.Log.Level)
}

// New returns a viper instance with defaults and environment binding applied.
// When file is non-empty it is read as the config file; otherwise ./staffdir.yaml
// is used if present.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("staffdir")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if c.API.Results <= 0 {
		errs = append(errs, fmt.Errorf("api.results must be positive, got %d", c.API.Results))
	}
	if len(c.API.Fields) == 0 {
		errs = append(errs, errors.New("api.fields must not be empty"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, errors.New("api.timeout must not be negative"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: %w", level, err)
	}
	return l, nil
}
