package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// devJWTSecret is only acceptable outside production.
	devJWTSecret = "dev-insecure-secret-change"
)

type Config struct {
	Port      string          `mapstructure:"port"`
	Env       string          `mapstructure:"env"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	AMQP      AMQPConfig      `mapstructure:"amqp"`

	v *viper.Viper
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"` // sqlite | postgres
	Path   string `mapstructure:"path"`   // sqlite file
	DSN    string `mapstructure:"dsn"`    // postgres
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type AnalyticsConfig struct {
	PageSize int    `mapstructure:"page_size"`
	Timezone string `mapstructure:"timezone"`
}

type AMQPConfig struct {
	URL      string `mapstructure:"url"` // empty disables publishing
	Exchange string `mapstructure:"exchange"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"port":                "PORT",
	"env":                 "APP_ENV",
	"log.level":           "LOG_LEVEL",
	"db.driver":           "DB_DRIVER",
	"db.path":             "DB_PATH",
	"db.dsn":              "DB_DSN",
	"auth.jwt_secret":     "JWT_SECRET",
	"auth.token_ttl":      "TOKEN_TTL",
	"analytics.page_size": "PAGE_SIZE",
	"analytics.timezone":  "TIMEZONE",
	"amqp.url":            "AMQP_URL",
	"amqp.exchange":       "AMQP_EXCHANGE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("log.level", "info")
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "app.db")
	v.SetDefault("auth.jwt_secret", devJWTSecret)
	v.SetDefault("auth.token_ttl", 30*24*time.Hour)
	v.SetDefault("analytics.page_size", 10)
	v.SetDefault("analytics.timezone", "Local")
	v.SetDefault("amqp.exchange", "expenses")
}

// LoadDotEnv loads a local .env file (if any) into the process environment
// without overriding variables that are already set.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load reads <dir>/config.yml (optional), applies defaults and env overrides.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.v = v
	return &cfg, nil
}

// Watch re-decodes the config file whenever it changes on disk and hands the
// fresh copy to onChange. No-op when no config file was read.
func (c *Config) Watch(onChange func(*Config)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(c.v)
		if err != nil {
			return
		}
		onChange(next)
	})
	c.v.WatchConfig()
}

// IsProduction reports whether diagnostics must be hidden from API responses.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Location resolves the timezone used to bucket expenses into calendar months.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Analytics.Timezone)
}

// Validate validates the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			errs = append(errs, errors.New("db.path is required for sqlite"))
		}
	case DriverPostgres:
		if c.DB.DSN == "" {
			errs = append(errs, errors.New("db.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown db.driver %q: use sqlite or postgres", c.DB.Driver))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	} else if c.IsProduction() && c.Auth.JWTSecret == devJWTSecret {
		errs = append(errs, errors.New("auth.jwt_secret must be set in production"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL))
	}

	if c.Analytics.PageSize < 1 {
		errs = append(errs, fmt.Errorf("analytics.page_size must be >= 1, got %d", c.Analytics.PageSize))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("analytics.timezone: %w", err))
	}

	return errors.Join(errs...)
}
