package config

import (
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the process-wide settings resolved at startup.
type Config struct {
	Port             string
	DatabaseDriver   string
	DatabaseURL      string
	DatabaseKey      string
	DatabaseMigrate  bool
	AdminToken       string
	RabbitMQURL      string
	RabbitMQExchange string
	LogLevel         string
}

// Load reads configuration from the environment through v.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_AUTO_MIGRATE", false)
	v.SetDefault("RABBITMQ_EXCHANGE", "catalog")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	// The service key wins over the anon key when both are present.
	if err := v.BindEnv("DATABASE_KEY", "DATABASE_SERVICE_KEY", "DATABASE_ANON_KEY"); err != nil {
		return nil, errors.Wrap(err, "bind database key")
	}

	cfg := &Config{
		Port:             v.GetString("PORT"),
		DatabaseDriver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		DatabaseKey:      v.GetString("DATABASE_KEY"),
		DatabaseMigrate:  v.GetBool("DATABASE_AUTO_MIGRATE"),
		AdminToken:       v.GetString("ADMIN_TOKEN"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
		LogLevel:         v.GetString("LOG_LEVEL"),
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, errors.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

// StoreConfigured reports whether enough is set to reach the store.
// SQLite needs only a file; postgres needs both the URL and the access key.
func (c *Config) StoreConfigured() bool {
	if c.DatabaseURL == "" {
		return false
	}
	return c.DatabaseDriver == DriverSQLite || c.DatabaseKey != ""
}

// DSN builds the driver connection string. For postgres the access key is
// injected as the password of the URL's user, "postgres" when none is given.
func (c *Config) DSN() (string, error) {
	if c.DatabaseDriver == DriverSQLite {
		return c.DatabaseURL, nil
	}

	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return "", errors.Wrap(err, "parse DATABASE_URL")
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", errors.Errorf("DATABASE_URL scheme %q is not postgres", u.Scheme)
	}
	if c.DatabaseKey != "" {
		user := "postgres"
		if u.User != nil && u.User.Username() != "" {
			user = u.User.Username()
		}
		u.User = url.UserPassword(user, c.DatabaseKey)
	}
	return u.String(), nil
}
