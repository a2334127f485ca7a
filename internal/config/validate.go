package config

import (
	"fmt"
	"strconv"

	"github.com/hay-kot/criterio"
)

var (
	validDrivers   = []string{"postgres", "postgresql", "mysql", "sqlite", "sqlite3"}
	validNotifiers = []string{NotifierMemory, NotifierPostgres}
	validLevels    = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}
	validFormats   = []string{"json", "console"}
)

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("port", c.Port, isPort),
		criterio.Run("database_driver", c.DatabaseDriver, oneOf(validDrivers)),
		criterio.Run("database_url", c.DatabaseURL, notEmpty),
		criterio.Run("jwt_secret", c.JWTSecret, notEmpty),
		criterio.Run("notifier", c.Notifier, oneOf(validNotifiers)),
		criterio.Run("log_level", c.LogLevel, oneOf(validLevels)),
		criterio.Run("log_format", c.LogFormat, oneOf(validFormats)),
		c.validateDurations(),
		c.validateNotifierDriver(),
	)
}

func (c *Config) validateDurations() error {
	var errs criterio.FieldErrorsBuilder

	if c.TokenTTL <= 0 {
		errs = errs.Append("token_ttl", fmt.Errorf("must be greater than zero"))
	}

	if c.RequestTimeout <= 0 {
		errs = errs.Append("request_timeout", fmt.Errorf("must be greater than zero"))
	}

	return errs.ToError()
}

// validateNotifierDriver rejects LISTEN/NOTIFY on a database that has none.
func (c *Config) validateNotifierDriver() error {
	if c.Notifier != NotifierPostgres {
		return nil
	}

	if c.DatabaseDriver != "postgres" && c.DatabaseDriver != "postgresql" {
		return criterio.NewFieldErrors("notifier", fmt.Errorf("postgres notifier requires the postgres driver, got %q", c.DatabaseDriver))
	}

	return nil
}

func notEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

func isPort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port %q", s)
	}
	return nil
}

func oneOf(allowed []string) func(string) error {
	return func(s string) error {
		if !contains(allowed, s) {
			return fmt.Errorf("must be one of %v, got %q", allowed, s)
		}
		return nil
	}
}
