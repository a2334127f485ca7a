// Package config loads server settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	NotifierMemory   = "memory"
	NotifierPostgres = "postgres"
)

type Config struct {
	Port           string        `yaml:"port"`
	DatabaseDriver string        `yaml:"database_driver"`
	DatabaseURL    string        `yaml:"database_url"`
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Notifier       string        `yaml:"notifier"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ClientURL      string        `yaml:"client_url"`
	LogLevel       string        `yaml:"log_level"`
	LogFile        string        `yaml:"log_file"`
	LogFormat      string        `yaml:"log_format"`
}

func DefaultConfig() Config {
	return Config{
		Port:           "5000",
		DatabaseDriver: "sqlite",
		DatabaseURL:    "file:taskboard.db?_busy_timeout=5000",
		TokenTTL:       2 * time.Hour,
		RequestTimeout: 5 * time.Second,
		Notifier:       NotifierMemory,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Load reads path when it exists, then applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)

		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if cfg.ClientURL != "" && !contains(cfg.AllowedOrigins, cfg.ClientURL) {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, cfg.ClientURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"PORT":            &c.Port,
		"DATABASE_DRIVER": &c.DatabaseDriver,
		"DATABASE_URL":    &c.DatabaseURL,
		"JWT_SECRET":      &c.JWTSecret,
		"NOTIFIER":        &c.Notifier,
		"CLIENT_URL":      &c.ClientURL,
		"LOG_LEVEL":       &c.LogLevel,
		"LOG_FILE":        &c.LogFile,
		"LOG_FORMAT":      &c.LogFormat,
	}

	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"TOKEN_TTL":       &c.TokenTTL,
		"REQUEST_TIMEOUT": &c.RequestTimeout,
	}

	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}

		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		c.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, origin)
			}
		}
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
