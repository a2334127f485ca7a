package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.JWTSecret = "secret"
	return cfg
}

func TestDefaultConfig_NeedsOnlySecret(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "jwt_secret", fieldErrs[0].Field)

	cfg.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "not-a-port"
	cfg.DatabaseDriver = "oracle"
	cfg.TokenTTL = 0
	cfg.LogLevel = "loud"
	cfg.LogFormat = "xml"

	err := cfg.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}

	assert.ElementsMatch(t, []string{"port", "database_driver", "token_ttl", "log_level", "log_format"}, fields)
}

func TestValidate_PostgresNotifierNeedsPostgres(t *testing.T) {
	cfg := validConfig()
	cfg.Notifier = NotifierPostgres

	err := cfg.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "notifier", fieldErrs[0].Field)

	cfg.DatabaseDriver = "postgres"
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":            "8080",
		"JWT_SECRET":      "from-env",
		"TOKEN_TTL":       "30m",
		"REQUEST_TIMEOUT": "2s",
		"ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"LOG_LEVEL":       "",
		"LOG_FORMAT":      "console",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.applyEnv(lookup))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestApplyEnv_BadDuration(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.applyEnv(func(key string) (string, bool) {
		if key == "TOKEN_TTL" {
			return "two hours", true
		}
		return "", false
	})

	assert.ErrorContains(t, err, "TOKEN_TTL")
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
jwt_secret: from-file
token_ttl: 1h
client_url: https://board.example
`), 0o644))

	t.Setenv("PORT", "7001")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "7001", cfg.Port)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Contains(t, cfg.AllowedOrigins, "https://board.example")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Port, cfg.Port)
}
