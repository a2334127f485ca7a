package logutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFileAppends(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "taskboard.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := New(Options{Level: "info", File: file})
		require.NoError(t, err)
		logger.Info().Msg(msg)
		logger.Debug().Msg("filtered")
		closer()
	}

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "second", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestNew_Console(t *testing.T) {
	file := filepath.Join(t.TempDir(), "console.log")

	logger, closer, err := New(Options{Level: "debug", File: file, Format: FormatConsole})
	require.NoError(t, err)
	logger.Debug().Str("task", "7").Msg("plain text")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "plain text")
	assert.Contains(t, string(data), "task=7")
	assert.False(t, json.Valid(data))
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "bad level", opts: Options{Level: "loud"}},
		{name: "bad format", opts: Options{Level: "info", Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, closer, err := New(tt.opts)
			require.Error(t, err)
			require.NotNil(t, closer)
			closer()
		})
	}
}
