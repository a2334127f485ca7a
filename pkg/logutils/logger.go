package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options selects the level, destination and encoding of the process logger.
type Options struct {
	Level string
	// File is appended to across restarts. Empty means stdout.
	File string
	// Format is FormatJSON or FormatConsole. Empty means FormatJSON.
	Format string
}

// New builds the process logger. The returned func releases the log file
// and is safe to call when logging to stdout.
func New(opts Options) (zerolog.Logger, func(), error) {
	noop := func() {}

	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Logger{}, noop, fmt.Errorf("log level: %w", err)
	}

	out, closer, err := open(opts.File)
	if err != nil {
		return zerolog.Logger{}, noop, err
	}

	switch opts.Format {
	case "", FormatJSON:
	case FormatConsole:
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: opts.File != ""}
	default:
		closer()
		return zerolog.Logger{}, noop, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), closer, nil
}

func open(file string) (io.Writer, func(), error) {
	if file == "" {
		return os.Stdout, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}
