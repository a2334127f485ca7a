package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/monocle-dev/taskboard/internal/config"
	"github.com/monocle-dev/taskboard/internal/logging"
	"github.com/monocle-dev/taskboard/pkg/logutils"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var version = "dev"

type flags struct {
	ConfigPath string
	LogLevel   string
	LogFile    string
	LogFormat  string
}

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	var (
		f         = &flags{}
		cfg       *config.Config
		logCloser func()
	)

	app := &cli.Command{
		Name:    "taskboard",
		Usage:   "Collaborative kanban board server",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to YAML config file",
				Sources:     cli.EnvVars("TASKBOARD_CONFIG"),
				Destination: &f.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error), overrides LOG_LEVEL",
				Destination: &f.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stdout), overrides LOG_FILE",
				Destination: &f.LogFile,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "log encoding (json, console), overrides LOG_FORMAT",
				Destination: &f.LogFormat,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error

			cfg, err = config.Load(f.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			if f.LogLevel != "" {
				cfg.LogLevel = f.LogLevel
			}
			if f.LogFile != "" {
				cfg.LogFile = f.LogFile
			}
			if f.LogFormat != "" {
				cfg.LogFormat = f.LogFormat
			}

			logger, closer, err := logutils.New(logutils.Options{
				Level:  cfg.LogLevel,
				File:   cfg.LogFile,
				Format: cfg.LogFormat,
			})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCmd(&cfg),
			migrateCmd(&cfg),
			exportCmd(&cfg),
		},
	}

	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'taskboard --help' for usage", c.Args().First())
		}
		return serve(ctx, cfg)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
