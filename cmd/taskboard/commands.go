package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/activity"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/board"
	"github.com/monocle-dev/taskboard/internal/config"
	"github.com/monocle-dev/taskboard/internal/export"
	"github.com/monocle-dev/taskboard/internal/handlers"
	"github.com/monocle-dev/taskboard/internal/notify"
	"github.com/monocle-dev/taskboard/internal/router"
	"github.com/monocle-dev/taskboard/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

const shutdownWait = 10 * time.Second

func serveCmd(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP and websocket server (default)",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, *cfg)
		},
	}
}

func migrateCmd(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create or update the database schema and exit",
		Action: func(ctx context.Context, c *cli.Command) error {
			conn, err := openDatabase(*cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(conn)

			log.Info().Str("driver", (*cfg).DatabaseDriver).Msg("database migrated")
			return nil
		},
	}
}

func exportCmd(cfg **config.Config) *cli.Command {
	var out string

	return &cli.Command{
		Name:  "export",
		Usage: "write the board and its activity log to an xlsx workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file",
				Value:       "board.xlsx",
				Destination: &out,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			conn, err := openDatabase(*cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(conn)

			tasks, err := store.New(conn).ListTasks(ctx)
			if err != nil {
				return err
			}

			entries, err := activity.NewRecorder(conn).All(ctx)
			if err != nil {
				return err
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer func() { _ = file.Close() }()

			if err := export.Write(file, tasks, entries); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			log.Info().Str("file", out).Int("tasks", len(tasks)).Int("actions", len(entries)).Msg("board exported")
			return nil
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(conn)

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	var (
		taskStore = store.New(conn)
		recorder  = activity.NewRecorder(conn)
		hub       = notify.NewHub()
		notifier  board.Notifier = hub
	)

	if cfg.Notifier == config.NotifierPostgres {
		bridge, err := notify.NewPostgresBridge(conn, cfg.DatabaseURL, hub)
		if err != nil {
			return fmt.Errorf("start postgres notifier: %w", err)
		}
		defer func() { _ = bridge.Close() }()

		go bridge.Start(ctx)
		notifier = bridge
	}

	h := handlers.New(handlers.Deps{
		Board:          board.NewService(taskStore, recorder, notifier),
		Users:          taskStore,
		Activity:       recorder,
		Issuer:         issuer,
		Changes:        hub,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.NewRouter(h, router.Options{
			Issuer:         issuer,
			Users:          taskStore,
			AllowedOrigins: cfg.AllowedOrigins,
			RequestTimeout: cfg.RequestTimeout,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", srv.Addr).Str("notifier", cfg.Notifier).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	conn, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.MigrateDatabase(conn); err != nil {
		closeDatabase(conn)
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return conn, nil
}

func closeDatabase(conn *gorm.DB) {
	sqlDB, err := conn.DB()
	if err != nil {
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}
}
