package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/almoxarifado/internal/api"
	"github.com/erazemk/almoxarifado/internal/auth"
	"github.com/erazemk/almoxarifado/internal/backup"
	"github.com/erazemk/almoxarifado/internal/web"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Inicia o servidor web e a API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	addServeFlags(cmd.Flags(), &a.flags)
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	gate, err := a.loginGate(ctx, database)
	if err != nil {
		return err
	}

	handler, err := newHandler(database, gate)
	if err != nil {
		return err
	}

	if a.cfg.BackupDir != "" {
		scheduler, err := backup.New(database, a.cfg.BackupDir, a.cfg.BackupSchedule)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			scheduler.Stop(stopCtx)
		}()
		slog.Info("backups enabled", "dir", a.cfg.BackupDir, "schedule", a.cfg.BackupSchedule)
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.cfg.Addr, "login", gate != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	return nil
}

// loginGate returns nil when the deployment runs without a login.
func (a *app) loginGate(ctx context.Context, database *sql.DB) (*auth.Gate, error) {
	if !a.cfg.RequireLogin {
		return nil, nil
	}

	password, err := auth.EnsurePassword(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("preparing operator password: %w", err)
	}
	if password != "" {
		fmt.Fprintln(os.Stdout, passwordNotice(password))
	}

	return auth.NewGate(ctx, database)
}

// newHandler mounts the JSON API under /api/ and the web UI everywhere else.
func newHandler(database *sql.DB, gate *auth.Gate) (http.Handler, error) {
	webRouter, err := web.NewRouter(database, gate)
	if err != nil {
		return nil, fmt.Errorf("loading web UI: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(database, gate))
	mux.Handle("/", webRouter)
	return api.LoggingMiddleware(mux), nil
}
