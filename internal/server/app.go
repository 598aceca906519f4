// Package server initializes and runs the development API server the admin
// console talks to: it opens the user database, seeds the default
// administrator and serves the auth and profile endpoints over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akarpovs/bannerdesk/internal/logging"
	"github.com/akarpovs/bannerdesk/internal/server/auth"
	"github.com/akarpovs/bannerdesk/internal/server/config"
	"github.com/akarpovs/bannerdesk/internal/server/handlers"
	"github.com/akarpovs/bannerdesk/internal/server/storage"

	_ "modernc.org/sqlite"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	store  *storage.Storage
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx := context.Background()

	store, err := storage.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hash, err := auth.HashPassword(c.SeedAdminPassword)
	if err != nil {
		return nil, fmt.Errorf("seed admin password: %w", err)
	}
	if err := store.EnsureSeedAdmin(ctx, c.SeedAdminEmail, hash); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	return &App{config: c, logger: logger, store: store}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting dev API server", "addr", app.config.Addr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.Addr,
		Handler: handlers.NewRouter(app.store, app.config),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "http server failed", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}
	if err := app.store.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}
	app.logger.Info(shutdownCtx, "server stopped")
}
