// Package server initializes and runs the authentication server: it opens
// and migrates the database, wires the services, serves HTTP and shuts down
// gracefully on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/windbreaker/internal/logging"
	"github.com/dmitrijs2005/windbreaker/internal/server/config"
	"github.com/dmitrijs2005/windbreaker/internal/server/httpserver"
	"github.com/dmitrijs2005/windbreaker/internal/server/metrics"
	"github.com/dmitrijs2005/windbreaker/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	metrics     *metrics.Metrics
	authService *services.AuthService
}

// NewApp opens the store (running migrations once) and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, rm, err := OpenDatabase(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := metrics.New()

	svc, err := NewAuthService(db, rm, c, logger, m)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("service init error: %w", err)
	}

	return &App{config: c, logger: logger, db: db, metrics: m, authService: svc}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	var metricsHandler http.Handler
	if app.config.MetricsEnabled {
		metricsHandler = app.metrics.Handler()
	}

	s := httpserver.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService, metricsHandler)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database pool.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup
	var runErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing database", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
