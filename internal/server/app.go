// Package server initializes and runs the key-value API server.
// It opens the storage backend, builds the services and serves HTTP until a
// stop signal arrives, then shuts down gracefully.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tanaychoubey/user-registration-api/internal/logging"
	"github.com/Tanaychoubey/user-registration-api/internal/server/config"
	"github.com/Tanaychoubey/user-registration-api/internal/server/httpapi"
	"github.com/Tanaychoubey/user-registration-api/internal/server/repositories/repomanager"
	"github.com/Tanaychoubey/user-registration-api/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.HTTPServer
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(context.Background(), c, logging.NewJSONLogger(os.Stdout, slog.LevelInfo))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	generated, err := c.EnsureSecretKey()
	if err != nil {
		return nil, fmt.Errorf("secret key error: %w", err)
	}
	if generated {
		logger.Warn(ctx, "No secret key configured, using a random one; tokens will not survive a restart")
	}

	db, m, err := repomanager.Open(ctx, c.DatabaseDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	logger.Info(ctx, "Database ready", "driver", m.Dialect().Driver)

	us := services.NewUserService(db, m, c)
	ds := services.NewDataService(db, m)

	hs := httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, us, ds, c.CORSAllowedOrigins, c.ShutdownTimeout)

	return &App{config: c, logger: logger, db: db, httpServer: hs}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled or a stop signal arrives, then closes the
// database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	err := app.httpServer.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr.Error())
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
