package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/phrazzld/users-api/internal/config"
	"github.com/phrazzld/users-api/internal/service"
)

// application holds the running server's dependencies.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	gateway *gateway
}

// newApplication connects to the database and bootstraps its schema when
// auto-migration is enabled. Any failure here is fatal to startup.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	gw, err := openGateway(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	app := &application{config: cfg, logger: logger, gateway: gw}

	if cfg.Database.AutoMigrate {
		logger.Info("applying schema", "driver", gw.driver)
		if err := gw.migrate(ctx, "up"); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return app, nil
}

// Run serves HTTP on the configured port until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	userService := service.NewUserService(app.gateway.store, app.logger)
	handler := newRouter(userService, app.logger)

	addr := fmt.Sprintf(":%d", app.config.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	timeout := time.Duration(app.config.Server.ShutdownTimeoutSeconds) * time.Second
	return serve(ctx, ln, handler, timeout, app.logger)
}

// cleanup releases the database connection.
func (app *application) cleanup() {
	if app.gateway == nil {
		return
	}
	if err := app.gateway.close(context.Background()); err != nil {
		app.logger.Error("failed to close database", "error", err)
		return
	}
	app.logger.Info("database connection closed", "driver", app.gateway.driver)
}
