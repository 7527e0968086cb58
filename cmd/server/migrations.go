package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/users-api/internal/config"
)

// runMigrations applies command to the configured database. For MongoDB only
// "up" is meaningful; it creates the collection indexes.
func runMigrations(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	command string,
	args ...string,
) error {
	gw, err := openGateway(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := gw.close(context.Background()); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	log.Info("running migrations", "driver", gw.driver, "command", command)

	if err := gw.migrate(ctx, command, args...); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migrations finished", "driver", gw.driver, "command", command)
	return nil
}
