package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/users-api/internal/config"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/urfave/cli/v2"
)

const configFlag = "config"

// newCLI builds the command-line interface. Serving is the default action.
func newCLI() *cli.App {
	return &cli.App{
		Name:  "users-api",
		Usage: "JSON HTTP service for user records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "Optional config file (YAML, TOML or JSON)",
				EnvVars: []string{"USERS_CONFIG_FILE"},
			},
		},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server (default)",
				Action: serveAction,
			},
			{
				Name:      "migrate",
				Usage:     "Run schema migrations against the configured database",
				ArgsUsage: "<up|down|status|version|reset> [args...]",
				Action:    migrateAction,
			},
		},
	}
}

// bootstrap loads configuration and installs the configured logger in ctx.
func bootstrap(c *cli.Context) (context.Context, *config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.String(configFlag))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"auto_migrate", cfg.Database.AutoMigrate)

	return logger.WithLogger(c.Context, log), cfg, log, nil
}

func serveAction(c *cli.Context) error {
	ctx, cfg, log, err := bootstrap(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.Run(ctx)
}

func migrateAction(c *cli.Context) error {
	ctx, cfg, log, err := bootstrap(c)
	if err != nil {
		return err
	}

	command := c.Args().First()
	if command == "" {
		command = "up"
	}

	return runMigrations(ctx, cfg, log, command, c.Args().Tail()...)
}
