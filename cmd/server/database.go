package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/phrazzld/users-api/internal/config"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/platform/mongodb"
	"github.com/phrazzld/users-api/internal/platform/postgres"
	"github.com/phrazzld/users-api/internal/store"
)

// gateway bundles the user store for the configured database with its
// schema bootstrap and shutdown hooks.
type gateway struct {
	driver  string
	store   store.UserStore
	migrate func(ctx context.Context, command string, args ...string) error
	close   func(ctx context.Context) error
}

// driverFor returns the gateway driver named by the scheme of dbURL.
func driverFor(dbURL string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return "mongodb", nil
	case "postgres", "postgresql":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
}

// openGateway connects to the database named by cfg.URL.
func openGateway(ctx context.Context, cfg config.DatabaseConfig) (*gateway, error) {
	driver, err := driverFor(cfg.URL)
	if err != nil {
		return nil, err
	}

	if driver == "mongodb" {
		return openMongoGateway(ctx, cfg)
	}
	return openPostgresGateway(ctx, cfg)
}

func openMongoGateway(ctx context.Context, cfg config.DatabaseConfig) (*gateway, error) {
	client, db, err := mongodb.Connect(ctx, cfg.URL, cfg.Name)
	if err != nil {
		return nil, err
	}

	userStore := mongodb.NewMongoUserStore(db.Collection(mongodb.UsersCollection), logger.FromContext(ctx))

	return &gateway{
		driver: "mongodb",
		store:  userStore,
		migrate: func(ctx context.Context, command string, _ ...string) error {
			if command != "up" {
				return fmt.Errorf("migration command %q is not supported for mongodb", command)
			}
			return userStore.EnsureIndexes(ctx)
		},
		close: client.Disconnect,
	}, nil
}

func openPostgresGateway(ctx context.Context, cfg config.DatabaseConfig) (*gateway, error) {
	db, err := postgres.Open(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}

	return &gateway{
		driver: "postgres",
		store:  postgres.NewPostgresUserStore(db, logger.FromContext(ctx)),
		migrate: func(ctx context.Context, command string, args ...string) error {
			return postgres.Migrate(ctx, db, command, args...)
		},
		close: func(context.Context) error { return db.Close() },
	}, nil
}
