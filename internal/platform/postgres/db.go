package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/users-api/internal/platform/logger"
)

const pingTimeout = 5 * time.Second

// host returns the server host named by url for logging.
func host(url string) string {
	cfg, err := pgx.ParseConfig(url)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// Open establishes a connection pool to the database at url and verifies it
// with a ping.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	log := logger.FromContext(ctx)

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if cerr := db.Close(); cerr != nil {
			log.Warn("failed to close database after ping failure", slog.String("error", cerr.Error()))
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established",
		slog.String("driver", "pgx"),
		slog.String("host", host(url)))
	return db, nil
}
