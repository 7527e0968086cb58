package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/users-api/internal/platform/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// DatabaseName returns the database named in the path of uri, or fallback
// when the uri does not name one.
func DatabaseName(uri, fallback string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("invalid mongodb connection string: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	return fallback, nil
}

// hosts returns the host list of uri for logging. Credentials are not included.
func hosts(uri string) string {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return ""
	}
	return strings.Join(cs.Hosts, ",")
}

// Connect opens a client to uri, verifies the primary is reachable and returns
// the client together with the database named by the uri (or fallbackDB).
// The caller owns the client and must Disconnect it.
func Connect(ctx context.Context, uri, fallbackDB string) (*mongo.Client, *mongo.Database, error) {
	log := logger.FromContext(ctx)

	dbName, err := DatabaseName(uri, fallbackDB)
	if err != nil {
		return nil, nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, pingTimeout)
	defer cancelPing()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		if derr := client.Disconnect(context.Background()); derr != nil {
			log.Warn("failed to disconnect after ping failure", slog.String("error", derr.Error()))
		}
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info("database connection established",
		slog.String("driver", "mongodb"),
		slog.String("host", hosts(uri)),
		slog.String("database", dbName))

	return client, client.Database(dbName), nil
}
