// Package main implements the users-api server: a JSON HTTP service exposing
// CRUD operations on a single user resource backed by PostgreSQL or MongoDB.
package main

import (
	"log/slog"
	"os"

	"github.com/phrazzld/users-api/internal/redact"
)

// main is the entry point for the users-api server.
func main() {
	if err := newCLI().Run(os.Args); err != nil {
		slog.Error("users-api failed", "error", redact.Error(err))
		os.Exit(1)
	}
}
