// Package postgres implements the store.UserStore gateway on PostgreSQL using
// the pgx driver through database/sql. It owns the users schema, shipped as
// embedded goose migrations, and translates PostgreSQL error codes into the
// sentinel errors of the store package.
package postgres
