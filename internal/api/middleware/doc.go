// Package middleware holds the HTTP middleware shared by every route:
// trace IDs with request-scoped loggers, request logging and panic recovery.
package middleware
