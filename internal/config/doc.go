// Package config loads and validates application settings from environment
// variables and an optional config file. Environment variables use the USERS_
// prefix; the conventional MONGODB_URI, DATABASE_URL and PORT variables are
// honoured as well.
package config
