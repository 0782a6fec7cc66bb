// Package db holds the SQL migrations for the snapshot store.
package db

import "embed"

// Migrations is the goose migration set, rooted at "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that goose reads.
const MigrationsDir = "migrations"
