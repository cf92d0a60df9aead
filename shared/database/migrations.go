package database

import "embed"

// MigrationsFS содержит SQL-миграции схемы gameplay.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir - каталог миграций внутри MigrationsFS.
const MigrationsDir = "migrations"
