package migration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

// Config содержит настройки для миграций
type Config struct {
	MigrationsPath  string
	MigrationsFS    fs.FS
	MigrationsTable string        // по умолчанию schema_migrations
	LockTimeout     time.Duration // по умолчанию 30s
}

// Migrator применяет встроенные SQL-миграции к базе через пул pgx.
type Migrator struct {
	config Config
	pool   *pgxpool.Pool
	log    zerolog.Logger
}

// NewMigrator создает новый экземпляр Migrator
func NewMigrator(config Config, pool *pgxpool.Pool, log zerolog.Logger) *Migrator {
	if config.MigrationsTable == "" {
		config.MigrationsTable = "schema_migrations"
	}
	if config.LockTimeout == 0 {
		config.LockTimeout = 30 * time.Second
	}
	return &Migrator{
		config: config,
		pool:   pool,
		log:    log.With().Str("component", "migrator").Logger(),
	}
}

// Up применяет все доступные миграции
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, "up", func(mg *migrate.Migrate) error { return mg.Up() })
}

// Down откатывает все миграции
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, "down", func(mg *migrate.Migrate) error { return mg.Down() })
}

// Version возвращает текущую версию миграции
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	mg, err := m.newMigrate(ctx)
	if err != nil {
		return 0, false, err
	}
	defer closeMigrate(mg, m.log)

	version, dirty, err := mg.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) run(ctx context.Context, direction string, step func(*migrate.Migrate) error) error {
	mg, err := m.newMigrate(ctx)
	if err != nil {
		return err
	}
	defer closeMigrate(mg, m.log)

	start := time.Now()
	if err := step(mg); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info().Str("direction", direction).Msg("database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations (%s): %w", direction, err)
	}

	version, dirty, _ := mg.Version()
	m.log.Info().
		Str("direction", direction).
		Uint("version", version).
		Bool("dirty", dirty).
		Dur("took", time.Since(start)).
		Msg("database migrations applied successfully")
	return nil
}

// newMigrate создает экземпляр migrate.Migrate поверх пула pgx.
func (m *Migrator) newMigrate(ctx context.Context) (*migrate.Migrate, error) {
	if err := m.pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database is not reachable: %w", err)
	}

	db := stdlib.OpenDBFromPool(m.pool)
	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable:       m.config.MigrationsTable,
		MigrationsTableQuoted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(m.config.MigrationsFS, m.config.MigrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	mg.LockTimeout = m.config.LockTimeout
	return mg, nil
}

func closeMigrate(mg *migrate.Migrate, log zerolog.Logger) {
	srcErr, dbErr := mg.Close()
	if srcErr != nil {
		log.Warn().Err(srcErr).Msg("failed to close migration source")
	}
	if dbErr != nil {
		log.Warn().Err(dbErr).Msg("failed to close migration database")
	}
}
