package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-optima/internal/db/migrations"
	"github.com/noah-isme/backend-optima/internal/lock"
)

const migrateLockKey = "migrate"

// Migrator applies the embedded schema migrations.
type Migrator struct {
	DatabaseURL string
	Locker      *lock.Locker
	LockTTL     time.Duration
	Logger      zerolog.Logger
}

// Up applies pending migrations. With a Locker only one process migrates at a time.
func (m Migrator) Up(ctx context.Context) error {
	if m.Locker == nil {
		return m.up()
	}
	return m.Locker.WithLock(ctx, migrateLockKey, m.LockTTL, func(context.Context) error {
		return m.up()
	})
}

func (m Migrator) up() error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	mg, err := migrate.NewWithSourceInstance("iofs", src, MigrateURL(m.DatabaseURL))
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := mg.Close()
		if srcErr != nil || dbErr != nil {
			m.Logger.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("close migrate")
		}
	}()

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	m.Logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
	return nil
}

// MigrateURL rewrites a postgres URL to the scheme registered by the pgx/v5 driver.
func MigrateURL(databaseURL string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}
