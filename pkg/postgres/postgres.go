package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/cfg"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const defaultMigrationsURL = "file://db/migrations"

// PgDatabase инкапсулирует подключение к PostgreSQL и управление миграциями.
type PgDatabase struct {
	Pool *pgxpool.Pool
	Dsn  string
	cfg  *cfg.PGDBCfg
}

func NewPgDatabase(pool *pgxpool.Pool, cfg *cfg.PGDBCfg, dsn string) *PgDatabase {
	return &PgDatabase{Pool: pool, cfg: cfg, Dsn: dsn}
}

// Connect устанавливает соединение с PostgreSQL.
func Connect(ctx context.Context, cfg *cfg.PGDBCfg) (*PgDatabase, error) {
	const op = "PgDatabase.Connect"
	dsn := cfg.DSN()

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, e.Wrap(op, err)
	}

	return NewPgDatabase(pool, cfg, dsn), nil
}

func (db *PgDatabase) Ping(ctx context.Context) error {
	const op = "PgDatabase.Ping"
	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Close закрывает пул; сигнатура подходит для closer.
func (db *PgDatabase) Close(_ context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	return nil
}

// RunMigrations применяет ожидающие миграции. Пустой sourceURL означает db/migrations.
// Грязная схема после упавшей миграции считается ошибкой: её чинят руками через migrate force.
func (db *PgDatabase) RunMigrations(sourceURL string, logger logger.Logger) error {
	const (
		op                 = "PgDatabase.RunMigrations"
		driverName         = "pgx"
		databaseDriverName = "postgres"
	)

	if sourceURL == "" {
		sourceURL = defaultMigrationsURL
	}

	sqlDb, err := sql.Open(driverName, db.Dsn)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer sqlDb.Close()

	driver, err := postgres.WithInstance(sqlDb, &postgres.Config{})
	if err != nil {
		return e.Wrap(op, err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, databaseDriverName, driver)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if srcErr, _ := m.Close(); srcErr != nil {
			logger.Warnf("%s: close migration source: %v", op, srcErr)
		}
	}()

	if version, dirty, err := m.Version(); err == nil && dirty {
		return e.Wrap(op, fmt.Errorf("schema version %d is dirty", version))
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return e.Wrap(op, err)
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return e.Wrap(op, err)
	}
	logger.Infof("%s: schema at version %d (%s)", op, version, sourceURL)
	return nil
}
