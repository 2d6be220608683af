package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/hbnb-api/internal/config"
	"github.com/phrazzld/hbnb-api/internal/store"
)

const dialect = "postgres"

// Options defines the configuration parameters for the PostgreSQL connection pool.
type Options struct {
	// URL is a postgres:// connection URL or a key=value DSN
	URL string
	// MaxOpenConnections is the maximum number of open connections to the database
	MaxOpenConnections int
	// MaxIdleConnections is the number of connections the pool keeps open when idle
	MaxIdleConnections int
	// ConnMaxLifetime is the maximum amount of time a connection may be reused
	ConnMaxLifetime time.Duration
}

// OptionsFromConfig converts the database section of the application config.
func OptionsFromConfig(cfg config.DatabaseConfig) Options {
	return Options{
		URL:                cfg.URL,
		MaxOpenConnections: cfg.MaxOpenConns,
		MaxIdleConnections: cfg.MaxIdleConns,
		ConnMaxLifetime:    time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
	}
}

// Builder abstracts the subset of goqu used to construct queries. Both a goqu
// database handle and a transaction handle implement it.
type Builder interface {
	From(table ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
	Delete(table interface{}) *goqu.DeleteDataset
}

// PgSQL implements store.Backend on PostgreSQL using database/sql and goqu.
type PgSQL struct {
	// DB is the *sql.DB wrapping Pool. Transactions begin here.
	DB *sql.DB
	// Builder is the goqu handle bound to DB.
	Builder Builder
	// Pool is the underlying pgx connection pool.
	Pool *pgxpool.Pool
}

var _ store.Backend = (*PgSQL)(nil)

// New creates a PostgreSQL backend backed by pgxpool and verifies the
// connection.
func New(ctx context.Context, options Options) (*PgSQL, error) {
	cfg, err := pgxpool.ParseConfig(options.URL)
	if err != nil {
		return nil, fmt.Errorf("could not parse pgxpool config: %w", err)
	}
	if options.MaxOpenConnections > 0 {
		cfg.MaxConns = int32(options.MaxOpenConnections) //nolint: gosec
	}
	if options.MaxIdleConnections > 0 {
		cfg.MinConns = int32(options.MaxIdleConnections) //nolint: gosec
	}
	if cfg.MinConns > cfg.MaxConns {
		cfg.MinConns = cfg.MaxConns
	}
	if options.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = options.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	// wrap the pool with a *sql.DB to keep compatibility with goqu and goose
	sqlDB := stdlib.OpenDBFromPool(pool)

	return &PgSQL{
		DB:      sqlDB,
		Builder: goqu.Dialect(dialect).DB(sqlDB),
		Pool:    pool,
	}, nil
}

// Stores returns stores that run each statement on its own connection.
func (p *PgSQL) Stores() store.Stores {
	return newStores(p.Builder)
}

// WithinTx runs fn in a database transaction. The stores passed to fn share
// the transaction; it is committed when fn returns nil.
func (p *PgSQL) WithinTx(ctx context.Context, fn store.StoresFn) error {
	return store.RunInTransaction(ctx, p.DB, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, newStores(goqu.NewTx(dialect, tx)))
	})
}

// Close closes the *sql.DB wrapper and the pgx pool.
func (p *PgSQL) Close() error {
	var err error
	if p.DB != nil {
		err = p.DB.Close()
	}
	if p.Pool != nil {
		p.Pool.Close()
	}
	return err
}

func newStores(b Builder) store.Stores {
	return store.Stores{
		Users:     &userStore{b: b},
		Amenities: &amenityStore{b: b},
		Places:    &placeStore{b: b},
		Reviews:   &reviewStore{b: b},
	}
}
