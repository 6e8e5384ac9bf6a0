// Package store keeps the records shared by every viewer (settings, wallets
// and winners) in the hosted Postgres database and relays its change
// notifications.
package store

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrDuplicateKey = errors.New("duplicate key")

//go:embed migrations/*.sql
var migrations embed.FS

// Pool wraps pgxpool.Pool for dependency injection.
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new Postgres connection pool.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "parse postgres dsn")
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "connect to postgres")
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, pkgerrors.Wrap(err, "ping postgres")
	}

	return &Pool{Pool: pool}, nil
}

// Migrate applies the embedded schema in file name order. Every statement is
// idempotent, so it is safe to run on each start.
func (p *Pool) Migrate(ctx context.Context) error {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return pkgerrors.Wrap(err, "list migrations")
	}
	sort.Strings(files)

	for _, file := range files {
		sql, err := migrations.ReadFile(file)
		if err != nil {
			return pkgerrors.Wrapf(err, "read migration %s", file)
		}
		if _, err := p.Exec(ctx, string(sql)); err != nil {
			return pkgerrors.Wrapf(err, "apply migration %s", file)
		}
		logrus.Debugf("Applied migration %s", file)
	}
	return nil
}

// PostgreSQL error codes
const (
	pgErrUniqueViolation = "23505" // unique_violation
)

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}
	return false
}

func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
