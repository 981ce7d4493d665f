package repos

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

var ErrNotFound = pgx.ErrNoRows

func Connect(ctx context.Context, databaseURL string) (*Repo, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	config.ConnConfig.Tracer = &tracer{}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	return &Repo{db: db}, nil
}

func (r *Repo) Close() {
	r.db.Close()
}

// EnsureSchema creates the tables this package reads and writes.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS settings
		(
			name       TEXT PRIMARY KEY,
			value      TEXT        NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}
