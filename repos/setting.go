package repos

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type Setting struct {
	Name      string
	Value     string
	UpdatedAt time.Time
}

func (r *Repo) GetSetting(ctx context.Context, name string) (*Setting, error) {
	var s Setting
	err := r.db.QueryRow(ctx, `
		SELECT name, value, updated_at
		FROM settings
		WHERE name = $1
	`, name).Scan(&s.Name, &s.Value, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) SetSetting(ctx context.Context, name string, value string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO settings (name, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = EXCLUDED.updated_at
	`, name, value)
	return err
}
