package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
)

type SettingsRepo struct{ *Repo }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{NewRepo(db)} }

// Get returns the stored value, or "" when the key was never set.
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	sqlStr, args, _ := r.SQ.Select("value").From("settings").Where(sq.Eq{"key": key}).ToSql()
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	sqlStr, args, _ := r.SQ.Insert("settings").Columns("key", "value").Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}
