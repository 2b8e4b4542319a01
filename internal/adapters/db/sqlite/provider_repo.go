package sqlite

import (
	"context"
	"database/sql"
	"time"

	"emailgen/internal/domain"

	sq "github.com/Masterminds/squirrel"
)

type ProviderRepo struct{ *Repo }

func NewProviderRepo(db *sql.DB) *ProviderRepo { return &ProviderRepo{NewRepo(db)} }

var providerColumns = []string{"id", "type", "name", "base_url", "model", "api_key", "temperature", "max_tokens", "timeout_seconds", "created_at", "updated_at"}

func (r *ProviderRepo) Create(ctx context.Context, p *domain.Provider) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Insert("providers").Columns("type", "name", "base_url", "model", "api_key", "temperature", "max_tokens", "timeout_seconds", "created_at", "updated_at").
		Values(p.Type, p.Name, p.BaseURL, p.Model, p.APIKey, p.Temperature, p.MaxTokens, p.TimeoutSeconds, now, now)
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	p.ID = id
	p.CreatedAt, _ = time.Parse(time.RFC3339, now)
	p.UpdatedAt = p.CreatedAt
	return nil
}

func (r *ProviderRepo) Update(ctx context.Context, p *domain.Provider) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Update("providers").
		Set("type", p.Type).Set("name", p.Name).Set("base_url", p.BaseURL).Set("model", p.Model).Set("api_key", p.APIKey).
		Set("temperature", p.Temperature).Set("max_tokens", p.MaxTokens).Set("timeout_seconds", p.TimeoutSeconds).Set("updated_at", now).
		Where(sq.Eq{"id": p.ID})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ProviderRepo) Get(ctx context.Context, id int64) (*domain.Provider, error) {
	q := r.SQ.Select(providerColumns...).From("providers").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	return scanProvider(r.DB.QueryRowContext(ctx, sqlStr, args...))
}

func (r *ProviderRepo) List(ctx context.Context) ([]*domain.Provider, error) {
	q := r.SQ.Select(providerColumns...).From("providers").OrderBy("id DESC")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete returns sql.ErrNoRows when no provider has the given id.
func (r *ProviderRepo) Delete(ctx context.Context, id int64) error {
	q := r.SQ.Delete("providers").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanProvider(row rowScanner) (*domain.Provider, error) {
	var p domain.Provider
	var created, updated string
	if err := row.Scan(&p.ID, &p.Type, &p.Name, &p.BaseURL, &p.Model, &p.APIKey, &p.Temperature, &p.MaxTokens, &p.TimeoutSeconds, &created, &updated); err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &p, nil
}
