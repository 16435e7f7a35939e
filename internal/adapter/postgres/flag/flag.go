package flag

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainflag "github.com/komi0929/myprompt/internal/domain/flag"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context) ([]domainflag.Flag, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, enabled, description, updated_at FROM feature_flags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing feature flags: %w", err)
	}
	defer rows.Close()

	var flags []domainflag.Flag
	for rows.Next() {
		var f domainflag.Flag
		if err := rows.Scan(&f.Name, &f.Enabled, &f.Description, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning flag row: %w", err)
		}
		flags = append(flags, f)
	}
	return flags, rows.Err()
}

func (r *Repository) Get(ctx context.Context, name string) (domainflag.Flag, error) {
	var f domainflag.Flag
	err := r.pool.QueryRow(ctx,
		`SELECT name, enabled, description, updated_at FROM feature_flags WHERE name = $1`,
		name).Scan(&f.Name, &f.Enabled, &f.Description, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainflag.Flag{}, fmt.Errorf("feature flag %s not found", name)
		}
		return domainflag.Flag{}, fmt.Errorf("querying feature flag: %w", err)
	}
	return f, nil
}

func (r *Repository) Upsert(ctx context.Context, f domainflag.Flag) error {
	query := `
		INSERT INTO feature_flags (name, enabled, description, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (name) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			description = EXCLUDED.description,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query, f.Name, f.Enabled, f.Description)
	if err != nil {
		return fmt.Errorf("upserting feature flag: %w", err)
	}
	return nil
}
