package changelog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	domainchangelog "github.com/komi0929/myprompt/internal/domain/changelog"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, e domainchangelog.Entry) (domainchangelog.Entry, error) {
	query := `
		INSERT INTO changelog (id, version, title, body, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, version, title, body, published_at, created_at`

	var created domainchangelog.Entry
	err := r.pool.QueryRow(ctx, query,
		e.ID, e.Version, e.Title, e.Body, e.PublishedAt, e.CreatedAt,
	).Scan(&created.ID, &created.Version, &created.Title, &created.Body,
		&created.PublishedAt, &created.CreatedAt)
	if err != nil {
		return domainchangelog.Entry{}, fmt.Errorf("inserting changelog entry: %w", err)
	}
	return created, nil
}

func (r *Repository) List(ctx context.Context) ([]domainchangelog.Entry, error) {
	query := `
		SELECT id, version, title, body, published_at, created_at
		FROM changelog ORDER BY published_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing changelog: %w", err)
	}
	defer rows.Close()

	var entries []domainchangelog.Entry
	for rows.Next() {
		var e domainchangelog.Entry
		if err := rows.Scan(&e.ID, &e.Version, &e.Title, &e.Body, &e.PublishedAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning changelog row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *Repository) Update(ctx context.Context, e domainchangelog.Entry) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE changelog SET version = $2, title = $3, body = $4, published_at = $5
		WHERE id = $1`,
		e.ID, e.Version, e.Title, e.Body, e.PublishedAt)
	if err != nil {
		return fmt.Errorf("updating changelog entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("changelog entry %s not found", e.ID)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM changelog WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting changelog entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("changelog entry %s not found", id)
	}
	return nil
}
