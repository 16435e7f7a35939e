package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	domainhistory "github.com/komi0929/myprompt/internal/domain/history"
)

// Repository is append-only; rows are removed only by the prompt's cascade.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Append(ctx context.Context, e domainhistory.Entry) error {
	query := `
		INSERT INTO prompt_history (id, prompt_id, title, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, e.ID, e.PromptID, e.Title, e.Content, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending history entry: %w", err)
	}
	return nil
}

func (r *Repository) ListForPrompt(ctx context.Context, promptID uuid.UUID) ([]domainhistory.Entry, error) {
	query := `
		SELECT id, prompt_id, title, content, created_at
		FROM prompt_history WHERE prompt_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, promptID)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []domainhistory.Entry
	for rows.Next() {
		var e domainhistory.Entry
		if err := rows.Scan(&e.ID, &e.PromptID, &e.Title, &e.Content, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
