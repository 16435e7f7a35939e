// Package idempotency replays stored results for retried mutations. Clients
// retry optimistic writes after connectivity blips; the stored result keeps a
// retry from double-applying.
package idempotency

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Check looks up an existing idempotency key for one user. The key is scoped
// to the user who stored it, so a replay can only ever serve a caller their
// own captured response.
func (r *Repository) Check(ctx context.Context, key string, userID uuid.UUID) ([]byte, bool, error) {
	query := `SELECT result_jsonb FROM processed_operations WHERE idempotency_key = $1 AND user_id = $2`

	var result []byte
	err := r.pool.QueryRow(ctx, query, key, userID).Scan(&result)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("checking idempotency key: %w", err)
	}
	return result, true, nil
}

// Store records a processed operation keyed by the idempotency key.
func (r *Repository) Store(ctx context.Context, key string, userID uuid.UUID, opType string, resultJSON []byte) error {
	query := `
		INSERT INTO processed_operations (idempotency_key, user_id, operation_type, result_jsonb, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (idempotency_key, user_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, key, userID, opType, resultJSON)
	if err != nil {
		return fmt.Errorf("storing idempotency key: %w", err)
	}
	return nil
}
