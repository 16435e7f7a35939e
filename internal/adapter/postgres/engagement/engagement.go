// Package engagement stores favorite and like rows. Like rows and the
// denormalized like_count on the prompt move in the same transaction, so the
// count always equals the row count.
package engagement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.listMarks(ctx, "favorites", userID)
}

func (r *Repository) ListLikes(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.listMarks(ctx, "likes", userID)
}

func (r *Repository) listMarks(ctx context.Context, table string, userID uuid.UUID) ([]uuid.UUID, error) {
	query := fmt.Sprintf(
		`SELECT prompt_id FROM %s WHERE user_id = $1 ORDER BY created_at`, table)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) AddFavorite(ctx context.Context, userID, promptID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO favorites (user_id, prompt_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, promptID)
	if err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}
	return nil
}

func (r *Repository) RemoveFavorite(ctx context.Context, userID, promptID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND prompt_id = $2`, userID, promptID)
	if err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}
	return nil
}

// AddLike inserts the like row and bumps like_count only when the row is new,
// so double submissions cannot inflate the counter.
func (r *Repository) AddLike(ctx context.Context, userID, promptID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning like tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO likes (user_id, prompt_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, promptID)
	if err != nil {
		return fmt.Errorf("inserting like: %w", err)
	}
	if tag.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE prompts SET like_count = like_count + 1 WHERE id = $1`, promptID); err != nil {
			return fmt.Errorf("incrementing like count: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *Repository) RemoveLike(ctx context.Context, userID, promptID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning unlike tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND prompt_id = $2`, userID, promptID)
	if err != nil {
		return fmt.Errorf("deleting like: %w", err)
	}
	if tag.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE prompts SET like_count = GREATEST(like_count - 1, 0)
			WHERE id = $1`, promptID); err != nil {
			return fmt.Errorf("decrementing like count: %w", err)
		}
	}
	return tx.Commit(ctx)
}
