package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainfeedback "github.com/komi0929/myprompt/internal/domain/feedback"
)

const feedbackColumns = `id, user_id, category, body, screenshot_url, status, like_count, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, f domainfeedback.Feedback) (domainfeedback.Feedback, error) {
	query := `
		INSERT INTO feedback (id, user_id, category, body, screenshot_url, status, like_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + feedbackColumns

	created, err := scanFeedback(r.pool.QueryRow(ctx, query,
		f.ID, f.UserID, f.Category, f.Body, f.ScreenshotURL, f.Status,
		f.LikeCount, f.CreatedAt, f.UpdatedAt))
	if err != nil {
		return domainfeedback.Feedback{}, fmt.Errorf("inserting feedback: %w", err)
	}
	return created, nil
}

func (r *Repository) List(ctx context.Context, status *domainfeedback.Status) ([]domainfeedback.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()

	var items []domainfeedback.Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domainfeedback.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE feedback SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("updating feedback status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("feedback %s not found", id)
	}
	return nil
}

// IncrementLike inserts the per-session dedup row and bumps the counter in a
// single statement. A session that already voted gets false, not an error.
func (r *Repository) IncrementLike(ctx context.Context, id uuid.UUID, sessionID string) (bool, error) {
	query := `
		WITH vote AS (
			INSERT INTO feedback_likes (feedback_id, session_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
			RETURNING feedback_id
		)
		UPDATE feedback SET like_count = like_count + 1, updated_at = NOW()
		WHERE id IN (SELECT feedback_id FROM vote)
		RETURNING like_count`

	var likeCount int
	err := r.pool.QueryRow(ctx, query, id, sessionID).Scan(&likeCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("incrementing feedback like: %w", err)
	}
	return true, nil
}

func scanFeedback(row pgx.Row) (domainfeedback.Feedback, error) {
	var f domainfeedback.Feedback
	err := row.Scan(&f.ID, &f.UserID, &f.Category, &f.Body, &f.ScreenshotURL,
		&f.Status, &f.LikeCount, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}
