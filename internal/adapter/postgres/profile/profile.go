package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainprofile "github.com/komi0929/myprompt/internal/domain/profile"
	portprofile "github.com/komi0929/myprompt/internal/port/profile"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Get(ctx context.Context, userID uuid.UUID) (domainprofile.Profile, error) {
	query := `SELECT user_id, display_name, avatar_url, created_at FROM profiles WHERE user_id = $1`

	var p domainprofile.Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.DisplayName, &p.AvatarURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainprofile.Profile{}, portprofile.ErrNotFound
		}
		return domainprofile.Profile{}, fmt.Errorf("querying profile: %w", err)
	}
	return p, nil
}

func (r *Repository) Upsert(ctx context.Context, p domainprofile.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, avatar_url, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url`

	_, err := r.pool.Exec(ctx, query, p.UserID, p.DisplayName, p.AvatarURL, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}
