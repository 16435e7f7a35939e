package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
)

const promptColumns = `p.id, p.author_id, p.title, p.content, p.notes, p.tags,
	p.phase, p.visibility, p.like_count, p.use_count, p.is_pinned, p.rating,
	p.is_original, p.parent_id, p.folder_id,
	COALESCE(pr.display_name, ''), COALESCE(pr.avatar_url, ''),
	p.updated_at, p.created_at, p.last_used_at`

const promptJoin = ` FROM prompts p LEFT JOIN profiles pr ON pr.user_id = p.author_id`

// Repository implements port/prompt.Repository using Postgres. Author name
// and avatar are denormalized from profiles at read time.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p domainprompt.Prompt) (domainprompt.Prompt, error) {
	query := `
		INSERT INTO prompts (id, author_id, title, content, notes, tags,
			phase, visibility, like_count, use_count, is_pinned, rating,
			is_original, parent_id, folder_id, updated_at, created_at, last_used_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.AuthorID, p.Title, p.Content, p.Notes, p.Tags,
		p.Phase, p.Visibility, p.LikeCount, p.UseCount, p.IsPinned, p.Rating,
		p.IsOriginal, p.ParentID, p.FolderID, p.UpdatedAt, p.CreatedAt, p.LastUsedAt,
	)
	if err != nil {
		return domainprompt.Prompt{}, fmt.Errorf("inserting prompt: %w", err)
	}
	return r.get(ctx, p.ID)
}

func (r *Repository) get(ctx context.Context, id uuid.UUID) (domainprompt.Prompt, error) {
	query := `SELECT ` + promptColumns + promptJoin + ` WHERE p.id = $1`
	p, err := scanPrompt(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainprompt.Prompt{}, fmt.Errorf("prompt %s not found", id)
		}
		return domainprompt.Prompt{}, fmt.Errorf("querying prompt: %w", err)
	}
	return p, nil
}

// GetVisible fetches one prompt, enforcing visibility in the WHERE clause so
// a private prompt is indistinguishable from a missing one.
func (r *Repository) GetVisible(ctx context.Context, id, viewerID uuid.UUID) (domainprompt.Prompt, error) {
	query := `SELECT ` + promptColumns + promptJoin + `
		WHERE p.id = $1 AND (p.visibility = 'public' OR p.author_id = $2)`

	p, err := scanPrompt(r.pool.QueryRow(ctx, query, id, viewerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainprompt.Prompt{}, fmt.Errorf("prompt %s not found", id)
		}
		return domainprompt.Prompt{}, fmt.Errorf("querying prompt: %w", err)
	}
	return p, nil
}

// ListVisible returns the user's hydration set: prompts they authored plus
// public prompts. A favorite row on its own grants nothing; if the author
// flips a favorited prompt private it drops out of everyone else's set.
func (r *Repository) ListVisible(ctx context.Context, userID uuid.UUID) ([]domainprompt.Prompt, error) {
	query := `SELECT ` + promptColumns + promptJoin + `
		WHERE p.author_id = $1
		   OR p.visibility = 'public'
		ORDER BY p.updated_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing visible prompts: %w", err)
	}
	defer rows.Close()
	return collectPrompts(rows)
}

func (r *Repository) ListPublic(ctx context.Context, filters domainprompt.ListFilters) ([]domainprompt.Prompt, error) {
	query := `SELECT ` + promptColumns + promptJoin + ` WHERE p.visibility = 'public'`

	args := []interface{}{}
	argIdx := 1

	if filters.AuthorID != nil {
		query += fmt.Sprintf(" AND p.author_id = $%d", argIdx)
		args = append(args, *filters.AuthorID)
		argIdx++
	}
	if filters.Phase != nil {
		query += fmt.Sprintf(" AND p.phase = $%d", argIdx)
		args = append(args, string(*filters.Phase))
		argIdx++
	}
	if filters.Search != "" {
		query += fmt.Sprintf(" AND (p.title ILIKE $%d OR p.content ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filters.Search+"%")
		argIdx++
	}

	query += " ORDER BY p.updated_at DESC"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filters.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing public prompts: %w", err)
	}
	defer rows.Close()
	return collectPrompts(rows)
}

// Update is owner-scoped: the WHERE clause carries both id and author_id, so
// an update can never land on someone else's prompt.
func (r *Repository) Update(ctx context.Context, id, ownerID uuid.UUID, p domainprompt.Prompt) error {
	query := `
		UPDATE prompts SET title = $3, content = $4, notes = $5, tags = $6,
			phase = $7, visibility = $8, rating = $9, updated_at = $10
		WHERE id = $1 AND author_id = $2`

	tag, err := r.pool.Exec(ctx, query,
		id, ownerID, p.Title, p.Content, p.Notes, p.Tags,
		p.Phase, p.Visibility, p.Rating, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("prompt %s not found for owner", id)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prompts WHERE id = $1 AND author_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("prompt %s not found for owner", id)
	}
	return nil
}

func (r *Repository) SetPinned(ctx context.Context, id, ownerID uuid.UUID, pinned bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE prompts SET is_pinned = $3 WHERE id = $1 AND author_id = $2`,
		id, ownerID, pinned,
	)
	if err != nil {
		return fmt.Errorf("setting pin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("prompt %s not found for owner", id)
	}
	return nil
}

func (r *Repository) SetFolder(ctx context.Context, id, ownerID uuid.UUID, folderID *uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE prompts SET folder_id = $3 WHERE id = $1 AND author_id = $2`,
		id, ownerID, folderID,
	)
	if err != nil {
		return fmt.Errorf("setting folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("prompt %s not found for owner", id)
	}
	return nil
}

// IncrementUseCount bumps the counter and stamps last_used_at in one
// statement. Deliberately not owner-scoped: any viewer copying the prompt
// counts as a use.
func (r *Repository) IncrementUseCount(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE prompts SET use_count = use_count + 1, last_used_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("incrementing use count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("prompt %s not found", id)
	}
	return nil
}

func scanPrompt(row pgx.Row) (domainprompt.Prompt, error) {
	var p domainprompt.Prompt
	err := row.Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.Notes, &p.Tags,
		&p.Phase, &p.Visibility, &p.LikeCount, &p.UseCount, &p.IsPinned, &p.Rating,
		&p.IsOriginal, &p.ParentID, &p.FolderID,
		&p.AuthorName, &p.AuthorAvatarURL,
		&p.UpdatedAt, &p.CreatedAt, &p.LastUsedAt,
	)
	return p, err
}

func collectPrompts(rows pgx.Rows) ([]domainprompt.Prompt, error) {
	var prompts []domainprompt.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning prompt row: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}
