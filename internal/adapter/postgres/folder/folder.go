package folder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	domainfolder "github.com/komi0929/myprompt/internal/domain/folder"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, f domainfolder.Folder) (domainfolder.Folder, error) {
	query := `
		INSERT INTO folders (id, user_id, name, color, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, name, color, sort_order, created_at`

	var created domainfolder.Folder
	err := r.pool.QueryRow(ctx, query,
		f.ID, f.UserID, f.Name, f.Color, f.SortOrder, f.CreatedAt,
	).Scan(&created.ID, &created.UserID, &created.Name, &created.Color,
		&created.SortOrder, &created.CreatedAt)
	if err != nil {
		return domainfolder.Folder{}, fmt.Errorf("inserting folder: %w", err)
	}
	return created, nil
}

func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domainfolder.Folder, error) {
	query := `
		SELECT id, user_id, name, color, sort_order, created_at
		FROM folders WHERE user_id = $1
		ORDER BY sort_order, created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	defer rows.Close()

	var folders []domainfolder.Folder
	for rows.Next() {
		var f domainfolder.Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Color, &f.SortOrder, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning folder row: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (r *Repository) Rename(ctx context.Context, id, userID uuid.UUID, name string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE folders SET name = $3 WHERE id = $1 AND user_id = $2`, id, userID, name)
	if err != nil {
		return fmt.Errorf("renaming folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("folder %s not found for owner", id)
	}
	return nil
}

// Delete detaches member prompts before removing the folder row, in one
// transaction. Prompts always survive their folder.
func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning folder delete tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE prompts SET folder_id = NULL
		WHERE folder_id = $1 AND author_id = $2`, id, userID); err != nil {
		return fmt.Errorf("detaching folder prompts: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM folders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("folder %s not found for owner", id)
	}
	return tx.Commit(ctx)
}
