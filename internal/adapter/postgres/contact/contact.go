package contact

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	domaincontact "github.com/komi0929/myprompt/internal/domain/contact"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, m domaincontact.Message) (domaincontact.Message, error) {
	query := `
		INSERT INTO contacts (id, name, email, body, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, body, status, created_at`

	var created domaincontact.Message
	err := r.pool.QueryRow(ctx, query,
		m.ID, m.Name, m.Email, m.Body, m.Status, m.CreatedAt,
	).Scan(&created.ID, &created.Name, &created.Email, &created.Body,
		&created.Status, &created.CreatedAt)
	if err != nil {
		return domaincontact.Message{}, fmt.Errorf("inserting contact message: %w", err)
	}
	return created, nil
}

func (r *Repository) List(ctx context.Context, status *domaincontact.Status) ([]domaincontact.Message, error) {
	query := `SELECT id, name, email, body, status, created_at FROM contacts`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	defer rows.Close()

	var messages []domaincontact.Message
	for rows.Next() {
		var m domaincontact.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.Status, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning contact row: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domaincontact.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE contacts SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("updating contact status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contact message %s not found", id)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting contact message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contact message %s not found", id)
	}
	return nil
}
