package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	domainanalytics "github.com/komi0929/myprompt/internal/domain/analytics"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) InsertEvent(ctx context.Context, e domainanalytics.Event) error {
	query := `
		INSERT INTO analytics_events (id, user_id, name, session_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, e.ID, e.UserID, e.Name, e.SessionID, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting analytics event: %w", err)
	}
	return nil
}

// AggregateDailyKPI folds one day of raw events into the daily_kpi row in a
// single statement. The upsert makes re-running a day idempotent.
func (r *Repository) AggregateDailyKPI(ctx context.Context, date time.Time) (domainanalytics.DailyKPI, error) {
	day := date.UTC().Truncate(24 * time.Hour)

	query := `
		INSERT INTO daily_kpi (date, active_users, prompts_created, prompts_copied, likes, signups)
		SELECT $1::date,
		       COUNT(DISTINCT user_id) FILTER (WHERE user_id IS NOT NULL),
		       COUNT(*) FILTER (WHERE name = 'prompt_created'),
		       COUNT(*) FILTER (WHERE name = 'prompt_copied'),
		       COUNT(*) FILTER (WHERE name = 'prompt_liked'),
		       COUNT(*) FILTER (WHERE name = 'signup')
		FROM analytics_events
		WHERE created_at >= $1 AND created_at < $1 + INTERVAL '1 day'
		ON CONFLICT (date) DO UPDATE SET
			active_users = EXCLUDED.active_users,
			prompts_created = EXCLUDED.prompts_created,
			prompts_copied = EXCLUDED.prompts_copied,
			likes = EXCLUDED.likes,
			signups = EXCLUDED.signups
		RETURNING date, active_users, prompts_created, prompts_copied, likes, signups`

	var kpi domainanalytics.DailyKPI
	err := r.pool.QueryRow(ctx, query, day).Scan(
		&kpi.Date, &kpi.ActiveUsers, &kpi.PromptsCreated, &kpi.PromptsCopied,
		&kpi.Likes, &kpi.Signups)
	if err != nil {
		return domainanalytics.DailyKPI{}, fmt.Errorf("aggregating daily kpi: %w", err)
	}
	return kpi, nil
}

func (r *Repository) ListKPI(ctx context.Context, from, to time.Time) ([]domainanalytics.DailyKPI, error) {
	query := `
		SELECT date, active_users, prompts_created, prompts_copied, likes, signups
		FROM daily_kpi WHERE date >= $1 AND date <= $2
		ORDER BY date`

	rows, err := r.pool.Query(ctx, query, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("listing daily kpi: %w", err)
	}
	defer rows.Close()

	var kpis []domainanalytics.DailyKPI
	for rows.Next() {
		var kpi domainanalytics.DailyKPI
		if err := rows.Scan(&kpi.Date, &kpi.ActiveUsers, &kpi.PromptsCreated,
			&kpi.PromptsCopied, &kpi.Likes, &kpi.Signups); err != nil {
			return nil, fmt.Errorf("scanning kpi row: %w", err)
		}
		kpis = append(kpis, kpi)
	}
	return kpis, rows.Err()
}
