package analytics

import (
	"context"
	"time"

	domainanalytics "github.com/komi0929/myprompt/internal/domain/analytics"
)

type Repository interface {
	InsertEvent(ctx context.Context, e domainanalytics.Event) error

	// AggregateDailyKPI computes the KPI row for the target date from raw
	// events in one server-side statement and upserts it, so re-running a day
	// is idempotent.
	AggregateDailyKPI(ctx context.Context, date time.Time) (domainanalytics.DailyKPI, error)

	ListKPI(ctx context.Context, from, to time.Time) ([]domainanalytics.DailyKPI, error)
}
