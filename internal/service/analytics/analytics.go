package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainanalytics "github.com/komi0929/myprompt/internal/domain/analytics"
	portanalytics "github.com/komi0929/myprompt/internal/port/analytics"
	portlocker "github.com/komi0929/myprompt/internal/port/locker"
)

// aggregationLockKey serialises the daily KPI job across server instances.
const aggregationLockKey = 7201

type Service struct {
	repo   portanalytics.Repository
	locker portlocker.AdvisoryLocker
}

func NewService(repo portanalytics.Repository, locker portlocker.AdvisoryLocker) *Service {
	return &Service{repo: repo, locker: locker}
}

// Track ingests one client event. Event names are free-form; the KPI
// aggregation picks out the ones it knows.
func (s *Service) Track(ctx context.Context, userID *uuid.UUID, name, sessionID string) error {
	if name == "" {
		return fmt.Errorf("event name is required")
	}
	if err := s.repo.InsertEvent(ctx, domainanalytics.NewEvent(userID, name, sessionID)); err != nil {
		return fmt.Errorf("track event: %w", err)
	}
	return nil
}

// AggregateDay recomputes one day's KPI row under an advisory lock, so
// overlapping runs from multiple instances cannot interleave.
func (s *Service) AggregateDay(ctx context.Context, date time.Time) (domainanalytics.DailyKPI, error) {
	var kpi domainanalytics.DailyKPI
	err := s.locker.WithLock(ctx, aggregationLockKey, func(ctx context.Context) error {
		var err error
		kpi, err = s.repo.AggregateDailyKPI(ctx, date)
		return err
	})
	if err != nil {
		return domainanalytics.DailyKPI{}, fmt.Errorf("aggregate daily kpi: %w", err)
	}
	return kpi, nil
}

func (s *Service) ListKPI(ctx context.Context, from, to time.Time) ([]domainanalytics.DailyKPI, error) {
	kpis, err := s.repo.ListKPI(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list daily kpi: %w", err)
	}
	return kpis, nil
}
