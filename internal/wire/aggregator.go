package wire

import (
	"context"
	"log/slog"
	"time"
)

// workspaceGaugeInterval is how often the resident-store gauge is refreshed.
const workspaceGaugeInterval = 30 * time.Second

// startAggregator runs the daily KPI rollup. It fires once immediately for
// yesterday, so a restart never leaves a gap, then at the configured hour
// every day. The advisory lock inside the service keeps concurrent replicas
// from double-counting.
//
// It also keeps the active-workspace gauge current.
func startAggregator(ctx context.Context, app *App) {
	hour := app.Config.Analytics.AggregateHourUTC

	runOnce := func() {
		day := time.Now().UTC().AddDate(0, 0, -1)
		kpi, err := app.AnalyticsSvc.AggregateDay(ctx, day)
		if err != nil {
			slog.Error("kpi aggregation failed", "date", day.Format("2006-01-02"), "error", err)
			return
		}
		slog.Info("kpi aggregated",
			"date", kpi.Date.Format("2006-01-02"),
			"active_users", kpi.ActiveUsers,
			"prompts_created", kpi.PromptsCreated)
	}

	go func() {
		runOnce()
		for {
			next := nextRunAt(time.Now().UTC(), hour)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Until(next)):
				runOnce()
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(workspaceGaugeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				app.Metrics.SetActiveWorkspaces(app.Manager.Len())
			}
		}
	}()
}

// nextRunAt returns the next occurrence of the given UTC hour strictly after
// now.
func nextRunAt(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
