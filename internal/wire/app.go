package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	memorycache "github.com/komi0929/myprompt/internal/adapter/memory"
	pgdb "github.com/komi0929/myprompt/internal/adapter/postgres"
	pganalytics "github.com/komi0929/myprompt/internal/adapter/postgres/analytics"
	pgchangelog "github.com/komi0929/myprompt/internal/adapter/postgres/changelog"
	pgcontact "github.com/komi0929/myprompt/internal/adapter/postgres/contact"
	pgengagement "github.com/komi0929/myprompt/internal/adapter/postgres/engagement"
	pgeventbus "github.com/komi0929/myprompt/internal/adapter/postgres/eventbus"
	pgfeedback "github.com/komi0929/myprompt/internal/adapter/postgres/feedback"
	pgflag "github.com/komi0929/myprompt/internal/adapter/postgres/flag"
	pgfolder "github.com/komi0929/myprompt/internal/adapter/postgres/folder"
	pghistory "github.com/komi0929/myprompt/internal/adapter/postgres/history"
	pgidempotency "github.com/komi0929/myprompt/internal/adapter/postgres/idempotency"
	pglocker "github.com/komi0929/myprompt/internal/adapter/postgres/locker"
	pgnotification "github.com/komi0929/myprompt/internal/adapter/postgres/notification"
	pgprofile "github.com/komi0929/myprompt/internal/adapter/postgres/profile"
	pgprompt "github.com/komi0929/myprompt/internal/adapter/postgres/prompt"
	rediscache "github.com/komi0929/myprompt/internal/adapter/redis"
	"github.com/komi0929/myprompt/internal/config"
	portsession "github.com/komi0929/myprompt/internal/port/session"

	analyticssvc "github.com/komi0929/myprompt/internal/service/analytics"
	changelogsvc "github.com/komi0929/myprompt/internal/service/changelog"
	contactsvc "github.com/komi0929/myprompt/internal/service/contact"
	engagementsvc "github.com/komi0929/myprompt/internal/service/engagement"
	feedbacksvc "github.com/komi0929/myprompt/internal/service/feedback"
	flagsvc "github.com/komi0929/myprompt/internal/service/flag"
	notificationsvc "github.com/komi0929/myprompt/internal/service/notification"
	profilesvc "github.com/komi0929/myprompt/internal/service/profile"
	promptsvc "github.com/komi0929/myprompt/internal/service/prompt"

	"github.com/komi0929/myprompt/internal/store"
	"github.com/komi0929/myprompt/internal/transport"
	mcptransport "github.com/komi0929/myprompt/internal/transport/mcp"
	"github.com/komi0929/myprompt/internal/transport/metrics"
)

// App holds the top-level resources needed to run and gracefully stop the
// server.
type App struct {
	Pool         *pgxpool.Pool
	Server       *http.Server
	Config       *config.Config
	AnalyticsSvc *analyticssvc.Service
	Manager      *store.Manager
	Metrics      *metrics.Collector
	closeCache   func() error
}

// Close releases resources that outlive the HTTP server.
func (a *App) Close() {
	if a.closeCache != nil {
		if err := a.closeCache(); err != nil {
			slog.Error("closing session cache", "error", err)
		}
	}
	a.Pool.Close()
}

// Build is the composition root: the only place concrete types are wired to
// their interface dependencies.
func Build(ctx context.Context) (*App, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pool, err := pgdb.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pgdb.Migrate(cfg.Database.URL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	// Session cache: Redis when configured, in-process otherwise.
	var sessions portsession.Cache
	closeCache := func() error { return nil }
	if cfg.Redis.URL != "" {
		rc, err := rediscache.NewCache(ctx, cfg.Redis.URL)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		sessions = rc
		closeCache = rc.Close
	} else {
		sessions = memorycache.NewCache()
		slog.Info("no redis configured, using in-process session cache")
	}

	// Adapters.
	promptRepo := pgprompt.New(pool)
	engagementRepo := pgengagement.New(pool)
	folderRepo := pgfolder.New(pool)
	historyRepo := pghistory.New(pool)
	notificationRepo := pgnotification.New(pool)
	profileRepo := pgprofile.New(pool)
	feedbackRepo := pgfeedback.New(pool)
	contactRepo := pgcontact.New(pool)
	changelogRepo := pgchangelog.New(pool)
	flagRepo := pgflag.New(pool)
	analyticsRepo := pganalytics.New(pool)
	idempotencyRepo := pgidempotency.New(pool)
	eventBus := pgeventbus.New(pool)
	locker := pglocker.New(pool)

	// Services.
	engagementSvc := engagementsvc.NewService(engagementRepo, promptRepo, notificationRepo, eventBus)
	promptSvcInstance := promptsvc.NewService(promptRepo, notificationRepo, eventBus)
	notificationSvc := notificationsvc.NewService(notificationRepo)
	profileSvc := profilesvc.NewService(profileRepo)
	feedbackSvc := feedbacksvc.NewService(feedbackRepo, eventBus)
	contactSvc := contactsvc.NewService(contactRepo, eventBus)
	changelogSvc := changelogsvc.NewService(changelogRepo)
	flagSvc := flagsvc.NewService(flagRepo)
	analyticsSvc := analyticssvc.NewService(analyticsRepo, locker)

	collector := metrics.NewCollector()

	manager := store.NewManager(store.Gateway{
		Prompts:    promptRepo,
		Engagement: engagementSvc,
		Folders:    folderRepo,
		History:    historyRepo,
	}, store.WithMutationRecorder(collector.RecordMutation))

	router := transport.NewRouter(ctx, transport.Deps{
		Config:       &cfg,
		Manager:      manager,
		Sessions:     sessions,
		History:      historyRepo,
		Idempotency:  idempotencyRepo,
		EventBus:     eventBus,
		Metrics:      collector,
		Prompts:      promptSvcInstance,
		Notification: notificationSvc,
		Profiles:     profileSvc,
		Feedback:     feedbackSvc,
		Contacts:     contactSvc,
		Changelog:    changelogSvc,
		Flags:        flagSvc,
		Analytics:    analyticsSvc,
	})

	mcpServer := mcptransport.New(promptSvcInstance)

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpServer.Handler())
	mux.Handle("/", router)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("application wired", "port", cfg.Server.Port)

	app := &App{
		Pool:         pool,
		Server:       server,
		Config:       &cfg,
		AnalyticsSvc: analyticsSvc,
		Manager:      manager,
		Metrics:      collector,
		closeCache:   closeCache,
	}

	startAggregator(ctx, app)

	return app, nil
}
