package transport

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/komi0929/myprompt/internal/config"
	"github.com/komi0929/myprompt/internal/domain/event"
	porteventbus "github.com/komi0929/myprompt/internal/port/eventbus"
	porthistory "github.com/komi0929/myprompt/internal/port/history"
	portsession "github.com/komi0929/myprompt/internal/port/session"
	analyticssvc "github.com/komi0929/myprompt/internal/service/analytics"
	changelogsvc "github.com/komi0929/myprompt/internal/service/changelog"
	contactsvc "github.com/komi0929/myprompt/internal/service/contact"
	feedbacksvc "github.com/komi0929/myprompt/internal/service/feedback"
	flagsvc "github.com/komi0929/myprompt/internal/service/flag"
	notificationsvc "github.com/komi0929/myprompt/internal/service/notification"
	profilesvc "github.com/komi0929/myprompt/internal/service/profile"
	promptsvc "github.com/komi0929/myprompt/internal/service/prompt"
	"github.com/komi0929/myprompt/internal/store"
	"github.com/komi0929/myprompt/internal/transport/authn"
	"github.com/komi0929/myprompt/internal/transport/metrics"

	adminhandler "github.com/komi0929/myprompt/internal/transport/admin"
	analyticshandler "github.com/komi0929/myprompt/internal/transport/analytics"
	changeloghandler "github.com/komi0929/myprompt/internal/transport/changelog"
	contacthandler "github.com/komi0929/myprompt/internal/transport/contact"
	feedbackhandler "github.com/komi0929/myprompt/internal/transport/feedback"
	flaghandler "github.com/komi0929/myprompt/internal/transport/flag"
	notificationhandler "github.com/komi0929/myprompt/internal/transport/notification"
	profilehandler "github.com/komi0929/myprompt/internal/transport/profile"
	prompthandler "github.com/komi0929/myprompt/internal/transport/prompt"
	workspacehandler "github.com/komi0929/myprompt/internal/transport/workspace"
	wshandler "github.com/komi0929/myprompt/internal/transport/ws"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config       *config.Config
	Manager      *store.Manager
	Sessions     portsession.Cache
	History      porthistory.Repository
	Idempotency  IdempotencyStore
	EventBus     porteventbus.EventBus
	Metrics      *metrics.Collector
	Prompts      *promptsvc.Service
	Notification *notificationsvc.Service
	Profiles     *profilesvc.Service
	Feedback     *feedbacksvc.Service
	Contacts     *contactsvc.Service
	Changelog    *changelogsvc.Service
	Flags        *flagsvc.Service
	Analytics    *analyticssvc.Service
}

func NewRouter(ctx context.Context, d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware(d.Config.Server.CORSOrigins))
	r.Use(authn.Middleware(d.Config.Auth.JWTSecret, d.Config.IsAdmin))
	r.Use(d.Metrics.Middleware())

	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := r.Group("/api")

	prompthandler.Register(api.Group("/prompts"), d.Prompts)
	changeloghandler.Register(api.Group("/changelog"), d.Changelog)
	flaghandler.Register(api.Group("/flags"), d.Flags)
	feedbackhandler.Register(api.Group("/feedback"), d.Feedback)
	analyticshandler.Register(api.Group("/events"), d.Analytics)

	// Contact submissions are retried by flaky clients, so they sit behind
	// the idempotency replay.
	contactGroup := api.Group("/contact")
	contactGroup.Use(IdempotencyMiddleware(d.Idempotency))
	contacthandler.Register(contactGroup, d.Contacts)

	workspaceGroup := api.Group("/workspace")
	workspaceGroup.Use(IdempotencyMiddleware(d.Idempotency))
	workspacehandler.Register(workspaceGroup, d.Manager, d.History, d.Sessions, d.Prompts)

	authed := api.Group("")
	authed.Use(RequireUser())
	notificationhandler.Register(authed.Group("/notifications"), d.Notification)
	profilehandler.Register(authed.Group("/profiles"), d.Profiles)

	adminGroup := api.Group("/admin")
	adminGroup.Use(AdminOnly())
	adminhandler.Register(adminGroup, adminhandler.Services{
		Analytics: d.Analytics,
		Feedback:  d.Feedback,
		Contact:   d.Contacts,
		Changelog: d.Changelog,
		Flags:     d.Flags,
	})

	hub := wshandler.NewHub(func(c *gin.Context) uuid.UUID {
		return authn.CurrentUser(c).UserID
	})
	hub.Register(api.Group("/ws"))

	// Bridge: one subscription per domain channel (4 Postgres connections).
	// Every event in a channel is forwarded; event.Type in the payload lets
	// the client filter.
	for _, ch := range []event.Channel{
		event.ChannelPrompt,
		event.ChannelEngagement,
		event.ChannelNotification,
		event.ChannelAdmin,
	} {
		c := ch
		if _, err := d.EventBus.Subscribe(ctx, c, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe channel to WS hub", "channel", c, "error", err)
		}
	}

	return r
}
