package http

import (
	"context"
	"net/http"

	"github.com/ferrypratamaa-00/monii-sub001/internal/config"
	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	"github.com/ferrypratamaa-00/monii-sub001/internal/transport/http/handler"
	appmiddleware "github.com/ferrypratamaa-00/monii-sub001/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds background
// work owned by the router, such as rate-limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.Verifier)
	streamRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.StreamRatePerSec), cfg.StreamRateBurst)

	healthH := handler.NewHealthHandler()
	streamH := handler.NewStreamHandler(deps.Registry, deps.StreamWriteTimeout)
	notifH := handler.NewNotificationHandler(deps.Notifications, deps.Dispatcher)
	prefH := handler.NewPreferenceHandler(deps.Preferences)
	alertH := handler.NewAlertHandler(deps.Notifier)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.With(chimiddleware.Logger).Get("/health-check/{action}", healthH.Ping)

		// ── Stream ───────────────────────────────────────────────────────────
		// Kept out of the Logger group so the handler writes to the server's
		// own ResponseWriter.
		r.With(streamRL.Limit, authMw).Get("/notifications/stream", streamH.Stream)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Logger)
			r.Use(authMw)

			r.Get("/notifications", notifH.ListUnread)
			r.Get("/notifications/all", notifH.ListAll)
			r.Post("/notifications/read", notifH.MarkRead)
			r.Post("/notifications/read-all", notifH.MarkAllRead)
			r.Get("/notifications/preferences", prefH.Get)
			r.Put("/notifications/preferences", prefH.Update)
			r.Post("/notifications/preferences/reset", prefH.Reset)

			// Admin-only routes
			r.With(appmiddleware.RequireRole(domain.RoleAdmin)).
				Post("/notifications/broadcast", notifH.Broadcast)

			// Evaluation jobs
			r.With(appmiddleware.RequireRole(domain.RoleAdmin, domain.RoleService)).
				Post("/internal/alerts", alertH.Create)
		})
	})

	return r
}
