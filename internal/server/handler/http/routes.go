package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mshiraki/tangocho/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// vocabulary API. It applies JSON content-type enforcement, request
// logging, and bearer-session authentication, and mounts all API
// endpoints under /api.
//
// Routes:
//
//	POST   /api/register                     → authHandler.Register (public)
//	POST   /api/login                        → authHandler.Login (public)
//	POST   /api/logout                       → authHandler.Logout
//	GET    /api/vocabulary                   → vocabHandler.List
//	POST   /api/vocabulary                   → vocabHandler.Create
//	DELETE /api/vocabulary/{id}              → vocabHandler.Delete
//	GET    /api/vocabulary/due               → vocabHandler.Due
//	GET    /api/vocabulary/due/count         → vocabHandler.DueCount
//	POST   /api/vocabulary/{id}/review       → vocabHandler.Review
//	POST   /api/vocabulary/{id}/unmaster     → vocabHandler.Unmaster
//	GET    /api/stats                        → vocabHandler.Stats
//	GET    /api/stats/history                → vocabHandler.History
//	POST   /api/search                       → searchHandler.Search
//	POST   /api/notifications/subscribe      → notificationHandler.Subscribe
//	DELETE /api/notifications/subscribe      → notificationHandler.Unsubscribe
//	GET    /api/cron/send-notifications      → cronHandler.Send (secret-guarded)
func NewRouter(
	authHandler *AuthHandler,
	vocabHandler *VocabularyHandler,
	searchHandler *SearchHandler,
	notificationHandler *NotificationHandler,
	cronHandler *CronHandler,
	resolver middleware.SessionResolver,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Enforce bearer-session authentication
	r.Use(middleware.SessionAuth(resolver))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Cron trigger, guarded by its own shared secret
		r.Get("/cron/send-notifications", cronHandler.Send)

		// Protected group: requires a valid session token
		r.Group(func(r chi.Router) {
			r.Post("/logout", authHandler.Logout)

			r.Get("/vocabulary", vocabHandler.List)
			r.Post("/vocabulary", vocabHandler.Create)
			r.Get("/vocabulary/due", vocabHandler.Due)
			r.Get("/vocabulary/due/count", vocabHandler.DueCount)
			r.Delete("/vocabulary/{id}", vocabHandler.Delete)
			r.Post("/vocabulary/{id}/review", vocabHandler.Review)
			r.Post("/vocabulary/{id}/unmaster", vocabHandler.Unmaster)

			r.Get("/stats", vocabHandler.Stats)
			r.Get("/stats/history", vocabHandler.History)

			r.Post("/search", searchHandler.Search)

			r.Post("/notifications/subscribe", notificationHandler.Subscribe)
			r.Delete("/notifications/subscribe", notificationHandler.Unsubscribe)
		})
	})

	return r
}
