// Package api assembles the stub server's HTTP router. The stub implements
// the same REST contract as the hosted Medibot backend with canned triage
// replies, so the SDK and CLI can be developed and tested offline.
package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Kedjuprecious/medibot-app/internal/api/middleware"
	"github.com/Kedjuprecious/medibot-app/internal/handlers"
	"github.com/Kedjuprecious/medibot-app/internal/store"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, db store.DataStore) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(16 * 1024)) // 16KB max body
	r.Use(middleware.RequireJSON)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - the mobile app calls from device origins
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(db)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", h.Health)

	// Account provisioning
	r.Post("/user", h.CreateUser)
	r.Get("/user", h.GetUser)

	// Chat
	r.Post("/chat", h.Chat)
	r.Get("/chat/messages", h.GetMessages)
	r.Get("/conversations", h.ListConversations)
	r.Delete("/conversation", h.DeleteConversation)

	return r
}
