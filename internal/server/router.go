package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/mtqmn/qalbu/internal/api/handlers"
	"github.com/mtqmn/qalbu/internal/api/middleware"
)

type RouterConfig struct {
	ChatHandler  *handlers.ChatHandler
	AdminHandler *handlers.AdminHandler
	AudioHandler *handlers.AudioHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", cfg.AdminHandler.Health)
	r.Get("/stats", cfg.AdminHandler.Stats)
	r.Post("/reload", cfg.AdminHandler.Reload)

	r.Post("/chat", cfg.ChatHandler.Chat)
	r.Post("/chat/feedback", cfg.ChatHandler.Feedback)

	r.Route("/audio", func(r chi.Router) {
		r.Get("/", cfg.AudioHandler.List)
		r.Get("/popular", cfg.AudioHandler.Popular)
		r.Get("/{id}", cfg.AudioHandler.Get)
		r.Post("/{id}/play", cfg.AudioHandler.Play)
	})

	return r
}
