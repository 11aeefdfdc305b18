package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/listings-service/internal/delivery/http/handler"
	"github.com/user/listings-service/internal/delivery/http/middleware"
	"github.com/user/listings-service/pkg/metrics"
)

// New builds the HTTP router. corsOrigin is "*" or a comma-separated list.
func New(h *handler.Handler, corsOrigin string, logger *zap.Logger) http.Handler {
	metrics.Init()
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(corsOrigin),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", h.HandleRoot)
	r.Get("/ping", h.HandlePing)
	r.Get("/finn", h.HandleListings)
	r.Get("/cars", h.HandleListings)
	r.Post("/contact", h.HandleContact)
	r.Get("/test-mail", h.HandleTestMail)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Get("/listings", h.HandleListings)
		r.Get("/cars", h.HandleActiveCars)
		r.Get("/runs", h.HandleRecentRuns)
	})

	return r
}

func allowedOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
