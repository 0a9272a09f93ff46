package api

import (
	"log/slog"
	"net/http"

	"github.com/mmynk/parcattraction/internal/middleware"
)

// RouterConfig carries the collaborators of the middleware chain.
type RouterConfig struct {
	Verifier           middleware.TokenVerifier
	Metrics            *middleware.Metrics
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	Logger             *slog.Logger
}

// NewRouter registers every route and wraps the mux with request ID, CORS,
// logging and metrics middleware. Mutating catalogue routes require a token.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)

	mux.HandleFunc("GET /{$}", h.Hello)

	// Attraction routes
	mux.Handle("POST /attraction", requireAuth(http.HandlerFunc(h.CreateAttraction)))
	mux.HandleFunc("GET /attraction", h.ListAttractions)
	mux.HandleFunc("GET /attraction/{id}", h.GetAttraction)
	mux.HandleFunc("GET /attraction/visible", h.ListVisibleAttractions)
	mux.HandleFunc("GET /attraction/visible/critiques", h.ListVisibleAttractionsWithReviews)
	mux.Handle("DELETE /attraction/{id}", requireAuth(http.HandlerFunc(h.DeleteAttraction)))

	// Review routes
	mux.HandleFunc("POST /critique", h.AddReview)
	mux.HandleFunc("GET /critique/attraction/{id}", h.ListReviews)

	// Auth routes
	mux.HandleFunc("POST /login", h.Login)

	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}

	var handler http.Handler = mux
	if cfg.Metrics != nil {
		handler = cfg.Metrics.Middleware(handler)
	}
	handler = middleware.Logging(cfg.Logger)(handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins)(handler)
	return middleware.RequestID(handler)
}
