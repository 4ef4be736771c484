// Package api provides the FitCoach HTTP server. It exposes the chat
// session and gamification state over a small JSON API so a web UI can
// drive the application.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitcoach-app/fitcoach/internal/app/chat"
	"github.com/fitcoach-app/fitcoach/internal/app/gamification"
)

// Server is the FitCoach HTTP API server.
type Server struct {
	session        *chat.Session
	orch           *gamification.Orchestrator
	metricsEnabled bool
}

// NewServer creates a new API server over a session and orchestrator.
func NewServer(session *chat.Session, orch *gamification.Orchestrator) *Server {
	return &Server{session: session, orch: orch}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/send", s.handleSend)
		r.Post("/retry", s.handleRetry)
		r.Get("/transcript", s.handleTranscript)
		r.Post("/clear", s.handleClear)
		r.Get("/suggestions", s.handleSuggestions)
	})

	r.Get("/api/profile", s.handleProfile)

	r.Route("/api/gamification", func(r chi.Router) {
		r.Get("/progress", s.handleProgress)
		r.Get("/levels", s.handleLevels)
		r.Get("/streak", s.handleStreak)
		r.Get("/badges", s.handleBadges)
		r.Get("/events", s.handleEvents)
		r.Post("/events/drain", s.handleEventsDrain)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
