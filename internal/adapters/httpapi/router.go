package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: route wiring and baseline middleware
// live here, everything else delegates to the Server handlers.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(NewViewerMiddleware())

	// Health endpoint is deliberately unauthenticated (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/years", s.handleYears)
		r.Get("/trips", s.handleTripsByYear)
		r.Get("/map", s.handleMap)
		r.Get("/stats", s.handleStats)
		r.Get("/trips/{tripID}/photos", s.handleTripPhotos)
		r.Put("/trips/{tripID}/hidden", s.handleSetHidden)
		r.Put("/trips/{tripID}/cover", s.handleSetCover)
	})

	return r
}
