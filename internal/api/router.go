package api

import (
	"net/http"

	// This blank import is required by swaggo to find the API definitions.
	_ "portfolio-chat/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the application's routes.
// When staticDir is non-empty the site found there is served for every other path.
func NewRouter(relayHandler *RelayHandler, metricsHandler http.Handler, staticDir string) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- Public Routes ---
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	})

	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// --- Relay Routes ---
	// Streaming endpoints hold the connection for the whole upstream turn, so
	// they must NOT get a timeout middleware.
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", relayHandler.HandleChat)
		r.Post("/learn", relayHandler.HandleLearn)
	})

	// --- Frontend File Server ---
	if staticDir != "" {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Handle("/*", fileServer)
	}

	return r
}
