package rest

import (
	"bemestar/internal/platform/logger"
	"bemestar/internal/service"
	"bemestar/internal/transport/rest/handler"
	"bemestar/internal/transport/rest/middleware"
	"bemestar/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	WizardService      *service.WizardService
	CatalogService     *service.CatalogService
	WSHub              *ws.Hub
	Logger             *logger.Logger
	CORSAllowedOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(c.WizardService)
	catalogHandler := handler.NewCatalogHandler(c.WizardService, c.CatalogService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSAllowedOrigins))
	r.Use(middleware.RequestLogger(c.Logger))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/catalog", catalogHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/catalogs", catalogHandler.List).Methods("GET", "OPTIONS")

	v1.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/step", sessionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/answer", sessionHandler.Answer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/back", sessionHandler.Back).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/submit", sessionHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/events", sessionHandler.Event).Methods("POST", "OPTIONS")

	// WebSocket observers
	if c.WSHub != nil {
		wsHandler := ws.NewHandler(c.WSHub, c.WizardService)
		v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")
	}

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
