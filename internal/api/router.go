/**
 * @description
 * This file sets up the HTTP router for Silver Bank. It defines the API
 * endpoints, associates them with their corresponding handlers, and applies
 * the standard middleware stack plus session authentication for the protected
 * routes.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS for the browser client.
 * - github.com/prometheus/client_golang: The /metrics endpoint.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sumin-dev/Silver-Bank/internal/auth"
)

// Routes creates and returns the router for the banking API.
func Routes(h *Handlers, tokens *auth.TokenManager, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	// Standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", h.SignupHandler)
		r.Post("/auth/login", h.LoginHandler)

		// Group routes that require a valid session.
		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(tokens))

			r.Post("/auth/logout", h.LogoutHandler)

			r.Get("/profile", h.GetProfileHandler)
			r.Post("/profile", h.CreateProfileHandler)

			r.Get("/account", h.GetAccountHandler)
			r.Post("/account", h.OpenAccountHandler)

			r.Post("/transfer/validate", h.ValidateTransferHandler)
			r.Post("/transfer", h.TransferHandler)

			r.Get("/ledger/sent", h.SentAccountsHandler)
			r.Get("/ledger/history", h.HistoryHandler)
		})
	})

	return r
}
