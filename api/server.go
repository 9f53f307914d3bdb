/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/customers/*      Customer debt ledger
  /api/debts/*          Direct debt access and payment
  /api/employees/*      Employee compensation ledger
  /api/entries/*        Employee ledger entry annotations
  /metrics              Prometheus metrics
  /healthz              Liveness probe

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Customer debt routes
		r.Route("/customers", func(r chi.Router) {
			r.Get("/debtors", h.ListDebtors)
			r.Get("/{id}/debts", h.ListDebts)
			r.Post("/{id}/debts", h.CreateDebt)
			r.Get("/{id}/balance", h.GetBalance)
			r.Get("/{id}/payments", h.ListPayments)
			r.Post("/{id}/payments", h.PayCustomer)
		})

		// Direct debt routes
		r.Route("/debts", func(r chi.Router) {
			r.Get("/{id}", h.GetDebt)
			r.Post("/{id}/payments", h.PayDebt)
		})

		// Employee compensation routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/{id}/entries", h.ListEntries)
			r.Get("/{id}/balance", h.GetNetBalance)
			r.Post("/{id}/earnings", h.AddEarning)
			r.Post("/{id}/debts", h.AddEmployeeDebt)
			r.Post("/{id}/settlements", h.Settle)
		})

		// Entry annotation routes
		r.Route("/entries", func(r chi.Router) {
			r.Post("/{id}/paid", h.MarkDebtPaid)
		})
	})

	// Observability
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
