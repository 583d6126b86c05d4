// Package web serves the admin panel and the public checkout API.
package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"autoadmin/internal/backend"
	"autoadmin/internal/config"
	"autoadmin/internal/paypal"
	"autoadmin/internal/refresh"
	"autoadmin/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Server wires the panel's handlers to their collaborators.
type Server struct {
	cfg       *config.Config
	logger    zerolog.Logger
	backend   *backend.Client
	sessions  session.Store
	refresher *refresh.Refresher
	checkout  *paypal.Client

	templates templateSet
	limiters  sync.Map // client ip -> *rate.Limiter
	server    *http.Server
}

func NewServer(
	cfg *config.Config,
	logger zerolog.Logger,
	apiClient *backend.Client,
	sessions session.Store,
	refresher *refresh.Refresher,
	checkout *paypal.Client,
) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		backend:   apiClient,
		sessions:  sessions,
		refresher: refresher,
		checkout:  checkout,
		templates: templates,
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return s, nil
}

// Router builds the route table. Exposed separately so tests can drive
// handlers without a listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	// Public checkout relay for the booking frontend.
	r.Route("/api/checkout", func(r chi.Router) {
		r.Post("/bookings", s.handleCheckoutBooking)
		r.Post("/cash-bookings", s.handleCheckoutCashBooking)
		r.Post("/orders", s.handleCheckoutCreateOrder)
		r.Post("/capture", s.handleCheckoutCapture)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/", s.handleDashboard)
		r.Get("/payments", s.handlePayments)
		r.Get("/reports", s.handleReports)
		r.Get("/export/{file}", s.handleExport)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleUsers)
			r.Get("/new", s.handleUserForm)
			r.Get("/{id}/edit", s.handleUserForm)
			r.Post("/save", s.handleUserSave)
			r.Get("/{id}/delete", s.handleUserDeleteConfirm)
			r.Post("/{id}/delete", s.handleUserDelete)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", s.handleBookings)
			r.Get("/new", s.handleBookingForm)
			r.Get("/{id}/edit", s.handleBookingForm)
			r.Post("/save", s.handleBookingSave)
			r.Get("/{id}/delete", s.handleBookingDeleteConfirm)
			r.Post("/{id}/delete", s.handleBookingDelete)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", s.handleServices)
			r.Get("/new", s.handleServiceForm)
			r.Get("/{id}/edit", s.handleServiceForm)
			r.Post("/save", s.handleServiceSave)
			r.Get("/{id}/delete", s.handleServiceDeleteConfirm)
			r.Post("/{id}/delete", s.handleServiceDelete)
		})
	})

	return r
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("admin panel listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
