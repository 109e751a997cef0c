// Package server assembles the ShareIt services over a set of stores and
// exposes them through one chi router.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	"shareit/internal/booking"
	"shareit/internal/catalog"
	"shareit/internal/clock"
	"shareit/internal/httpx"
	"shareit/internal/membership"
	"shareit/internal/requests"
	"shareit/internal/storage"
)

// Services holds the wired domain services.
type Services struct {
	Users    membership.Service
	Items    catalog.Service
	Bookings booking.Service
	Requests requests.Service
}

// Option configures the wiring.
type Option func(*options)

type options struct {
	registrations *rate.Limiter
	meters        metric.MeterProvider
}

// WithRegistrationLimit throttles user creation.
func WithRegistrationLimit(l *rate.Limiter) Option {
	return func(o *options) { o.registrations = l }
}

// WithMeterProvider records service metrics on mp instead of the global
// provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meters = mp }
}

// NewServices wires the services over stores.
func NewServices(stores *storage.Stores, clk clock.Clock, logger *slog.Logger, opts ...Option) *Services {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	memberOpts := []membership.Option{membership.WithLogger(logger)}
	if o.registrations != nil {
		memberOpts = append(memberOpts, membership.WithRegistrationLimit(o.registrations))
	}
	users := membership.NewService(stores.Users, clk, memberOpts...)
	userDir := membership.NewDirectory(stores.Users)
	itemDir := catalog.NewDirectory(stores.Items)

	timeline := booking.NewTimeline(stores.Bookings)
	reqs := requests.NewService(stores.Requests, stores.Items, userDir, clk, logger)
	items := catalog.NewService(stores.Items, userDir, reqs, timeline, clk, logger)
	bookings := booking.NewService(stores.Bookings, itemDir, userDir, clk,
		booking.WithLogger(logger),
		booking.WithMeterProvider(o.meters),
	)

	return &Services{Users: users, Items: items, Bookings: bookings, Requests: reqs}
}

// Router mounts every service under its resource path.
func Router(s *Services, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/users", membership.NewHandler(s.Users, logger).Routes)
	r.Route("/items", catalog.NewHandler(s.Items, logger).Routes)
	r.Route("/bookings", booking.NewHandler(s.Bookings, logger).Routes)
	r.Route("/requests", requests.NewHandler(s.Requests, logger).Routes)
	return r
}
