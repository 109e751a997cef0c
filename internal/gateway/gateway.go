// Package gateway is the public entry point in front of the ShareIt server.
// It checks caller identity, paging and request bodies, throttles traffic and
// proxies accepted requests unchanged.
package gateway

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"shareit/internal/apperr"
	"shareit/internal/clock"
	"shareit/internal/httpx"
)

// Gateway validates and forwards requests to one upstream server.
type Gateway struct {
	proxy    *httputil.ReverseProxy
	limiter  *rate.Limiter
	clock    clock.Clock
	validate *validator.Validate
	logger   *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithRateLimit rejects requests beyond l with 429.
func WithRateLimit(l *rate.Limiter) Option {
	return func(g *Gateway) { g.limiter = l }
}

// WithClock sets the clock booking windows are checked against.
func WithClock(clk clock.Clock) Option {
	return func(g *Gateway) { g.clock = clk }
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a gateway proxying to target.
func New(target *url.URL, opts ...Option) *Gateway {
	g := &Gateway{
		proxy:  httputil.NewSingleHostReverseProxy(target),
		clock:  clock.System{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.validate = newValidator(g.clock)
	g.proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		g.logger.Error("upstream request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		httpx.WriteJSON(w, http.StatusBadGateway, httpx.ErrorBody{Error: "BAD_GATEWAY", Message: "upstream unavailable"})
	}
	return g
}

// Handler returns the gateway's router.
func (g *Gateway) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(g.rateLimit)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/users", func(r chi.Router) {
		r.With(body[userBody](g)).Post("/", g.forward)
		r.Get("/", g.forward)
		r.Get("/{userId}", g.forward)
		r.With(body[userPatchBody](g)).Patch("/{userId}", g.forward)
		r.Delete("/{userId}", g.forward)
	})

	r.Route("/items", func(r chi.Router) {
		r.Use(requireUser)
		r.With(body[itemBody](g)).Post("/", g.forward)
		r.With(paging).Get("/", g.forward)
		r.With(paging).Get("/search", g.forward)
		r.Get("/{itemId}", g.forward)
		r.With(body[itemPatchBody](g)).Patch("/{itemId}", g.forward)
		r.With(body[commentBody](g)).Post("/{itemId}/comment", g.forward)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(requireUser)
		r.With(body[bookingBody](g)).Post("/", g.forward)
		r.With(paging, bookingState).Get("/", g.forward)
		r.With(paging, bookingState).Get("/owner", g.forward)
		r.Get("/{bookingId}", g.forward)
		r.With(approvedParam).Patch("/{bookingId}", g.forward)
		r.Get("/{bookingId}/history", g.forward)
	})

	r.Route("/requests", func(r chi.Router) {
		r.Use(requireUser)
		r.With(body[requestBody](g)).Post("/", g.forward)
		r.Get("/", g.forward)
		r.With(paging).Get("/all", g.forward)
		r.Get("/{requestId}", g.forward)
	})

	return r
}

func (g *Gateway) forward(w http.ResponseWriter, r *http.Request) {
	g.proxy.ServeHTTP(w, r)
}

func (g *Gateway) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.limiter != nil && !g.limiter.Allow() {
			httpx.WriteError(w, g.logger, apperr.New(apperr.CodeRateLimited, "too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
