// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Common holds the settings shared by every binary.
type Common struct {
	ServiceName  string `env:"SERVICE_NAME"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// How often metrics are pushed when OTLPEndpoint is set.
	MetricsInterval time.Duration `env:"METRICS_EXPORT_INTERVAL" envDefault:"30s"`
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c Common) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Server configures cmd/server.
type Server struct {
	Common
	Port        string `env:"PORT" envDefault:"9090"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"memory://"`
	Timezone    string `env:"TIMEZONE" envDefault:"Local"`
	// Registrations per second per process; zero disables the limit.
	RegistrationRPS   float64 `env:"REGISTRATION_RATE_LIMIT_RPS" envDefault:"0"`
	RegistrationBurst int     `env:"REGISTRATION_RATE_LIMIT_BURST" envDefault:"5"`
}

// Location resolves Timezone.
func (s Server) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// Gateway configures cmd/gateway.
type Gateway struct {
	Common
	Port           string  `env:"PORT" envDefault:"8080"`
	ServerURL      string  `env:"SERVER_URL" envDefault:"http://localhost:9090"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`
	Timezone       string  `env:"TIMEZONE" envDefault:"Local"`
	// How long to wait for the server's /health at startup; zero skips it.
	UpstreamWait time.Duration `env:"UPSTREAM_WAIT" envDefault:"30s"`
}

// Location resolves Timezone.
func (g Gateway) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", g.Timezone, err)
	}
	return loc, nil
}

// Smoke configures cmd/smoke.
type Smoke struct {
	Common
	TargetURL string `env:"TARGET_URL" envDefault:"http://localhost:8080"`
	// Bookings start this far after the local wall clock.
	Lead    time.Duration `env:"BOOKING_LEAD" envDefault:"48h"`
	Timeout time.Duration `env:"SMOKE_TIMEOUT" envDefault:"30s"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
