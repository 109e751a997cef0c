// cmd/gateway/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"shareit/internal/clients"
	"shareit/internal/clock"
	"shareit/internal/config"
	"shareit/internal/gateway"
	"shareit/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("gateway stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Gateway{Common: config.Common{ServiceName: "shareit-gateway"}}
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}
	logger := telemetry.NewLogger(cfg.ServiceName, cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	target, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("parse SERVER_URL: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	if cfg.UpstreamWait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, cfg.UpstreamWait)
		err := clients.NewHealthClient(target.String(), nil).WaitReady(waitCtx, time.Second)
		cancel()
		if err != nil {
			return fmt.Errorf("upstream: %w", err)
		}
		logger.Info("upstream ready", "upstream", target.String())
	}

	opts := []gateway.Option{
		gateway.WithClock(clock.System{Location: loc}),
		gateway.WithLogger(logger),
	}
	if cfg.RateLimitRPS > 0 {
		opts = append(opts, gateway.WithRateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)))
	}
	gw := gateway.New(target, opts...)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gw.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting ShareIt gateway", "port", cfg.Port, "upstream", target.String())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
