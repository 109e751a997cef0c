// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"shareit/internal/clock"
	"shareit/internal/config"
	"shareit/internal/server"
	"shareit/internal/storage"
	"shareit/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Server{Common: config.Common{ServiceName: "shareit-server"}}
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

	meters, err := telemetry.InitMeter(ctx, cfg.ServiceName, cfg.OTLPEndpoint, cfg.MetricsInterval)
	if err != nil {
		return err
	}
	defer func() { _ = meters.Shutdown(context.Background()) }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk := clock.System{Location: loc}

	stores, err := storage.Open(ctx, cfg.DatabaseURL, clk, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	opts := []server.Option{server.WithMeterProvider(meters)}
	if cfg.RegistrationRPS > 0 {
		opts = append(opts, server.WithRegistrationLimit(rate.NewLimiter(rate.Limit(cfg.RegistrationRPS), cfg.RegistrationBurst)))
	}
	services := server.NewServices(stores, clk, logger, opts...)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(services, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting ShareIt server", "port", cfg.Port, "database", storageKind(cfg.DatabaseURL))
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

func storageKind(url string) string {
	if scheme, _, ok := strings.Cut(url, "://"); ok {
		return scheme
	}
	return "memory"
}
