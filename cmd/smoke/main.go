// cmd/smoke/main.go
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"shareit/internal/clients"
	"shareit/internal/clock"
	"shareit/internal/config"
	"shareit/internal/telemetry"
)

// smoke runs one lending cycle against a running gateway or server and exits
// non-zero if any step misbehaves.
func main() {
	cfg := config.Smoke{Common: config.Common{ServiceName: "shareit-smoke"}}
	if err := config.ParseEnv(&cfg); err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	logger := telemetry.NewLogger(cfg.ServiceName, cfg.Level())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	hc := &http.Client{Timeout: 10 * time.Second}
	if err := clients.NewHealthClient(cfg.TargetURL, hc).WaitReady(ctx, time.Second); err != nil {
		logger.Error("target not ready", "target", cfg.TargetURL, "err", err)
		os.Exit(1)
	}

	start := clock.Naive(time.Now()).Add(cfg.Lead).Truncate(time.Second)
	res, err := clients.RunLendingScenario(ctx, cfg.TargetURL, hc, start, logger)
	if err != nil {
		logger.Error("smoke run failed", "target", cfg.TargetURL, "err", err)
		os.Exit(1)
	}
	logger.Info("smoke run complete", "target", cfg.TargetURL, "item_id", res.ItemID, "owner_id", res.OwnerID)
}
