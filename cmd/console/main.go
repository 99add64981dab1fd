package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"transitbook/internal/booking/registry"
	"transitbook/internal/booking/seed"
	"transitbook/internal/menu"
	"transitbook/internal/platform/config"
	"transitbook/internal/platform/logger"
)

// main runs the interactive booking menu on stdin and stdout. Logs go to
// stderr at warn or above so they do not interleave with the menu.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	level := cfg.LogLevel
	if logger.ParseLevel(level) < slog.LevelWarn {
		level = "warn"
	}
	log := logger.NewWithWriter(os.Stderr, level, "text")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := registry.New(registry.WithLogger(log))
	if cfg.SeedDemoData {
		if err := seed.Load(ctx, reg); err != nil {
			log.Error("failed to load demo data", "error", err)
			os.Exit(1)
		}
	}

	if err := menu.New(reg, os.Stdin, os.Stdout).Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("menu stopped with error", "error", err)
		os.Exit(1)
	}
}
