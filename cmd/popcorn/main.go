package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/teo/popcorn/internal/config"
	"github.com/teo/popcorn/internal/metrics"
	"github.com/teo/popcorn/internal/store"
	"github.com/teo/popcorn/internal/watchlist"
)

var (
	configPath = flag.String("config", "./config/config.yaml", "Path to configuration file")
	verbose    = flag.Bool("verbose", false, "Show detailed logging")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Log, *verbose)

	// Open the durable store
	kv, err := store.NewSQLiteKV(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	// The watched collection survives restarts through the store cell
	watched := store.NewCell(kv, watchlist.StoreKey, []watchlist.Entry(nil))

	collector := metrics.NewCollector(prometheus.NewRegistry())

	sh := newShell(cfg, watched, collector, os.Stdout)
	defer sh.close()

	// Reload config on file change; a failed reload keeps the old config
	watcher, err := config.NewWatcher(*configPath, 0, sh.applyConfig)
	if err != nil {
		slog.Warn("config hot reload unavailable", "error", err)
	} else if err := watcher.Start(); err != nil {
		slog.Warn("config hot reload unavailable", "error", err)
		watcher.Stop()
	} else {
		defer watcher.Stop()
	}

	sh.run(os.Stdin)
}

// setupLogging configures the default slog handler from config
func setupLogging(logCfg config.LogConfig, verbose bool) {
	level := slog.LevelInfo
	switch logCfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if logCfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
