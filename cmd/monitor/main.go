package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/basisbot/config"
	"github.com/alejandrodnm/basisbot/internal/adapters/binance"
	"github.com/alejandrodnm/basisbot/internal/adapters/news"
	"github.com/alejandrodnm/basisbot/internal/adapters/notify"
	"github.com/alejandrodnm/basisbot/internal/adapters/storage"
	"github.com/alejandrodnm/basisbot/internal/engine"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one synthetic reconciliation cycle and exit")
	table := flag.Bool("table", false, "print full table output (default: compact 1-line)")
	seed := flag.Int64("seed", 0, "seed for the synthetic generator (0 = time-based)")
	report := flag.Bool("report", false, "print recent archived cycles and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("basisbot starting",
		"config", *configPath,
		"symbols", len(cfg.Universe),
		"venue", cfg.Monitor.Venue,
		"once", *once,
	)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	e := engine.New(cfg.Universe, cfg.Monitor.Venue, rng)
	state := engine.NewState(e, cfg.Filter())
	notifier := notify.NewConsole(*table || *once)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *report {
		runReport(ctx, cfg.Storage.DSN)
		return
	}

	monitorCfg := engine.MonitorConfig{
		Venues:       []string{cfg.Monitor.Venue},
		NewsInterval: cfg.NewsInterval(),
	}

	if *once {
		m := engine.NewMonitor(monitorCfg, e, state, nil, nil, notifier, nil)
		m.StepOnce(ctx, time.Now())
		return
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	feed := binance.NewFeed(cfg.Feeds.BinanceWS, cfg.Universe)
	newsClient := news.NewClient(cfg.Feeds.NewsBase, cfg.Feeds.NewsCategories)

	m := engine.NewMonitor(monitorCfg, e, state, feed, newsClient, notifier, store)
	if err := m.Run(ctx); err != nil {
		slog.Error("monitor exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("basisbot stopped cleanly")
}

func runReport(ctx context.Context, dsn string) {
	store, err := storage.NewSQLiteStorage(dsn)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", dsn)
		os.Exit(1)
	}
	defer store.Close()

	cycles, err := store.RecentCycles(ctx, 20)
	if err != nil {
		slog.Error("failed to read cycles", "err", err)
		os.Exit(1)
	}

	if len(cycles) == 0 {
		fmt.Println("no archived cycles")
		return
	}

	fmt.Printf("%-20s %6s %-12s %12s %12s\n", "At", "Book", "Top", "Basis (bps)", "ΣPnL")
	for _, c := range cycles {
		fmt.Printf("%-20s %6d %-12s %12.1f %12.0f\n",
			c.At.Local().Format("2006-01-02 15:04:05"),
			c.Total, c.TopSymbol, c.TopSpreadBps, c.AggregatePnl)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
