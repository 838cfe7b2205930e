package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/alejandrodnm/updown/config"
	"github.com/alejandrodnm/updown/internal/adapters/csvdata"
	"github.com/alejandrodnm/updown/internal/adapters/notify"
	"github.com/alejandrodnm/updown/internal/backtest"
	"github.com/alejandrodnm/updown/internal/domain"
	"github.com/alejandrodnm/updown/internal/strategy"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	dataFile := flag.String("data", "", "CSV file with market quotes (overrides config)")
	dataDir := flag.String("data-dir", "", "directory with market_data_*.csv; latest file is used")
	strategyName := flag.String("strategy", "rebalancing", "strategy: "+strings.Join(strategyNames(), "|"))
	capital := flag.Float64("capital", 0, "initial capital (overrides config)")
	slippage := flag.Int("slippage", -1, "slippage in seconds (overrides config)")
	winnerPolicy := flag.String("winner-policy", "", "winner policy: ask_collapse|ask_compare (overrides config)")
	verbose := flag.Bool("verbose", false, "set log level to debug and print per-market summaries")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *capital > 0 {
		cfg.Backtest.InitialCapital = *capital
	}
	if *slippage >= 0 {
		cfg.Backtest.SlippageSeconds = *slippage
	}
	if *winnerPolicy != "" {
		cfg.Backtest.WinnerPolicy = *winnerPolicy
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	policy, err := domain.ParseWinnerPolicy(cfg.Backtest.WinnerPolicy)
	if err != nil {
		slog.Error("invalid winner policy", "err", err)
		os.Exit(1)
	}

	registry := defaultRegistry()
	strat, ok := registry.Get(*strategyName)
	if !ok {
		slog.Error("unknown strategy", "name", *strategyName, "available", strings.Join(strategyNames(), ", "))
		os.Exit(1)
	}

	path := *dataFile
	if path == "" {
		path = cfg.Data.File
	}
	source := csvdata.NewSource()
	if path == "" {
		dir := *dataDir
		if dir == "" {
			dir = cfg.Data.Dir
		}
		path, err = csvdata.LatestFile(dir)
		if err != nil {
			slog.Error("no data file found", "err", err, "dir", dir)
			os.Exit(1)
		}
	}

	slog.Info("backtest starting",
		"strategy", strat.Name(),
		"data", path,
		"capital", cfg.Backtest.InitialCapital,
		"slippage_seconds", cfg.Backtest.SlippageSeconds,
		"winner_policy", policy,
	)

	notifier := notify.NewConsole(*verbose)

	engine := backtest.New(backtest.Config{
		InitialCapital:  cfg.Backtest.InitialCapital,
		SlippageSeconds: cfg.Backtest.SlippageSeconds,
		WinnerPolicy:    policy,
	}, source, notifier)

	if err := engine.LoadData(path); err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			slog.Error("data file not found", "path", path)
		} else {
			slog.Error("failed to load data", "err", err)
		}
		os.Exit(1)
	}

	if err := engine.Run(strat); err != nil {
		slog.Error("backtest failed", "err", err)
		os.Exit(1)
	}

	report := engine.Report()
	slog.Info("backtest complete",
		"final_capital", fmt.Sprintf("%.2f", report.FinalCapital),
		"pnl", fmt.Sprintf("%.2f", report.TotalPnL),
		"roi_pct", fmt.Sprintf("%.2f", report.ROI),
	)
}

func defaultRegistry() strategy.Registry {
	r := strategy.NewRegistry()
	r.Register(strategy.NewRebalancing(strategy.DefaultRebalancingConfig()))
	r.Register(strategy.NewHybrid(strategy.DefaultHybridConfig()))
	r.Register(strategy.NewOptimizedHybrid(strategy.DefaultOptimizedHybridConfig()))
	r.Register(strategy.NewSignalRebalancing(strategy.DefaultSignalRebalancingConfig()))
	r.Register(strategy.NewAvgArbitrage(strategy.DefaultAvgArbitrageConfig()))
	r.Register(strategy.NewMovingAverage(strategy.DefaultMovingAverageConfig()))
	r.Register(strategy.NewPrediction(strategy.DefaultPredictionConfig()))
	return r
}

func strategyNames() []string {
	names := make([]string, 0, len(defaultRegistry()))
	for name := range defaultRegistry() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
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
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
