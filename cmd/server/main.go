// Package main is the entry point for the trading server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tathienbao/trading-server/internal/advisor"
	"github.com/tathienbao/trading-server/internal/alerting"
	"github.com/tathienbao/trading-server/internal/config"
	"github.com/tathienbao/trading-server/internal/metrics"
	"github.com/tathienbao/trading-server/internal/persistence"
	"github.com/tathienbao/trading-server/internal/protocol"
	"github.com/tathienbao/trading-server/internal/risk"
	"github.com/tathienbao/trading-server/internal/server"
	"github.com/tathienbao/trading-server/internal/tracker"
)

// Version information (set by build flags).
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	case "run":
		cmdRun(os.Args[2:])
	case "validate":
		cmdValidate(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Trading Server - Expert Advisor Backend for MetaTrader Terminals

Usage:
  trading-server <command> [options]

Commands:
  run        Start the trading server
  validate   Validate configuration file
  version    Show version information
  help       Show this help message

Examples:
  trading-server run --config config.yaml
  trading-server validate --config config.yaml

Use "trading-server <command> --help" for more information about a command.`)
}

func cmdVersion() {
	fmt.Printf("trading-server version %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid!")
	fmt.Printf("  Listen address: %s\n", cfg.ListenAddress())
	fmt.Printf("  Risk per trade: %.1f%%\n", cfg.Risk.RiskPerTradePct*100)
	fmt.Printf("  Metrics enabled: %t\n", cfg.Metrics.Enabled)
	fmt.Printf("  Persistence enabled: %t\n", cfg.Persistence.Enabled)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	slog.Info("trading-server starting",
		"version", Version,
		"address", cfg.ListenAddress(),
		"risk_per_trade", cfg.Risk.RiskPerTradePct,
	)

	// Notifications: everything to the console, trades additionally to
	// Telegram when configured. Delivery happens off the session goroutines.
	console := alerting.NewConsoleNotifier(logger)
	var combined alerting.CombinedNotifier = console
	if cfg.Alerting.Telegram.Enabled {
		telegram := alerting.NewTelegramNotifier(alerting.TelegramConfig{
			BotToken: cfg.Alerting.Telegram.BotToken,
			ChatID:   cfg.Alerting.Telegram.ChatID,
		}, logger)
		combined = alerting.Combining{
			Trader:    alerting.Fanout{console, telegram},
			Admin:     adminFanout{console, telegram},
			Developer: console,
		}
	}
	notifier := alerting.NewBackground(combined, logger)
	defer notifier.Close()

	recorder := metrics.NewRecorder()

	trades := tracker.Multi{alerting.TradeListener{Notifier: notifier}, recorder}
	if cfg.Persistence.Enabled {
		journal, err := persistence.NewSQLiteJournal(cfg.Persistence.Path)
		if err != nil {
			slog.Error("failed to open trade journal", "err", err)
			os.Exit(1)
		}
		defer journal.Close()
		trades = append(trades, persistence.Listener{Journal: journal})
		slog.Info("trade journal open", "path", cfg.Persistence.Path)
	}

	manager, err := risk.NewManager(cfg.RiskRatio())
	if err != nil {
		slog.Error("failed to create money management", "err", err)
		os.Exit(1)
	}
	money := risk.NewGuarded(manager)
	lender := metrics.MeasuredLender{Lender: money, Recorder: recorder}

	handler := protocol.NewHandler(
		advisor.NewFactory(money, trades),
		advisor.Indicators{},
		lender,
		notifier,
		notifier,
		recorder,
	)

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(metrics.ServerConfig{
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			HealthPath:  "/health",
		}, logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				slog.Error("metrics server failed", "err", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
			defer cancel()
			_ = metricsServer.Stop(ctx)
		}()
	}

	srv := server.New(cfg.ListenAddress(), handler, cfg.Server.MaxConnections, logger)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	slog.Info("shutdown signal received")

	srv.Shutdown(cfg.ShutdownTimeout())
	slog.Info("trading-server shutdown complete")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// adminFanout delivers admin events to several backends.
type adminFanout []alerting.AdminNotifier

func (f adminFanout) UnexpectedEvent(message string, cause error) {
	for _, n := range f {
		n.UnexpectedEvent(message, cause)
	}
}

func (f adminFanout) InformalEvent(message string) {
	for _, n := range f {
		n.InformalEvent(message)
	}
}

func (f adminFanout) UnrecoverableError(message string, cause error) {
	for _, n := range f {
		n.UnrecoverableError(message, cause)
	}
}
