package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gatebot/config"
	"gatebot/internal/bot"
	"gatebot/internal/database"
	"gatebot/internal/health"
	"gatebot/internal/logger"
	"gatebot/internal/storage"
)

// Populated via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("config load failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger.Init(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Profile: cfg.Logging.Profile,
	})
	logger.L.Info("build info",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("date", date),
	)

	if err := run(cfg); err != nil {
		logger.L.Error("fatal", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}

	store := storage.NewRegistry(db)
	if err := store.AddAdmin(ctx, cfg.Telegram.BootstrapAdminID); err != nil {
		return err
	}
	logger.L.Info("bootstrap admin ensured",
		slog.String("event", "admin.bootstrap"),
		slog.Int64("admin_id", cfg.Telegram.BootstrapAdminID),
	)

	healthSrv := health.New(cfg.Health.Listen)
	go func() {
		if err := healthSrv.Run(ctx); err != nil {
			logger.L.Error("health server failed", slog.String("err", err.Error()))
		}
	}()

	b, err := bot.New(cfg, store)
	if err != nil {
		return err
	}
	return b.Run(ctx)
}
