package main

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/guildofheroes/goh-api/internal/config"
	"github.com/guildofheroes/goh-api/internal/database"
	"github.com/guildofheroes/goh-api/internal/handler"
	"github.com/guildofheroes/goh-api/internal/observability/metrics"
	"github.com/guildofheroes/goh-api/internal/queue"
	"github.com/guildofheroes/goh-api/internal/repository"
	"github.com/guildofheroes/goh-api/internal/router"
	"github.com/guildofheroes/goh-api/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		slog.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := database.ApplyMigrations(db, "migrations"); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	metrics.MustRegister()

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	links := repository.NewMagicLinkRepo(db)
	audit := repository.NewAuditRepo(db)
	campaigns := repository.NewCampaignRepo(db)

	authSvc := service.NewAuthService(users, links, service.NewSessionManager(sessions), audit,
		metrics.PrometheusRecorder{}, service.TokenConfig{
			JWTSecret:        cfg.JWTSecret,
			AccessTTLMinutes: cfg.AccessTTLMinutes,
			RefreshTTLDays:   cfg.RefreshTTLDays,
			MagicLinkTTLMin:  cfg.MagicLinkTTLMin,
			BcryptCost:       cfg.BcryptCost,
		})
	authSvc.Notifier = queue.NewPublisher(cfg.AMQPURL)

	// Mail consumer runs in-process; in production it would be its own
	// deployment.
	go queue.StartMailerConsumer(cfg.AMQPURL)

	rdb := config.NewRedisClient(cfg)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Cfg:       cfg,
		Redis:     rdb,
		Auth:      handler.NewAuthHandler(authSvc),
		Users:     handler.NewUserHandler(users, audit),
		Campaigns: handler.NewCampaignHandler(campaigns, audit),
	})

	slog.Info("starting server", "port", cfg.Port, "env", cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
