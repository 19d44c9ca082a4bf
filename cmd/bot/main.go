package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	everneed "github.com/WhoYa/EverNeed-Door"
	"github.com/WhoYa/EverNeed-Door/internal/config"
	"github.com/WhoYa/EverNeed-Door/internal/handler"
	"github.com/WhoYa/EverNeed-Door/internal/middleware"
	"github.com/WhoYa/EverNeed-Door/internal/repository"
	"github.com/WhoYa/EverNeed-Door/internal/service"
	"github.com/WhoYa/EverNeed-Door/internal/telegram"
	"github.com/WhoYa/EverNeed-Door/internal/wizard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	migrations, err := fs.Sub(everneed.MigrationsFS, "migrations")
	if err != nil {
		return err
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrations); err != nil {
		return err
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	users := repository.NewUsers(pool)
	products := repository.NewProducts(pool)
	promotions := repository.NewPromotions(pool)
	subscriptions := repository.NewSubscriptions(pool)
	auditLogs := repository.NewAuditLogs(pool)
	favorites := repository.NewFavorites(pool)
	rateLimits := repository.NewRateLimits(pool)

	// The default handler routes free text into the wizard; the handler
	// set is built after the bot, so dispatch through the closure.
	var h *handler.Handler
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(rateLimits),
			middleware.UserLoader(users, cfg),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h != nil {
				h.HandleText(ctx, b, update)
			}
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return err
	}
	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	auditSvc := service.NewAuditService(auditLogs)
	promoSvc := service.NewPromotionService(promotions, auditSvc)
	subSvc := service.NewSubscriptionService(subscriptions)
	targetSvc := service.NewTargetingService(subscriptions, users)
	notifySvc := service.NewNotificationService(telegram.NewSender(b), users, auditSvc)
	announcer := service.NewPromotionAnnouncer(targetSvc, notifySvc)

	h = handler.New(handler.Deps{
		Bot:        b,
		Cfg:        cfg,
		Promotions: promoSvc,
		Subs:       subSvc,
		Targeting:  targetSvc,
		Notify:     notifySvc,
		Announcer:  announcer,
		Audit:      auditSvc,
		Products:   products,
		Users:      users,
		Favorites:  favorites,
		Wizard:     wizard.New(wizard.NewMemoryStore()),
		OpsLogger:  telegram.NewOpsLogger(b, cfg),
	})
	h.Register()

	go cleanupRateLimits(ctx, rateLimits)

	slog.Info("bot started", "admins", len(cfg.AdminIDs))
	b.Start(ctx)
	slog.Info("bot shut down")
	return nil
}

func cleanupRateLimits(ctx context.Context, limits *repository.RateLimits) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := limits.CleanupStale(ctx); err != nil {
				slog.Warn("rate limit cleanup failed", "error", err)
			}
		}
	}
}
