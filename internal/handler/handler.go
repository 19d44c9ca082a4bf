package handler

import (
	"github.com/WhoYa/EverNeed-Door/internal/config"
	"github.com/WhoYa/EverNeed-Door/internal/repository"
	"github.com/WhoYa/EverNeed-Door/internal/service"
	"github.com/WhoYa/EverNeed-Door/internal/telegram"
	"github.com/WhoYa/EverNeed-Door/internal/wizard"
	"github.com/go-telegram/bot"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot        *bot.Bot
	cfg        *config.Config
	promotions *service.PromotionService
	subs       *service.SubscriptionService
	targeting  *service.TargetingService
	notify     *service.NotificationService
	announcer  *service.PromotionAnnouncer
	audit      *service.AuditService
	products   *repository.Products
	users      *repository.Users
	favorites  *repository.Favorites
	wizard     *wizard.Manager
	opsLogger  *telegram.OpsLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot        *bot.Bot
	Cfg        *config.Config
	Promotions *service.PromotionService
	Subs       *service.SubscriptionService
	Targeting  *service.TargetingService
	Notify     *service.NotificationService
	Announcer  *service.PromotionAnnouncer
	Audit      *service.AuditService
	Products   *repository.Products
	Users      *repository.Users
	Favorites  *repository.Favorites
	Wizard     *wizard.Manager
	OpsLogger  *telegram.OpsLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:        deps.Bot,
		cfg:        deps.Cfg,
		promotions: deps.Promotions,
		subs:       deps.Subs,
		targeting:  deps.Targeting,
		notify:     deps.Notify,
		announcer:  deps.Announcer,
		audit:      deps.Audit,
		products:   deps.Products,
		users:      deps.Users,
		favorites:  deps.Favorites,
		wizard:     deps.Wizard,
		opsLogger:  deps.OpsLogger,
	}
}
