package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/admin", bot.MatchTypePrefix, h.handleAdminMenu)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/subscriptions", bot.MatchTypePrefix, h.handleSubscriptions)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/promos", bot.MatchTypePrefix, h.handleActivePromotions)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stat", bot.MatchTypePrefix, h.handleStat)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logs", bot.MatchTypePrefix, h.handleLogs)

	// Main menus
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "admin_main", bot.MatchTypeExact, h.handleAdminMain)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "catalog", bot.MatchTypeExact, h.handleCatalog)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "active_promos", bot.MatchTypeExact, h.handleActivePromosCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "favorites", bot.MatchTypeExact, h.handleFavorites)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "fav_toggle_", bot.MatchTypePrefix, h.handleFavToggle)

	// Promotion management
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "manage_promotions", bot.MatchTypeExact, h.handleManagePromotions)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "promo_page_", bot.MatchTypePrefix, h.handlePromoPage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "promotion_", bot.MatchTypePrefix, h.handlePromotionDetails)

	// Creation wizard
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "add_promotion", bot.MatchTypeExact, h.handleAddPromotion)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "select_product_", bot.MatchTypePrefix, h.handleSelectProduct)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "confirm_product_selection", bot.MatchTypeExact, h.handleConfirmProducts)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "confirm_add_promotion", bot.MatchTypeExact, h.handleConfirmAddPromotion)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "cancel_add_promotion", bot.MatchTypeExact, h.handleCancelAddPromotion)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wizard_back", bot.MatchTypeExact, h.handleWizardBack)

	// Edit / toggle / delete
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "edit_promotion_", bot.MatchTypePrefix, h.handleEditPromotion)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "edit_field_", bot.MatchTypePrefix, h.handleEditField)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "toggle_promo_status_", bot.MatchTypePrefix, h.handleTogglePromoStatus)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "delete_promotion_", bot.MatchTypePrefix, h.handleDeletePromotion)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "confirm_delete_", bot.MatchTypePrefix, h.handleConfirmDelete)

	// Product management on an existing promotion
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "promo_products_", bot.MatchTypePrefix, h.handlePromoProducts)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "pp_toggle_", bot.MatchTypePrefix, h.handlePromoProductToggle)

	// Subscriptions
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "sub_toggle_", bot.MatchTypePrefix, h.handleSubToggle)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "manage_subscriptions", bot.MatchTypeExact, h.handleManageSubscriptions)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "send_notification", bot.MatchTypeExact, h.handleSendNotification)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "notify_", bot.MatchTypePrefix, h.handleNotifyAudience)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "confirm_send", bot.MatchTypeExact, h.handleConfirmSend)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "subscription_stats", bot.MatchTypeExact, h.handleSubscriptionStats)

	// Audit log paging
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "logs_page_", bot.MatchTypePrefix, h.handleLogsPage)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "cur", bot.MatchTypeExact, h.handleNoop)
}

// handleNoop acknowledges callbacks from non-interactive buttons such as
// the pagination indicator.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}
