package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/WhoYa/EverNeed-Door/internal/config"
	"github.com/WhoYa/EverNeed-Door/internal/domain"
	tg "github.com/WhoYa/EverNeed-Door/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func adminMenuKeyboard() *models.InlineKeyboardMarkup {
	return tg.InlineKeyboard(
		tg.ButtonRow(tg.InlineButton("🏷 Управление акциями", "manage_promotions")),
		tg.ButtonRow(tg.InlineButton("🔔 Управление подписками", "manage_subscriptions")),
	)
}

func (h *Handler) handleAdminMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	if adminFromCallback(ctx) == nil {
		return
	}
	send(ctx, b, update.Message.Chat.ID, "🔧 Админ-панель\n\nВыберите раздел:", adminMenuKeyboard())
}

func (h *Handler) handleAdminMain(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	edit(ctx, b, chatID, messageID, "🔧 Админ-панель\n\nВыберите раздел:", adminMenuKeyboard())
}

func (h *Handler) handleStat(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || adminFromCallback(ctx) == nil {
		return
	}
	chatID := update.Message.Chat.ID

	totalUsers, _ := h.users.Count(ctx)
	totalProducts, _ := h.products.Count(ctx)
	totalPromos, _ := h.promotions.Count(ctx)
	validPromos, _ := h.promotions.ListValid(ctx)
	totalLogs, _ := h.audit.Count(ctx)
	subsProducts, _ := h.subs.CountByType(ctx, domain.SubscriptionNewProducts)
	subsPromos, _ := h.subs.CountByType(ctx, domain.SubscriptionPromotions)

	text := fmt.Sprintf(
		"📊 Статистика\n\n"+
			"👥 Пользователей: %d\n"+
			"🛍 Товаров: %d\n\n"+
			"🏷 Акций всего: %d\n"+
			"Действующих: %d\n\n"+
			"🔔 Подписчики на товары: %d\n"+
			"Подписчики на акции: %d\n\n"+
			"📒 Записей в журнале: %d",
		totalUsers, totalProducts, totalPromos, len(validPromos),
		subsProducts, subsPromos, totalLogs,
	)
	send(ctx, b, chatID, text, nil)
}

func (h *Handler) handleLogs(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || adminFromCallback(ctx) == nil {
		return
	}
	text, markup, err := h.renderLogsPage(ctx, 0)
	if err != nil {
		send(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить журнал.", nil)
		return
	}
	send(ctx, b, update.Message.Chat.ID, text, markup)
}

func (h *Handler) handleLogsPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	page, ok := callbackSuffixID(update.CallbackQuery.Data, "logs_page_")
	if !ok {
		return
	}
	text, markup, err := h.renderLogsPage(ctx, int(page))
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Не удалось загрузить журнал.", nil)
		return
	}
	edit(ctx, b, chatID, messageID, text, markup)
}

func (h *Handler) renderLogsPage(ctx context.Context, page int) (string, models.ReplyMarkup, error) {
	perPage := config.LogsPerPage
	entries, err := h.audit.Recent(ctx, perPage, page*perPage)
	if err != nil {
		return "", nil, err
	}
	total, err := h.audit.Count(ctx)
	if err != nil {
		return "", nil, err
	}

	if len(entries) == 0 {
		return "📒 Журнал действий пуст.", nil, nil
	}

	var sb strings.Builder
	sb.WriteString("📒 Журнал действий:\n\n")
	for _, e := range entries {
		entity := e.EntityType
		if e.EntityID != nil {
			entity = fmt.Sprintf("%s #%d", e.EntityType, *e.EntityID)
		}
		sb.WriteString(fmt.Sprintf("%s — админ %d: %s (%s)\n",
			e.CreatedAt.Format("02.01 15:04"), e.AdminID, e.Action, entity))
		if e.Details != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", e.Details))
		}
	}

	totalPages := (int(total) + perPage - 1) / perPage
	var markup models.ReplyMarkup
	if totalPages > 1 {
		markup = tg.InlineKeyboard(tg.PaginationRow(page, totalPages, "logs_page"))
	}
	return sb.String(), markup, nil
}
