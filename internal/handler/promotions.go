package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/WhoYa/EverNeed-Door/internal/config"
	"github.com/WhoYa/EverNeed-Door/internal/domain"
	tg "github.com/WhoYa/EverNeed-Door/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// discountLine renders a promotion's discount for list and detail views,
// e.g. "скидка 15%" or "скидка 500₽".
func discountLine(p *domain.Promotion) string {
	if p.DiscountType == domain.DiscountPercentage {
		return fmt.Sprintf("скидка %s%%", p.DiscountValue.String())
	}
	return fmt.Sprintf("скидка %s₽", p.DiscountValue.String())
}

func (h *Handler) handleManagePromotions(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	h.showPromotionList(ctx, b, chatID, messageID, 0)
}

func (h *Handler) handlePromoPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	page, ok := callbackSuffixID(update.CallbackQuery.Data, "promo_page_")
	if !ok {
		return
	}
	h.showPromotionList(ctx, b, chatID, messageID, int(page))
}

func (h *Handler) showPromotionList(ctx context.Context, b *bot.Bot, chatID int64, messageID int, page int) {
	perPage := config.PromotionsPerPage
	promos, err := h.promotions.List(ctx, perPage, page*perPage)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Не удалось загрузить акции.", nil)
		return
	}
	total, err := h.promotions.Count(ctx)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Не удалось загрузить акции.", nil)
		return
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(promos)+3)
	now := time.Now()
	for _, p := range promos {
		mark := "🔴"
		if p.IsValidAt(now) {
			mark = "🟢"
		} else if p.IsActive {
			mark = "🟡" // enabled but outside its window
		}
		rows = append(rows, tg.ButtonRow(tg.InlineButton(
			fmt.Sprintf("%s %s", mark, p.Name),
			fmt.Sprintf("promotion_%d", p.ID),
		)))
	}

	totalPages := (int(total) + perPage - 1) / perPage
	if totalPages > 1 {
		rows = append(rows, tg.PaginationRow(page, totalPages, "promo_page"))
	}
	rows = append(rows,
		tg.ButtonRow(tg.InlineButton("➕ Добавить акцию", "add_promotion")),
		tg.BackRow("admin_main"),
	)

	text := "🏷 Управление акциями"
	if len(promos) == 0 {
		text += "\n\nАкций пока нет."
	}
	edit(ctx, b, chatID, messageID, text, tg.InlineKeyboard(rows...))
}

func (h *Handler) handlePromotionDetails(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	promoID, ok := callbackSuffixID(update.CallbackQuery.Data, "promotion_")
	if !ok {
		return
	}
	h.showPromotionDetails(ctx, b, chatID, messageID, promoID)
}

func (h *Handler) showPromotionDetails(ctx context.Context, b *bot.Bot, chatID int64, messageID int, promoID int64) {
	p, err := h.promotions.Get(ctx, promoID)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Акция не найдена.", tg.InlineKeyboard(
			tg.BackRow("manage_promotions"),
		))
		return
	}
	products, err := h.promotions.Products(ctx, promoID, false)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Не удалось загрузить товары акции.", nil)
		return
	}

	edit(ctx, b, chatID, messageID, renderPromotionDetails(p, products), promotionDetailsKeyboard(p))
}

func renderPromotionDetails(p *domain.Promotion, products []domain.Product) string {
	status := "🔴 отключена"
	now := time.Now()
	switch {
	case p.IsValidAt(now):
		status = "🟢 действует"
	case p.IsActive:
		status = "🟡 включена, вне периода"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏷 Акция #%d\n\n", p.ID))
	sb.WriteString(fmt.Sprintf("Название: %s\n", p.Name))
	if p.Description != "" {
		sb.WriteString(fmt.Sprintf("Описание: %s\n", p.Description))
	}
	if p.DiscountType == domain.DiscountPercentage {
		sb.WriteString(fmt.Sprintf("Скидка: %s%%\n", p.DiscountValue.String()))
	} else {
		sb.WriteString(fmt.Sprintf("Скидка: %s₽\n", p.DiscountValue.String()))
	}
	end := "бессрочно"
	if p.EndDate != nil {
		end = p.EndDate.Format(config.DateFormat)
	}
	sb.WriteString(fmt.Sprintf("Период: с %s по %s\n", p.StartDate.Format(config.DateFormat), end))
	sb.WriteString(fmt.Sprintf("Статус: %s\n", status))

	if len(products) == 0 {
		sb.WriteString("\nТовары: не выбраны")
	} else {
		sb.WriteString("\nТовары:\n")
		for _, pr := range products {
			sb.WriteString(fmt.Sprintf("• %s — %s₽\n", pr.Name, pr.Price.StringFixed(2)))
		}
	}
	return sb.String()
}

func promotionDetailsKeyboard(p *domain.Promotion) *models.InlineKeyboardMarkup {
	toggleLabel := "🔴 Отключить"
	if !p.IsActive {
		toggleLabel = "🟢 Включить"
	}
	return tg.InlineKeyboard(
		tg.ButtonRow(
			tg.InlineButton("✏️ Редактировать", fmt.Sprintf("edit_promotion_%d", p.ID)),
			tg.InlineButton(toggleLabel, fmt.Sprintf("toggle_promo_status_%d", p.ID)),
		),
		tg.ButtonRow(
			tg.InlineButton("🛍 Товары", fmt.Sprintf("promo_products_%d", p.ID)),
			tg.InlineButton("🗑 Удалить", fmt.Sprintf("delete_promotion_%d", p.ID)),
		),
		tg.BackRow("manage_promotions"),
	)
}
