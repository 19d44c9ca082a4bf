package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tg "github.com/WhoYa/EverNeed-Door/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

var editableFields = []struct {
	Field string
	Label string
}{
	{"name", "Название"},
	{"description", "Описание"},
	{"discount_type", "Тип скидки"},
	{"discount_value", "Значение скидки"},
	{"start_date", "Дата начала"},
	{"end_date", "Дата окончания"},
}

func (h *Handler) handleEditPromotion(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	promoID, ok := callbackSuffixID(update.CallbackQuery.Data, "edit_promotion_")
	if !ok {
		return
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(editableFields)+1)
	for _, f := range editableFields {
		rows = append(rows, tg.ButtonRow(tg.InlineButton(
			f.Label, fmt.Sprintf("edit_field_%s_%d", f.Field, promoID),
		)))
	}
	rows = append(rows, tg.BackRow(fmt.Sprintf("promotion_%d", promoID)))

	edit(ctx, b, chatID, messageID, "✏️ Что изменить?", tg.InlineKeyboard(rows...))
}

func (h *Handler) handleEditField(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}

	// edit_field_<field>_<id>, where field itself contains underscores.
	rest := strings.TrimPrefix(update.CallbackQuery.Data, "edit_field_")
	sep := strings.LastIndex(rest, "_")
	if sep < 0 {
		return
	}
	field := rest[:sep]
	promoID, err := strconv.ParseInt(rest[sep+1:], 10, 64)
	if err != nil {
		return
	}

	p, err := h.promotions.Get(ctx, promoID)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Акция не найдена.", nil)
		return
	}
	reply, ok := h.wizard.StartEdit(chatID, p, field)
	if !ok {
		return
	}
	edit(ctx, b, chatID, messageID, reply.Text, tg.InlineKeyboard(
		tg.BackRow(fmt.Sprintf("promotion_%d", promoID)),
	))
}

func (h *Handler) handleTogglePromoStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	admin := adminFromCallback(ctx)
	if admin == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	promoID, ok := callbackSuffixID(update.CallbackQuery.Data, "toggle_promo_status_")
	if !ok {
		return
	}

	if _, err := h.promotions.ToggleActive(ctx, admin.ID, promoID); err != nil {
		answerAlert(ctx, b, update, "❌ Не удалось изменить статус акции.")
		return
	}
	h.showPromotionDetails(ctx, b, chatID, messageID, promoID)
}

func (h *Handler) handleDeletePromotion(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	promoID, ok := callbackSuffixID(update.CallbackQuery.Data, "delete_promotion_")
	if !ok {
		return
	}
	p, err := h.promotions.Get(ctx, promoID)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Акция не найдена.", nil)
		return
	}

	edit(ctx, b, chatID, messageID,
		fmt.Sprintf("Удалить акцию «%s»?\n\nСвязи с товарами тоже будут удалены. Это действие необратимо.", p.Name),
		tg.InlineKeyboard(
			tg.ButtonRow(
				tg.InlineButton("🗑 Да, удалить", fmt.Sprintf("confirm_delete_%d", promoID)),
				tg.InlineButton("❌ Отмена", fmt.Sprintf("promotion_%d", promoID)),
			),
		))
}

func (h *Handler) handleConfirmDelete(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	admin := adminFromCallback(ctx)
	if admin == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	promoID, ok := callbackSuffixID(update.CallbackQuery.Data, "confirm_delete_")
	if !ok {
		return
	}

	if err := h.promotions.Delete(ctx, admin.ID, promoID); err != nil {
		answerAlert(ctx, b, update, "❌ Не удалось удалить акцию.")
		return
	}
	h.opsLogger.LogPromotionDeleted(admin.TelegramID, promoID)
	h.showPromotionList(ctx, b, chatID, messageID, 0)
}

func (h *Handler) handlePromoProducts(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	promoID, ok := callbackSuffixID(update.CallbackQuery.Data, "promo_products_")
	if !ok {
		return
	}
	h.showPromoProducts(ctx, b, chatID, messageID, promoID)
}

// showPromoProducts renders the linked-products checklist for an existing
// promotion. Unlike the creation wizard this writes through on every tap.
func (h *Handler) showPromoProducts(ctx context.Context, b *bot.Bot, chatID int64, messageID int, promoID int64) {
	products, err := h.products.ListAll(ctx)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Не удалось загрузить список товаров.", nil)
		return
	}
	if len(products) == 0 {
		edit(ctx, b, chatID, messageID, "❌ Нет доступных товаров.", tg.InlineKeyboard(
			tg.BackRow(fmt.Sprintf("promotion_%d", promoID)),
		))
		return
	}
	linked, err := h.promotions.ProductIDs(ctx, promoID)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Не удалось загрузить товары акции.", nil)
		return
	}
	selected := tg.SelectedSet(linked)

	rows := make([][]models.InlineKeyboardButton, 0, len(products)+1)
	for _, p := range products {
		label := p.Name
		if selected[p.ID] {
			label = "✅ " + label
		}
		rows = append(rows, tg.ButtonRow(tg.InlineButton(
			label, fmt.Sprintf("pp_toggle_%d_%d", promoID, p.ID),
		)))
	}
	rows = append(rows, tg.BackRow(fmt.Sprintf("promotion_%d", promoID)))

	edit(ctx, b, chatID, messageID,
		"🛍 Товары акции\n\nНажмите на товар, чтобы привязать или отвязать его:",
		tg.InlineKeyboard(rows...))
}

func (h *Handler) handlePromoProductToggle(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	admin := adminFromCallback(ctx)
	if admin == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}

	// pp_toggle_<promoID>_<productID>
	rest := strings.TrimPrefix(update.CallbackQuery.Data, "pp_toggle_")
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 {
		return
	}
	promoID, err1 := strconv.ParseInt(parts[0], 10, 64)
	productID, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return
	}

	linked, err := h.promotions.ProductIDs(ctx, promoID)
	if err != nil {
		answerAlert(ctx, b, update, "❌ Не удалось загрузить товары акции.")
		return
	}
	if tg.SelectedSet(linked)[productID] {
		err = h.promotions.Remove(ctx, admin.ID, promoID, productID)
	} else {
		err = h.promotions.Apply(ctx, admin.ID, promoID, productID)
	}
	if err != nil {
		answerAlert(ctx, b, update, "❌ Не удалось изменить привязку товара.")
		return
	}
	h.showPromoProducts(ctx, b, chatID, messageID, promoID)
}
