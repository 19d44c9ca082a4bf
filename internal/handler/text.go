package handler

import (
	"context"
	"fmt"
	"strings"

	tg "github.com/WhoYa/EverNeed-Door/internal/telegram"
	"github.com/WhoYa/EverNeed-Door/internal/wizard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleText routes free-form text into the active wizard session of the
// chat, if any. Registered as the bot's default handler, so it also sees
// callback updates and unknown commands, which it ignores.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.Chat.Type != "private" || msg.Text == "" {
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		return
	}
	chatID := msg.Chat.ID

	session, ok := h.wizard.Session(chatID)
	if !ok {
		return
	}
	// Sessions only start from admin callbacks; if the user lost admin
	// rights mid-flow, drop the session rather than act on it.
	if adminFromCallback(ctx) == nil {
		h.wizard.Cancel(chatID)
		return
	}

	reply, ok := h.wizard.Input(chatID, strings.TrimSpace(msg.Text))
	if !ok {
		return
	}

	if reply.Invalid {
		if reply.Text != "" {
			send(ctx, b, chatID, reply.Text, nil)
		}
		return
	}

	switch {
	case reply.Done:
		h.finishFieldEdit(ctx, b, chatID, session.EditPromoID, reply.Field, reply.Value)

	case reply.Step == wizard.StepProducts:
		s, _ := h.wizard.Session(chatID)
		var selected []int64
		if s != nil {
			selected = s.Draft.SelectedProducts
		}
		h.showProductSelection(ctx, b, chatID, 0, selected)

	case reply.Step == wizard.StepBroadcastConfirm:
		h.showBroadcastConfirm(ctx, b, chatID)

	default:
		send(ctx, b, chatID, reply.Text, cancelKeyboard())
	}
}

// finishFieldEdit applies the single accepted value from an edit session
// and re-sends the detail view.
func (h *Handler) finishFieldEdit(ctx context.Context, b *bot.Bot, chatID, promoID int64, field string, value any) {
	admin := adminFromCallback(ctx)
	if admin == nil {
		return
	}
	if err := h.promotions.UpdateField(ctx, admin.ID, promoID, field, value); err != nil {
		h.opsLogger.LogError(err, fmt.Sprintf("edit promotion %d field %s", promoID, field))
		send(ctx, b, chatID, "❌ Не удалось сохранить изменение.", nil)
		return
	}

	p, err := h.promotions.Get(ctx, promoID)
	if err != nil {
		send(ctx, b, chatID, "✅ Изменение сохранено.", nil)
		return
	}
	products, _ := h.promotions.Products(ctx, promoID, false)
	send(ctx, b, chatID, "✅ Изменение сохранено.\n\n"+renderPromotionDetails(p, products), promotionDetailsKeyboard(p))
}

func (h *Handler) showBroadcastConfirm(ctx context.Context, b *bot.Bot, chatID int64) {
	session, ok := h.wizard.Session(chatID)
	if !ok {
		return
	}
	send(ctx, b, chatID, fmt.Sprintf(
		"Проверьте уведомление перед отправкой:\n\n"+
			"Получатели: %s\n\n"+
			"%s",
		audienceLabel(session.BroadcastAudience), session.BroadcastText,
	), tg.InlineKeyboard(
		tg.ButtonRow(
			tg.InlineButton("📣 Отправить", "confirm_send"),
			tg.InlineButton("❌ Отмена", "manage_subscriptions"),
		),
	))
}
