package handler

import (
	"context"
	"fmt"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/WhoYa/EverNeed-Door/internal/middleware"
	tg "github.com/WhoYa/EverNeed-Door/internal/telegram"
	"github.com/WhoYa/EverNeed-Door/internal/wizard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	audienceEveryone    = "everyone"
	audienceNewProducts = "new_products"
	audiencePromotions  = "promotions"
)

func audienceLabel(audience string) string {
	switch audience {
	case audienceEveryone:
		return "все пользователи"
	case audienceNewProducts:
		return "подписчики на новые товары"
	case audiencePromotions:
		return "подписчики на акции"
	}
	return audience
}

func (h *Handler) handleSubscriptions(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	text, markup, err := h.renderSubscriptionMenu(ctx, user.ID)
	if err != nil {
		send(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить подписки.", nil)
		return
	}
	send(ctx, b, update.Message.Chat.ID, text, markup)
}

func (h *Handler) handleSubToggle(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	t, err := domain.ParseSubscriptionType(update.CallbackQuery.Data[len("sub_toggle_"):])
	if err != nil {
		return
	}

	if _, err := h.subs.Toggle(ctx, user.ID, t); err != nil {
		answerAlert(ctx, b, update, "❌ Не удалось изменить подписку.")
		return
	}
	text, markup, err := h.renderSubscriptionMenu(ctx, user.ID)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Не удалось загрузить подписки.", nil)
		return
	}
	edit(ctx, b, chatID, messageID, text, markup)
}

func (h *Handler) renderSubscriptionMenu(ctx context.Context, userID int64) (string, models.ReplyMarkup, error) {
	status, err := h.subs.Status(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	row := func(label string, t domain.SubscriptionType) []models.InlineKeyboardButton {
		mark := "🔕"
		if status[t] {
			mark = "🔔"
		}
		return tg.ButtonRow(tg.InlineButton(
			fmt.Sprintf("%s %s", mark, label),
			"sub_toggle_"+t.String(),
		))
	}

	markup := tg.InlineKeyboard(
		row("Новые товары", domain.SubscriptionNewProducts),
		row("Акции и скидки", domain.SubscriptionPromotions),
		row("Все уведомления", domain.SubscriptionAll),
	)
	text := "🔔 Ваши подписки\n\n" +
		"Нажмите на пункт, чтобы включить или отключить уведомления.\n" +
		"«Все уведомления» включает обе категории сразу."
	return text, markup, nil
}

func (h *Handler) handleManageSubscriptions(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	h.wizard.Cancel(chatID) // drops an abandoned broadcast draft
	edit(ctx, b, chatID, messageID, "🔔 Управление подписками", tg.InlineKeyboard(
		tg.ButtonRow(tg.InlineButton("📣 Отправить уведомление", "send_notification")),
		tg.ButtonRow(tg.InlineButton("📊 Статистика подписок", "subscription_stats")),
		tg.BackRow("admin_main"),
	))
}

func (h *Handler) handleSendNotification(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	edit(ctx, b, chatID, messageID, "📣 Кому отправить уведомление?", tg.InlineKeyboard(
		tg.ButtonRow(tg.InlineButton("👥 Всем пользователям", "notify_"+audienceEveryone)),
		tg.ButtonRow(tg.InlineButton("🆕 Подписчикам на товары", "notify_"+audienceNewProducts)),
		tg.ButtonRow(tg.InlineButton("🏷 Подписчикам на акции", "notify_"+audiencePromotions)),
		tg.BackRow("manage_subscriptions"),
	))
}

func (h *Handler) handleNotifyAudience(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	audience := update.CallbackQuery.Data[len("notify_"):]
	switch audience {
	case audienceEveryone, audienceNewProducts, audiencePromotions:
	default:
		return
	}

	reply := h.wizard.StartBroadcast(chatID, audience)
	edit(ctx, b, chatID, messageID,
		fmt.Sprintf("Получатели: %s\n\n%s", audienceLabel(audience), reply.Text),
		tg.InlineKeyboard(tg.BackRow("send_notification")))
}

func (h *Handler) handleConfirmSend(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	admin := adminFromCallback(ctx)
	if admin == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	session, ok := h.wizard.Session(chatID)
	if !ok || session.Step != wizard.StepBroadcastConfirm {
		answerAlert(ctx, b, update, "Сессия отправки уведомления не активна.")
		return
	}
	audience := session.BroadcastAudience
	text := session.BroadcastText
	h.wizard.Cancel(chatID)

	recipients, err := h.resolveAudience(ctx, audience)
	if err != nil {
		h.opsLogger.LogError(err, "resolve notification audience")
		edit(ctx, b, chatID, messageID, "❌ Не удалось определить получателей.", nil)
		return
	}
	if len(recipients) == 0 {
		edit(ctx, b, chatID, messageID, "⚠️ В выбранной аудитории нет получателей.", tg.InlineKeyboard(
			tg.BackRow("manage_subscriptions"),
		))
		return
	}

	edit(ctx, b, chatID, messageID, fmt.Sprintf("⏳ Отправляю уведомление (%d получателей)...", len(recipients)), nil)

	report, err := h.notify.SendFanout(ctx, admin.ID, recipients, text)
	if err != nil {
		h.opsLogger.LogError(err, "send notification")
		send(ctx, b, chatID, "❌ Не удалось отправить уведомление.", nil)
		return
	}
	h.opsLogger.LogBroadcast(admin.TelegramID, audience, report.Attempted, report.Succeeded, report.Failed)

	send(ctx, b, chatID, fmt.Sprintf(
		"✅ Рассылка завершена.\n\n"+
			"Получатели: %s\n"+
			"Всего: %d\n"+
			"Доставлено: %d\n"+
			"Не доставлено: %d",
		audienceLabel(audience), report.Attempted, report.Succeeded, report.Failed,
	), tg.InlineKeyboard(tg.BackRow("manage_subscriptions")))
}

func (h *Handler) resolveAudience(ctx context.Context, audience string) ([]int64, error) {
	switch audience {
	case audienceEveryone:
		return h.targeting.ResolveBroadcast(ctx)
	case audienceNewProducts:
		return h.targeting.Resolve(ctx, domain.SubscriptionNewProducts)
	case audiencePromotions:
		return h.targeting.Resolve(ctx, domain.SubscriptionPromotions)
	}
	return nil, fmt.Errorf("unknown audience %q", audience)
}

func (h *Handler) handleSubscriptionStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}

	newProducts, err1 := h.subs.CountByType(ctx, domain.SubscriptionNewProducts)
	promotions, err2 := h.subs.CountByType(ctx, domain.SubscriptionPromotions)
	everyone, err3 := h.users.Count(ctx)
	if err1 != nil || err2 != nil || err3 != nil {
		edit(ctx, b, chatID, messageID, "❌ Не удалось загрузить статистику.", nil)
		return
	}

	edit(ctx, b, chatID, messageID, fmt.Sprintf(
		"📊 Статистика подписок\n\n"+
			"🆕 Новые товары: %d\n"+
			"🏷 Акции: %d\n"+
			"👥 Всего пользователей: %d",
		newProducts, promotions, everyone,
	), tg.InlineKeyboard(tg.BackRow("manage_subscriptions")))
}
