package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/WhoYa/EverNeed-Door/internal/middleware"
	"github.com/WhoYa/EverNeed-Door/internal/service"
	tg "github.com/WhoYa/EverNeed-Door/internal/telegram"
	"github.com/WhoYa/EverNeed-Door/internal/wizard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func cancelKeyboard() *models.InlineKeyboardMarkup {
	return tg.InlineKeyboard(
		tg.ButtonRow(tg.InlineButton("❌ Отмена", "cancel_add_promotion")),
	)
}

func (h *Handler) handleAddPromotion(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	reply := h.wizard.StartCreate(chatID)
	edit(ctx, b, chatID, messageID, reply.Text, cancelKeyboard())
}

func (h *Handler) handleSelectProduct(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	productID, ok := callbackSuffixID(update.CallbackQuery.Data, "select_product_")
	if !ok {
		return
	}

	selected, ok := h.wizard.ToggleProduct(chatID, productID)
	if !ok {
		answerAlert(ctx, b, update, "Сессия создания акции не активна.")
		return
	}
	h.showProductSelection(ctx, b, chatID, messageID, selected)
}

// showProductSelection renders (or re-renders) the product checklist step.
// With no products in the catalog the wizard cannot finish, so the session
// is dropped.
func (h *Handler) showProductSelection(ctx context.Context, b *bot.Bot, chatID int64, messageID int, selected []int64) {
	products, err := h.products.ListAll(ctx)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Не удалось загрузить список товаров.", nil)
		return
	}
	if len(products) == 0 {
		h.wizard.Cancel(chatID)
		edit(ctx, b, chatID, messageID,
			"❌ Нет доступных товаров. Сначала добавьте товары в каталог.",
			tg.InlineKeyboard(tg.BackRow("manage_promotions")))
		return
	}
	markup := tg.ProductSelectionKeyboard(products, tg.SelectedSet(selected))
	if messageID != 0 {
		edit(ctx, b, chatID, messageID, "Выберите товары, к которым применяется акция:", markup)
	} else {
		send(ctx, b, chatID, "Выберите товары, к которым применяется акция:", markup)
	}
}

func (h *Handler) handleConfirmProducts(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	session, ok := h.wizard.ConfirmProducts(chatID)
	if !ok {
		answerAlert(ctx, b, update, "Сессия создания акции не активна.")
		return
	}
	edit(ctx, b, chatID, messageID, wizard.Summary(&session.Draft), tg.InlineKeyboard(
		tg.ButtonRow(
			tg.InlineButton("✅ Создать", "confirm_add_promotion"),
			tg.InlineButton("❌ Отмена", "cancel_add_promotion"),
		),
		tg.ButtonRow(tg.InlineButton("⬅️ Назад", "wizard_back")),
	))
}

var errNoPendingConfirm = errors.New("no wizard session awaiting confirmation")

// createFromSession materializes a confirmed draft. The session is consumed
// on every branch: a failed insert must not leave a half-dead wizard behind.
// After a successful create the promotions audience is announced; a failed
// announcement does not undo the created promotion.
func (h *Handler) createFromSession(ctx context.Context, chatID int64, admin *domain.User) (*domain.Promotion, *service.FanoutReport, error) {
	session, ok := h.wizard.Session(chatID)
	if !ok || session.Step != wizard.StepConfirm {
		return nil, nil, errNoPendingConfirm
	}
	d := session.Draft
	h.wizard.Cancel(chatID)

	p, err := h.promotions.Create(ctx, service.CreateInput{
		Promotion:  d.Promotion(admin.ID),
		ProductIDs: d.SelectedProducts,
	})
	if err != nil {
		return nil, nil, err
	}

	report, err := h.announcer.Announce(ctx, admin.ID, p)
	if err != nil {
		slog.Error("promotion announcement failed", "promo_id", p.ID, "error", err)
		return p, nil, nil
	}
	return p, report, nil
}

func (h *Handler) handleConfirmAddPromotion(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	admin := adminFromCallback(ctx)
	if admin == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}

	p, report, err := h.createFromSession(ctx, chatID, admin)
	if errors.Is(err, errNoPendingConfirm) {
		answerAlert(ctx, b, update, "Сессия создания акции не активна.")
		return
	}
	if err != nil {
		h.opsLogger.LogError(err, "create promotion")
		edit(ctx, b, chatID, messageID, "❌ Не удалось создать акцию. Попробуйте ещё раз.",
			tg.InlineKeyboard(tg.BackRow("manage_promotions")))
		return
	}
	h.opsLogger.LogPromotionCreated(admin.TelegramID, p.ID, p.Name)

	text := fmt.Sprintf("✅ Акция «%s» создана!", p.Name)
	if report != nil && report.Attempted > 0 {
		text += fmt.Sprintf("\n📣 Уведомлено подписчиков: %d из %d", report.Succeeded, report.Attempted)
	}
	send(ctx, b, chatID, text, nil)
	h.showPromotionDetails(ctx, b, chatID, messageID, p.ID)
}

func (h *Handler) handleCancelAddPromotion(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	h.wizard.Cancel(chatID)
	if middleware.GetUser(ctx) != nil && middleware.GetUser(ctx).IsAdmin {
		h.showPromotionList(ctx, b, chatID, messageID, 0)
		return
	}
	edit(ctx, b, chatID, messageID, "Создание акции отменено.", nil)
}

func (h *Handler) handleWizardBack(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	if adminFromCallback(ctx) == nil {
		return
	}
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	reply, ok := h.wizard.Back(chatID)
	if !ok {
		h.wizard.Cancel(chatID)
		h.showPromotionList(ctx, b, chatID, messageID, 0)
		return
	}
	if reply.Step == wizard.StepProducts {
		session, _ := h.wizard.Session(chatID)
		h.showProductSelection(ctx, b, chatID, messageID, session.Draft.SelectedProducts)
		return
	}
	edit(ctx, b, chatID, messageID, reply.Text, cancelKeyboard())
}
