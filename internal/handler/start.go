package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/WhoYa/EverNeed-Door/internal/middleware"
	tg "github.com/WhoYa/EverNeed-Door/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	name := user.FirstName
	if name == "" {
		name = "друг"
	}

	rows := [][]models.InlineKeyboardButton{
		tg.ButtonRow(tg.InlineButton("🛍 Каталог", "catalog")),
		tg.ButtonRow(tg.InlineButton("🏷 Акции", "active_promos")),
	}
	if user.IsAdmin {
		rows = append(rows, tg.ButtonRow(tg.InlineButton("🔧 Админ-панель", "admin_main")))
	}

	send(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("Здравствуйте, %s!\n\n"+
			"Это магазин EverNeed. Здесь можно посмотреть каталог, следить за акциями "+
			"и управлять подписками на уведомления (/subscriptions).", name),
		tg.InlineKeyboard(rows...))
}

func (h *Handler) handleCatalog(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	user := middleware.GetUser(ctx)
	chatID, messageID, ok := callbackChat(update)
	if !ok || user == nil {
		return
	}
	h.showCatalog(ctx, b, chatID, messageID, user.ID)
}

func (h *Handler) showCatalog(ctx context.Context, b *bot.Bot, chatID int64, messageID int, userID int64) {
	products, err := h.products.ListAll(ctx)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Не удалось загрузить каталог.", nil)
		return
	}
	if len(products) == 0 {
		edit(ctx, b, chatID, messageID, "Каталог пока пуст.", nil)
		return
	}
	favIDs, err := h.favorites.ProductIDs(ctx, userID)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Не удалось загрузить каталог.", nil)
		return
	}
	favs := tg.SelectedSet(favIDs)

	var sb strings.Builder
	sb.WriteString("🛍 Каталог:\n\n")
	rows := make([][]models.InlineKeyboardButton, 0, len(products)+1)
	for _, p := range products {
		stock := ""
		if !p.InStock {
			stock = " (нет в наличии)"
		}
		promo := ""
		if promos, err := h.promotions.ForProduct(ctx, p.ID); err == nil && len(promos) > 0 {
			promo = fmt.Sprintf(" · 🏷 %s", discountLine(&promos[0]))
		}
		sb.WriteString(fmt.Sprintf("• %s — %s₽%s%s\n", p.Name, p.Price.StringFixed(2), stock, promo))

		star := "☆"
		if favs[p.ID] {
			star = "⭐"
		}
		rows = append(rows, tg.ButtonRow(tg.InlineButton(
			fmt.Sprintf("%s %s", star, p.Name),
			fmt.Sprintf("fav_toggle_%d", p.ID),
		)))
	}
	sb.WriteString("\nНажмите ☆, чтобы добавить товар в избранное.")
	rows = append(rows, tg.ButtonRow(tg.InlineButton("⭐ Избранное", "favorites")))

	edit(ctx, b, chatID, messageID, sb.String(), tg.InlineKeyboard(rows...))
}

func (h *Handler) handleActivePromotions(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	send(ctx, b, update.Message.Chat.ID, h.renderActivePromotions(ctx), nil)
}

func (h *Handler) handleActivePromosCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	edit(ctx, b, chatID, messageID, h.renderActivePromotions(ctx), nil)
}

func (h *Handler) renderActivePromotions(ctx context.Context) string {
	promos, err := h.promotions.ListValid(ctx)
	if err != nil {
		return "❌ Не удалось загрузить акции."
	}
	if len(promos) == 0 {
		return "Сейчас нет действующих акций."
	}

	var sb strings.Builder
	sb.WriteString("🏷 Действующие акции:\n\n")
	for _, p := range promos {
		sb.WriteString(fmt.Sprintf("• %s — %s\n", p.Name, discountLine(&p)))
	}
	return sb.String()
}
