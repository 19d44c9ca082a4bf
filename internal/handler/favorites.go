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

func (h *Handler) handleFavToggle(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	chatID, messageID, ok := callbackChat(update)
	if !ok || user == nil {
		answer(ctx, b, update)
		return
	}
	productID, ok := callbackSuffixID(update.CallbackQuery.Data, "fav_toggle_")
	if !ok {
		answer(ctx, b, update)
		return
	}

	if _, err := h.favorites.Toggle(ctx, user.ID, productID); err != nil {
		answerAlert(ctx, b, update, "❌ Не удалось изменить избранное.")
		return
	}
	answer(ctx, b, update)
	h.showCatalog(ctx, b, chatID, messageID, user.ID)
}

func (h *Handler) handleFavorites(ctx context.Context, b *bot.Bot, update *models.Update) {
	answer(ctx, b, update)
	user := middleware.GetUser(ctx)
	chatID, messageID, ok := callbackChat(update)
	if !ok || user == nil {
		return
	}

	favorites, err := h.favorites.ListByUser(ctx, user.ID)
	if err != nil {
		edit(ctx, b, chatID, messageID, "❌ Не удалось загрузить избранное.", nil)
		return
	}
	backRow := tg.InlineKeyboard(tg.ButtonRow(tg.InlineButton("🔙 К каталогу", "catalog")))
	if len(favorites) == 0 {
		edit(ctx, b, chatID, messageID, "В избранном пока пусто.", backRow)
		return
	}

	var sb strings.Builder
	sb.WriteString("⭐ Избранное:\n\n")
	for _, p := range favorites {
		stock := ""
		if !p.InStock {
			stock = " (нет в наличии)"
		}
		sb.WriteString(fmt.Sprintf("• %s — %s₽%s\n", p.Name, p.Price.StringFixed(2), stock))
	}
	edit(ctx, b, chatID, messageID, sb.String(), backRow)
}
