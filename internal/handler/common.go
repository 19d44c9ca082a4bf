package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/WhoYa/EverNeed-Door/internal/middleware"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// answer acknowledges a callback query.
func answer(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}

// answerAlert acknowledges a callback query with a popup alert.
func answerAlert(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
			Text:            text,
			ShowAlert:       true,
		})
	}
}

// callbackChat returns the chat and message id a callback came from.
func callbackChat(update *models.Update) (chatID int64, messageID int, ok bool) {
	if update.CallbackQuery == nil {
		return 0, 0, false
	}
	msg := update.CallbackQuery.Message.Message
	if msg == nil {
		return 0, 0, false
	}
	return msg.Chat.ID, msg.ID, true
}

// callbackSuffixID parses the trailing int64 of callback data like
// "promotion_42".
func callbackSuffixID(data, prefix string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// adminFromCallback loads the acting admin for a callback update, or nil.
func adminFromCallback(ctx context.Context) *domain.User {
	user := middleware.GetUser(ctx)
	if user == nil || !user.IsAdmin {
		return nil
	}
	return user
}

// edit replaces the text and keyboard of the message a callback came from.
func edit(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, markup models.ReplyMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	b.EditMessageText(ctx, params)
}

// send posts a new message.
func send(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	b.SendMessage(ctx, params)
}
