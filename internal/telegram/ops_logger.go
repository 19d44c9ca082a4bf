package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/WhoYa/EverNeed-Door/internal/config"
	"github.com/go-telegram/bot"
)

// OpsLogger mirrors operational events to a Telegram chat with topics.
// Best-effort only: a failed send is logged and dropped.
type OpsLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewOpsLogger(b *bot.Bot, cfg *config.Config) *OpsLogger {
	return &OpsLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError     LogType = "error"
	LogTypePromotion LogType = "promotion"
	LogTypeBroadcast LogType = "broadcast"
)

func (l *OpsLogger) Log(logType LogType, message string) {
	if l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.OpsLogTimeout)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *OpsLogger) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		context, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *OpsLogger) LogPromotionCreated(adminID, promoID int64, name string) {
	msg := fmt.Sprintf("🏷 *Promotion Created*\n\n*Admin:* `%d`\n*ID:* `%d`\n*Name:* %s",
		adminID, promoID, name)
	l.Log(LogTypePromotion, msg)
}

func (l *OpsLogger) LogPromotionDeleted(adminID, promoID int64) {
	msg := fmt.Sprintf("🗑 *Promotion Deleted*\n\n*Admin:* `%d`\n*ID:* `%d`", adminID, promoID)
	l.Log(LogTypePromotion, msg)
}

func (l *OpsLogger) LogBroadcast(adminID int64, audience string, attempted, succeeded, failed int) {
	msg := fmt.Sprintf("📣 *Broadcast Finished*\n\n*Admin:* `%d`\n*Audience:* %s\n"+
		"*Attempted:* %d\n*Succeeded:* %d\n*Failed:* %d",
		adminID, audience, attempted, succeeded, failed)
	l.Log(LogTypeBroadcast, msg)
}

func (l *OpsLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypePromotion:
		return l.cfg.LogTopicPromotion
	case LogTypeBroadcast:
		return l.cfg.LogTopicBroadcast
	default:
		return 0
	}
}
