package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/google/uuid"
)

// Messenger is the delivery collaborator. Transport details live behind it.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string) error
}

type chatDirectory interface {
	TelegramIDs(ctx context.Context, userIDs []int64) (map[int64]int64, error)
}

// DeliveryResult is the outcome for one recipient of a fan-out.
type DeliveryResult struct {
	RecipientID int64
	Err         error
}

// FanoutReport aggregates a finished fan-out.
type FanoutReport struct {
	CampaignID string
	Attempted  int
	Succeeded  int
	Failed     int
	Results    []DeliveryResult
}

// NotificationService delivers one message to many recipients with
// per-recipient failure isolation.
type NotificationService struct {
	messenger Messenger
	dir       chatDirectory
	audit     *AuditService
}

func NewNotificationService(messenger Messenger, dir chatDirectory, audit *AuditService) *NotificationService {
	return &NotificationService{messenger: messenger, dir: dir, audit: audit}
}

// SendFanout attempts delivery to each recipient in turn. One recipient
// failing is recorded and skipped; the rest of the batch always runs to
// completion. There is no retry inside a single call.
func (s *NotificationService) SendFanout(ctx context.Context, adminID int64, recipientIDs []int64, message string) (*FanoutReport, error) {
	chats, err := s.dir.TelegramIDs(ctx, recipientIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve recipient chats: %w", err)
	}

	report := &FanoutReport{
		CampaignID: uuid.NewString(),
		Attempted:  len(recipientIDs),
		Results:    make([]DeliveryResult, 0, len(recipientIDs)),
	}

	for _, userID := range recipientIDs {
		result := DeliveryResult{RecipientID: userID}

		chatID, ok := chats[userID]
		if !ok {
			result.Err = domain.ErrUserNotFound
		} else {
			result.Err = s.messenger.Send(ctx, chatID, message)
		}

		if result.Err != nil {
			report.Failed++
			slog.Warn("delivery failed",
				"campaign_id", report.CampaignID,
				"recipient_id", userID,
				"error", result.Err,
			)
			s.audit.Record(ctx, adminID, domain.ActionDeliveryFailed, domain.EntityBroadcast, nil,
				fmt.Sprintf("campaign %s: recipient %d: %v", report.CampaignID, userID, result.Err))
		} else {
			report.Succeeded++
		}
		report.Results = append(report.Results, result)
	}

	s.audit.Record(ctx, adminID, domain.ActionSendBroadcast, domain.EntityBroadcast, nil,
		fmt.Sprintf("campaign %s: attempted %d, succeeded %d, failed %d",
			report.CampaignID, report.Attempted, report.Succeeded, report.Failed))

	slog.Info("fanout finished",
		"campaign_id", report.CampaignID,
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return report, nil
}
