package service

import (
	"context"
	"fmt"

	"github.com/WhoYa/EverNeed-Door/internal/config"
	"github.com/WhoYa/EverNeed-Door/internal/domain"
)

// PromotionAnnouncer pushes a freshly created promotion to the promotions
// audience: resolve the recipients, then fan the announcement out.
type PromotionAnnouncer struct {
	targeting *TargetingService
	notify    *NotificationService
}

func NewPromotionAnnouncer(targeting *TargetingService, notify *NotificationService) *PromotionAnnouncer {
	return &PromotionAnnouncer{targeting: targeting, notify: notify}
}

// Announce notifies every subscriber of the promotions audience (which
// includes "all" subscribers) about the promotion. An empty audience is a
// successful no-op.
func (a *PromotionAnnouncer) Announce(ctx context.Context, adminID int64, p *domain.Promotion) (*FanoutReport, error) {
	recipients, err := a.targeting.Resolve(ctx, domain.SubscriptionPromotions)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return &FanoutReport{}, nil
	}
	return a.notify.SendFanout(ctx, adminID, recipients, AnnouncementText(p))
}

// AnnouncementText renders the subscriber-facing announcement message.
func AnnouncementText(p *domain.Promotion) string {
	discount := p.DiscountValue.String() + "₽"
	if p.DiscountType == domain.DiscountPercentage {
		discount = p.DiscountValue.String() + "%"
	}
	period := fmt.Sprintf("с %s бессрочно", p.StartDate.Format(config.DateFormat))
	if p.EndDate != nil {
		period = fmt.Sprintf("с %s по %s",
			p.StartDate.Format(config.DateFormat), p.EndDate.Format(config.DateFormat))
	}

	text := fmt.Sprintf("🎉 Новая акция: %s!\n\nСкидка: %s\nДействует %s", p.Name, discount, period)
	if p.Description != "" {
		text = fmt.Sprintf("🎉 Новая акция: %s!\n\n%s\n\nСкидка: %s\nДействует %s",
			p.Name, p.Description, discount, period)
	}
	return text
}
