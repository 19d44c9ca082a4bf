package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/shopspring/decimal"
)

func announcedPromotion() *domain.Promotion {
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	return &domain.Promotion{
		ID:            7,
		Name:          "Весенняя распродажа",
		Description:   "Скидки на входные двери",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(15),
		StartDate:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       &end,
		IsActive:      true,
	}
}

func TestAnnounceNotifiesPromotionSubscribers(t *testing.T) {
	subs := &fakeSubscriberSource{byType: map[domain.SubscriptionType][]int64{
		domain.SubscriptionPromotions: {1, 2, 3},
	}}
	messenger := &fakeMessenger{failFor: map[int64]error{2000: errors.New("blocked")}}
	dir := &fakeDirectory{chats: map[int64]int64{1: 1000, 2: 2000, 3: 3000}}
	audit := &fakeAuditStore{}

	a := NewPromotionAnnouncer(
		NewTargetingService(subs, &fakeBroadcastSource{}),
		NewNotificationService(messenger, dir, NewAuditService(audit)),
	)

	report, err := a.Announce(context.Background(), 99, announcedPromotion())
	if err != nil {
		t.Fatalf("Announce error: %v", err)
	}
	if report.Attempted != 3 || report.Succeeded != 2 || report.Failed != 1 {
		t.Fatalf("report = attempted %d succeeded %d failed %d", report.Attempted, report.Succeeded, report.Failed)
	}
	if !strings.Contains(messenger.lastText, "Весенняя распродажа") {
		t.Errorf("announcement should name the promotion: %q", messenger.lastText)
	}
	if !strings.Contains(messenger.lastText, "15%") {
		t.Errorf("announcement should carry the discount: %q", messenger.lastText)
	}
	if len(audit.byAction(domain.ActionSendBroadcast)) != 1 {
		t.Error("announcement fan-out should leave a summary audit row")
	}
}

func TestAnnounceEmptyAudienceIsNoOp(t *testing.T) {
	subs := &fakeSubscriberSource{byType: map[domain.SubscriptionType][]int64{}}
	messenger := &fakeMessenger{}
	audit := &fakeAuditStore{}

	a := NewPromotionAnnouncer(
		NewTargetingService(subs, &fakeBroadcastSource{}),
		NewNotificationService(messenger, &fakeDirectory{chats: map[int64]int64{}}, NewAuditService(audit)),
	)

	report, err := a.Announce(context.Background(), 99, announcedPromotion())
	if err != nil {
		t.Fatalf("Announce error: %v", err)
	}
	if report.Attempted != 0 {
		t.Fatalf("report = %+v, want nothing attempted", report)
	}
	if len(messenger.sent) != 0 {
		t.Errorf("sent to %v, want no deliveries", messenger.sent)
	}
	if len(audit.entries) != 0 {
		t.Errorf("audit rows = %d, want none for an empty audience", len(audit.entries))
	}
}

func TestAnnounceResolveFailure(t *testing.T) {
	boom := errors.New("boom")
	a := NewPromotionAnnouncer(
		NewTargetingService(&fakeSubscriberSource{err: boom}, &fakeBroadcastSource{}),
		NewNotificationService(&fakeMessenger{}, &fakeDirectory{}, NewAuditService(&fakeAuditStore{})),
	)

	if _, err := a.Announce(context.Background(), 99, announcedPromotion()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestAnnouncementText(t *testing.T) {
	p := announcedPromotion()
	text := AnnouncementText(p)
	for _, want := range []string{"Весенняя распродажа", "Скидки на входные двери", "15%", "01-03-2025", "31-03-2025"} {
		if !strings.Contains(text, want) {
			t.Errorf("text %q should contain %q", text, want)
		}
	}

	p.Description = ""
	p.EndDate = nil
	p.DiscountType = domain.DiscountFixed
	p.DiscountValue = decimal.NewFromInt(500)
	text = AnnouncementText(p)
	if !strings.Contains(text, "500₽") {
		t.Errorf("fixed discount missing: %q", text)
	}
	if !strings.Contains(text, "бессрочно") {
		t.Errorf("open-ended period missing: %q", text)
	}
	if strings.Contains(text, "Скидки на входные двери") {
		t.Errorf("empty description should be omitted: %q", text)
	}
}
