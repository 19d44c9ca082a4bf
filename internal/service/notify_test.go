package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
)

type fakeAuditStore struct {
	entries   []domain.AdminActionLog
	insertErr error
}

func (f *fakeAuditStore) Insert(_ context.Context, entry *domain.AdminActionLog) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditStore) ListRecent(_ context.Context, limit, offset int) ([]domain.AdminActionLog, error) {
	return f.entries, nil
}

func (f *fakeAuditStore) ListByAdmin(_ context.Context, adminID int64, limit int) ([]domain.AdminActionLog, error) {
	return f.entries, nil
}

func (f *fakeAuditStore) ListByEntity(_ context.Context, entityType string, entityID int64, limit int) ([]domain.AdminActionLog, error) {
	return f.entries, nil
}

func (f *fakeAuditStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.entries)), nil
}

func (f *fakeAuditStore) byAction(action string) []domain.AdminActionLog {
	var out []domain.AdminActionLog
	for _, e := range f.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type fakeMessenger struct {
	failFor  map[int64]error
	sent     []int64
	lastText string
}

func (f *fakeMessenger) Send(_ context.Context, chatID int64, text string) error {
	f.lastText = text
	if err, ok := f.failFor[chatID]; ok {
		return err
	}
	f.sent = append(f.sent, chatID)
	return nil
}

type fakeDirectory struct {
	chats map[int64]int64
	err   error
}

func (f *fakeDirectory) TelegramIDs(_ context.Context, userIDs []int64) (map[int64]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int64]int64)
	for _, id := range userIDs {
		if chat, ok := f.chats[id]; ok {
			out[id] = chat
		}
	}
	return out, nil
}

func TestSendFanoutIsolatesFailures(t *testing.T) {
	blocked := errors.New("forbidden: bot was blocked by the user")
	messenger := &fakeMessenger{failFor: map[int64]error{2000: blocked}}
	dir := &fakeDirectory{chats: map[int64]int64{1: 1000, 2: 2000, 3: 3000}}
	audit := &fakeAuditStore{}

	svc := NewNotificationService(messenger, dir, NewAuditService(audit))

	report, err := svc.SendFanout(context.Background(), 99, []int64{1, 2, 3}, "привет")
	if err != nil {
		t.Fatalf("SendFanout error: %v", err)
	}

	if report.Attempted != 3 || report.Succeeded != 2 || report.Failed != 1 {
		t.Fatalf("report = attempted %d succeeded %d failed %d", report.Attempted, report.Succeeded, report.Failed)
	}
	if report.CampaignID == "" {
		t.Error("campaign id not assigned")
	}
	if len(messenger.sent) != 2 {
		t.Fatalf("sent to %v, want 2 chats", messenger.sent)
	}

	// One recipient failing must not stop delivery to the rest.
	if messenger.sent[0] != 1000 || messenger.sent[1] != 3000 {
		t.Errorf("delivered to %v, want [1000 3000]", messenger.sent)
	}

	if len(report.Results) != 3 {
		t.Fatalf("results = %d, want one per recipient", len(report.Results))
	}
	if report.Results[1].RecipientID != 2 || !errors.Is(report.Results[1].Err, blocked) {
		t.Errorf("failed result = %+v", report.Results[1])
	}

	failures := audit.byAction(domain.ActionDeliveryFailed)
	if len(failures) != 1 {
		t.Fatalf("delivery-failure audit rows = %d, want 1", len(failures))
	}
	if !strings.Contains(failures[0].Details, report.CampaignID) {
		t.Errorf("failure row should carry the campaign id: %q", failures[0].Details)
	}

	summaries := audit.byAction(domain.ActionSendBroadcast)
	if len(summaries) != 1 {
		t.Fatalf("summary audit rows = %d, want 1", len(summaries))
	}
	if !strings.Contains(summaries[0].Details, "succeeded 2") || !strings.Contains(summaries[0].Details, "failed 1") {
		t.Errorf("summary details = %q", summaries[0].Details)
	}
}

func TestSendFanoutMissingChatMapping(t *testing.T) {
	messenger := &fakeMessenger{}
	dir := &fakeDirectory{chats: map[int64]int64{1: 1000}} // user 2 deactivated
	audit := &fakeAuditStore{}

	svc := NewNotificationService(messenger, dir, NewAuditService(audit))

	report, err := svc.SendFanout(context.Background(), 99, []int64{1, 2}, "текст")
	if err != nil {
		t.Fatalf("SendFanout error: %v", err)
	}
	if report.Succeeded != 1 || report.Failed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if !errors.Is(report.Results[1].Err, domain.ErrUserNotFound) {
		t.Errorf("missing mapping err = %v, want ErrUserNotFound", report.Results[1].Err)
	}
}

func TestSendFanoutDirectoryFailureAborts(t *testing.T) {
	dirErr := errors.New("connection refused")
	svc := NewNotificationService(&fakeMessenger{}, &fakeDirectory{err: dirErr}, NewAuditService(&fakeAuditStore{}))

	if _, err := svc.SendFanout(context.Background(), 99, []int64{1}, "текст"); !errors.Is(err, dirErr) {
		t.Fatalf("err = %v, want wrapped %v", err, dirErr)
	}
}

func TestSendFanoutEmptyRecipients(t *testing.T) {
	audit := &fakeAuditStore{}
	svc := NewNotificationService(&fakeMessenger{}, &fakeDirectory{chats: map[int64]int64{}}, NewAuditService(audit))

	report, err := svc.SendFanout(context.Background(), 99, nil, "текст")
	if err != nil {
		t.Fatalf("SendFanout error: %v", err)
	}
	if report.Attempted != 0 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}
}
