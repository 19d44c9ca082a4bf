package service

import (
	"context"
	"errors"
	"testing"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
)

func TestRecordBestEffort(t *testing.T) {
	// A failing audit insert must not panic or otherwise disturb the caller.
	store := &fakeAuditStore{insertErr: errors.New("connection reset")}
	svc := NewAuditService(store)

	svc.Record(context.Background(), 1, domain.ActionCreatePromotion, domain.EntityPromotion, nil, "details")

	if len(store.entries) != 0 {
		t.Fatalf("entries = %d after failed insert", len(store.entries))
	}
}

func TestRecordEntity(t *testing.T) {
	store := &fakeAuditStore{}
	svc := NewAuditService(store)

	svc.RecordEntity(context.Background(), 7, domain.ActionDeletePromotion, domain.EntityPromotion, 42, "")

	if len(store.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(store.entries))
	}
	e := store.entries[0]
	if e.AdminID != 7 || e.Action != domain.ActionDeletePromotion {
		t.Errorf("entry = %+v", e)
	}
	if e.EntityID == nil || *e.EntityID != 42 {
		t.Errorf("entity id = %v, want 42", e.EntityID)
	}
}
