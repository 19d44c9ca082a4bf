package service

import (
	"context"
	"testing"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
)

type fakeSubscriptionStore struct {
	// active rows per user, keyed by exact type
	rows map[int64]map[domain.SubscriptionType]bool
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{rows: make(map[int64]map[domain.SubscriptionType]bool)}
}

func (f *fakeSubscriptionStore) Subscribe(_ context.Context, userID int64, t domain.SubscriptionType) error {
	if f.rows[userID] == nil {
		f.rows[userID] = make(map[domain.SubscriptionType]bool)
	}
	f.rows[userID][t] = true
	return nil
}

func (f *fakeSubscriptionStore) Unsubscribe(_ context.Context, userID int64, t domain.SubscriptionType) error {
	delete(f.rows[userID], t)
	return nil
}

func (f *fakeSubscriptionStore) ListByUser(_ context.Context, userID int64) ([]domain.Subscription, error) {
	var out []domain.Subscription
	for t := range f.rows[userID] {
		out = append(out, domain.Subscription{UserID: userID, Type: t, IsActive: true})
	}
	return out, nil
}

func (f *fakeSubscriptionStore) IsSubscribed(_ context.Context, userID int64, t domain.SubscriptionType) (bool, error) {
	return f.rows[userID][t] || f.rows[userID][domain.SubscriptionAll], nil
}

func (f *fakeSubscriptionStore) CountByType(_ context.Context, t domain.SubscriptionType) (int64, error) {
	var n int64
	for _, types := range f.rows {
		if types[t] || types[domain.SubscriptionAll] {
			n++
		}
	}
	return n, nil
}

func TestSubscriptionToggle(t *testing.T) {
	store := newFakeSubscriptionStore()
	svc := NewSubscriptionService(store)
	ctx := context.Background()

	on, err := svc.Toggle(ctx, 1, domain.SubscriptionPromotions)
	if err != nil {
		t.Fatalf("Toggle error: %v", err)
	}
	if !on {
		t.Fatal("first toggle should subscribe")
	}

	on, err = svc.Toggle(ctx, 1, domain.SubscriptionPromotions)
	if err != nil {
		t.Fatalf("Toggle error: %v", err)
	}
	if on {
		t.Fatal("second toggle should unsubscribe")
	}
}

func TestToggleIgnoresAllUnion(t *testing.T) {
	store := newFakeSubscriptionStore()
	svc := NewSubscriptionService(store)
	ctx := context.Background()

	if _, err := svc.Toggle(ctx, 1, domain.SubscriptionAll); err != nil {
		t.Fatalf("Toggle(all) error: %v", err)
	}

	// The user is in the promotions audience via "all", but toggling the
	// promotions row must create it, not deactivate "all".
	on, err := svc.Toggle(ctx, 1, domain.SubscriptionPromotions)
	if err != nil {
		t.Fatalf("Toggle error: %v", err)
	}
	if !on {
		t.Fatal("exact-type toggle should subscribe even while all is active")
	}
	if !store.rows[1][domain.SubscriptionAll] {
		t.Error("toggling promotions must not touch the all row")
	}
}

func TestStatusIsRowLevel(t *testing.T) {
	store := newFakeSubscriptionStore()
	svc := NewSubscriptionService(store)
	ctx := context.Background()

	if _, err := svc.Toggle(ctx, 1, domain.SubscriptionAll); err != nil {
		t.Fatal(err)
	}

	status, err := svc.Status(ctx, 1)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if !status[domain.SubscriptionAll] {
		t.Error("all row missing from status")
	}
	if status[domain.SubscriptionPromotions] {
		t.Error("status must not project the all union onto other toggles")
	}

	// Audience membership does apply the union.
	member, err := svc.IsSubscribed(ctx, 1, domain.SubscriptionPromotions)
	if err != nil {
		t.Fatalf("IsSubscribed error: %v", err)
	}
	if !member {
		t.Error("an all subscriber belongs to the promotions audience")
	}
}
