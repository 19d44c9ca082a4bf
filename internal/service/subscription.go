package service

import (
	"context"
	"fmt"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
)

type subscriptionStore interface {
	Subscribe(ctx context.Context, userID int64, t domain.SubscriptionType) error
	Unsubscribe(ctx context.Context, userID int64, t domain.SubscriptionType) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Subscription, error)
	IsSubscribed(ctx context.Context, userID int64, t domain.SubscriptionType) (bool, error)
	CountByType(ctx context.Context, t domain.SubscriptionType) (int64, error)
}

// SubscriptionService manages a user's notification subscriptions.
type SubscriptionService struct {
	subs subscriptionStore
}

func NewSubscriptionService(subs subscriptionStore) *SubscriptionService {
	return &SubscriptionService{subs: subs}
}

// Toggle subscribes the user to the type, or deactivates an existing
// active subscription. Returns the new state.
func (s *SubscriptionService) Toggle(ctx context.Context, userID int64, t domain.SubscriptionType) (bool, error) {
	active, err := s.activeExact(ctx, userID, t)
	if err != nil {
		return false, err
	}
	if active {
		if err := s.subs.Unsubscribe(ctx, userID, t); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.subs.Subscribe(ctx, userID, t); err != nil {
		return false, err
	}
	return true, nil
}

// Status reports which types the user holds an active subscription row for.
// This is row-level status for the settings menu, not audience membership:
// "all" does not mark the other toggles here.
func (s *SubscriptionService) Status(ctx context.Context, userID int64) (map[domain.SubscriptionType]bool, error) {
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("subscription status: %w", err)
	}
	status := make(map[domain.SubscriptionType]bool, 3)
	for _, sub := range subs {
		status[sub.Type] = true
	}
	return status, nil
}

// IsSubscribed reports audience membership: an "all" subscription counts
// for every type.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, userID int64, t domain.SubscriptionType) (bool, error) {
	return s.subs.IsSubscribed(ctx, userID, t)
}

func (s *SubscriptionService) CountByType(ctx context.Context, t domain.SubscriptionType) (int64, error) {
	return s.subs.CountByType(ctx, t)
}

// activeExact checks for an active row of exactly this type, ignoring the
// "all" union used for audience resolution.
func (s *SubscriptionService) activeExact(ctx context.Context, userID int64, t domain.SubscriptionType) (bool, error) {
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, sub := range subs {
		if sub.Type == t {
			return true, nil
		}
	}
	return false, nil
}
