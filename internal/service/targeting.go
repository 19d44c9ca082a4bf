package service

import (
	"context"
	"fmt"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
)

type subscriberSource interface {
	SubscriberIDs(ctx context.Context, t domain.SubscriptionType) ([]int64, error)
}

type broadcastSource interface {
	ActiveIDs(ctx context.Context) ([]int64, error)
}

// TargetingService turns an audience criterion into a recipient-id set.
type TargetingService struct {
	subs  subscriberSource
	users broadcastSource
}

func NewTargetingService(subs subscriberSource, users broadcastSource) *TargetingService {
	return &TargetingService{subs: subs, users: users}
}

// Resolve returns active users subscribed to the given type. Users
// subscribed to "all" are always included; the union is applied by the
// subscription store query.
func (s *TargetingService) Resolve(ctx context.Context, t domain.SubscriptionType) ([]int64, error) {
	ids, err := s.subs.SubscriberIDs(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("resolve %s audience: %w", t, err)
	}
	return ids, nil
}

// ResolveBroadcast returns every active user, bypassing subscriptions
// entirely. This is a distinct targeting mode, not "all subscribers".
func (s *TargetingService) ResolveBroadcast(ctx context.Context) ([]int64, error) {
	ids, err := s.users.ActiveIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve broadcast audience: %w", err)
	}
	return ids, nil
}
