package repository

import (
	"context"
	"fmt"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Subscriptions persists notification subscriptions. At most one row exists
// per (user, type); unsubscribing deactivates the row, history is kept.
type Subscriptions struct {
	db *pgxpool.Pool
}

func NewSubscriptions(db *pgxpool.Pool) *Subscriptions {
	return &Subscriptions{db: db}
}

// Subscribe creates the subscription or reactivates a previously
// deactivated one.
func (r *Subscriptions) Subscribe(ctx context.Context, userID int64, t domain.SubscriptionType) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO subscriptions (user_id, subscription_type, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT ON CONSTRAINT uq_user_subscription_type
		DO UPDATE SET is_active = TRUE, updated_at = NOW()`,
		userID, t.String())
	if err != nil {
		return fmt.Errorf("subscribe user %d to %s: %w", userID, t, err)
	}
	return nil
}

// Unsubscribe deactivates the subscription. Nothing is deleted.
func (r *Subscriptions) Unsubscribe(ctx context.Context, userID int64, t domain.SubscriptionType) error {
	_, err := r.db.Exec(ctx, `
		UPDATE subscriptions SET is_active = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND subscription_type = $2 AND is_active`,
		userID, t.String())
	if err != nil {
		return fmt.Errorf("unsubscribe user %d from %s: %w", userID, t, err)
	}
	return nil
}

func (r *Subscriptions) ListByUser(ctx context.Context, userID int64) ([]domain.Subscription, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, subscription_type, is_active, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1 AND is_active`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var s domain.Subscription
		var typeName string
		if err := rows.Scan(&s.ID, &s.UserID, &typeName, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		if s.Type, err = domain.ParseSubscriptionType(typeName); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *Subscriptions) IsSubscribed(ctx context.Context, userID int64, t domain.SubscriptionType) (bool, error) {
	var subscribed bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE user_id = $1
				AND subscription_type IN ($2, $3)
				AND is_active
		)`, userID, t.String(), domain.SubscriptionAll.String()).Scan(&subscribed)
	if err != nil {
		return false, fmt.Errorf("check subscription: %w", err)
	}
	return subscribed, nil
}

// SubscriberIDs returns the de-duplicated active user ids subscribed either
// to the given type or to "all". "all" here is a union marker, not a
// subtype: the OR lives in the query on purpose.
func (r *Subscriptions) SubscriberIDs(ctx context.Context, t domain.SubscriptionType) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT user_id FROM subscriptions
		WHERE (subscription_type = $1 OR subscription_type = $2) AND is_active`,
		t.String(), domain.SubscriptionAll.String())
	if err != nil {
		return nil, fmt.Errorf("list subscribers for %s: %w", t, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan subscriber id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Subscriptions) CountByType(ctx context.Context, t domain.SubscriptionType) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT user_id) FROM subscriptions
		WHERE (subscription_type = $1 OR subscription_type = $2) AND is_active`,
		t.String(), domain.SubscriptionAll.String()).Scan(&n)
	return n, err
}
