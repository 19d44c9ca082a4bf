package domain

import "time"

// SubscriptionType is a closed set of audiences. SubscriptionAll is a union
// marker: a user subscribed to it belongs to every type-specific audience.
type SubscriptionType int

const (
	SubscriptionNewProducts SubscriptionType = iota
	SubscriptionPromotions
	SubscriptionAll
)

func (t SubscriptionType) String() string {
	switch t {
	case SubscriptionNewProducts:
		return "new_products"
	case SubscriptionPromotions:
		return "promotions"
	case SubscriptionAll:
		return "all"
	}
	return "unknown"
}

func ParseSubscriptionType(s string) (SubscriptionType, error) {
	switch s {
	case "new_products":
		return SubscriptionNewProducts, nil
	case "promotions":
		return SubscriptionPromotions, nil
	case "all":
		return SubscriptionAll, nil
	}
	return 0, ErrUnknownSubscriptionType
}

type Subscription struct {
	ID        int64
	UserID    int64
	Type      SubscriptionType
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
