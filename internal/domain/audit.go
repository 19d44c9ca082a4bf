package domain

import "time"

// AdminActionLog is an append-only record of an administrative action.
// Rows are never mutated after insert.
type AdminActionLog struct {
	ID         int64
	AdminID    int64
	Action     string
	EntityType string
	EntityID   *int64
	Details    string
	CreatedAt  time.Time
}

// Audit actions
const (
	ActionCreatePromotion = "create_promotion"
	ActionEditPromotion   = "edit_promotion"
	ActionDeletePromotion = "delete_promotion"
	ActionTogglePromotion = "toggle_promotion"
	ActionSendBroadcast   = "send_notification"
	ActionDeliveryFailed  = "notification_error"
)

// Audit entity types
const (
	EntityPromotion = "promotion"
	EntityBroadcast = "broadcast"
)
