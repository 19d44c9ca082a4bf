package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType is a closed set: a value is either percentage or fixed,
// anything else fails ParseDiscountType.
type DiscountType int

const (
	DiscountPercentage DiscountType = iota
	DiscountFixed
)

func (t DiscountType) String() string {
	switch t {
	case DiscountPercentage:
		return "percentage"
	case DiscountFixed:
		return "fixed"
	}
	return "unknown"
}

func ParseDiscountType(s string) (DiscountType, error) {
	switch s {
	case "percentage":
		return DiscountPercentage, nil
	case "fixed":
		return DiscountFixed, nil
	}
	return 0, ErrUnknownDiscountType
}

type Promotion struct {
	ID            int64
	Name          string
	Description   string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	StartDate     time.Time
	EndDate       *time.Time // nil means indefinite
	IsActive      bool
	CreatedBy     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsValidAt reports whether the promotion applies at the given moment:
// active, started, and not past its end date (nil end date never expires).
func (p *Promotion) IsValidAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.StartDate) {
		return false
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return false
	}
	return true
}

var percentageLimit = decimal.NewFromInt(100)

// ValidateDiscount checks the value bounds for a discount type: positive
// always, and at most 100 for percentage discounts.
func ValidateDiscount(t DiscountType, value decimal.Decimal) error {
	if value.LessThanOrEqual(decimal.Zero) {
		return ErrDiscountNotPositive
	}
	if t == DiscountPercentage && value.GreaterThan(percentageLimit) {
		return ErrPercentageTooLarge
	}
	return nil
}

// ValidatePromotionName enforces the 1-100 character bound.
func ValidatePromotionName(name string) error {
	n := len([]rune(name))
	if n < 1 || n > 100 {
		return ErrNameLength
	}
	return nil
}

// ValidateDateRange rejects an end date before the start date. A nil end
// date (indefinite promotion) is always acceptable.
func ValidateDateRange(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return ErrEndBeforeStart
	}
	return nil
}

type ProductPromotion struct {
	ID        int64
	ProductID int64
	PromoID   int64
	CreatedAt time.Time
}
