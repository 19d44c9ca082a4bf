package domain

import "errors"

var (
	ErrPromotionNotFound = errors.New("promotion not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrUserNotFound      = errors.New("user not found")

	ErrUnknownDiscountType     = errors.New("unknown discount type")
	ErrUnknownSubscriptionType = errors.New("unknown subscription type")

	ErrNameLength          = errors.New("name must be 1-100 characters")
	ErrDiscountNotPositive = errors.New("discount value must be positive")
	ErrPercentageTooLarge  = errors.New("percentage discount cannot exceed 100")
	ErrEndBeforeStart      = errors.New("end date is before start date")
	ErrBadDateFormat       = errors.New("bad date format")
	ErrBadNumber           = errors.New("value is not a number")
)
