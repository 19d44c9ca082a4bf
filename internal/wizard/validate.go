package wizard

import (
	"strings"
	"time"

	"github.com/WhoYa/EverNeed-Door/internal/config"
	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/shopspring/decimal"
)

// skip marks an input the user left empty on purpose ("-" because Telegram
// cannot send an empty message).
func isSkip(text string) bool {
	return text == "" || text == "-"
}

// ParseName validates a promotion name (1-100 characters).
func ParseName(text string) (string, error) {
	name := strings.TrimSpace(text)
	if err := domain.ValidatePromotionName(name); err != nil {
		return "", err
	}
	return name, nil
}

// ParseDiscountTypeChoice maps the "1"/"2" menu selection to a type.
func ParseDiscountTypeChoice(text string) (domain.DiscountType, error) {
	switch strings.TrimSpace(text) {
	case "1":
		return domain.DiscountPercentage, nil
	case "2":
		return domain.DiscountFixed, nil
	}
	return 0, domain.ErrUnknownDiscountType
}

// ParseDiscountValue validates a numeric discount against the type bounds.
func ParseDiscountValue(t domain.DiscountType, text string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, domain.ErrBadNumber
	}
	if err := domain.ValidateDiscount(t, value); err != nil {
		return decimal.Zero, err
	}
	return value, nil
}

// ParseStartDate parses a DD-MM-YYYY start date; a skipped input defaults
// to today at midnight.
func ParseStartDate(text string, now time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	if isSkip(text) {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	date, err := time.ParseInLocation(config.DateFormat, text, now.Location())
	if err != nil {
		return time.Time{}, domain.ErrBadDateFormat
	}
	return date, nil
}

// ParseEndDate parses a DD-MM-YYYY end date; a skipped input means the
// promotion is indefinite. A date before start is rejected.
func ParseEndDate(text string, start time.Time) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if isSkip(text) {
		return nil, nil
	}
	date, err := time.ParseInLocation(config.DateFormat, text, start.Location())
	if err != nil {
		return nil, domain.ErrBadDateFormat
	}
	if err := domain.ValidateDateRange(start, &date); err != nil {
		return nil, err
	}
	return &date, nil
}
