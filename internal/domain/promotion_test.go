package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPromotionIsValidAt(t *testing.T) {
	start := date(2025, time.March, 1)
	end := date(2025, time.March, 31)

	tests := []struct {
		name     string
		promo    Promotion
		at       time.Time
		expected bool
	}{
		{
			name:     "inside window",
			promo:    Promotion{IsActive: true, StartDate: start, EndDate: &end},
			at:       date(2025, time.March, 15),
			expected: true,
		},
		{
			name:     "before start",
			promo:    Promotion{IsActive: true, StartDate: start, EndDate: &end},
			at:       date(2025, time.February, 28),
			expected: false,
		},
		{
			name:     "after end",
			promo:    Promotion{IsActive: true, StartDate: start, EndDate: &end},
			at:       date(2025, time.April, 1),
			expected: false,
		},
		{
			name:     "on start day",
			promo:    Promotion{IsActive: true, StartDate: start, EndDate: &end},
			at:       start,
			expected: true,
		},
		{
			name:     "on end day",
			promo:    Promotion{IsActive: true, StartDate: start, EndDate: &end},
			at:       end,
			expected: true,
		},
		{
			name:     "disabled inside window",
			promo:    Promotion{IsActive: false, StartDate: start, EndDate: &end},
			at:       date(2025, time.March, 15),
			expected: false,
		},
		{
			name:     "indefinite never expires",
			promo:    Promotion{IsActive: true, StartDate: start, EndDate: nil},
			at:       date(2030, time.January, 1),
			expected: true,
		},
		{
			name:     "indefinite still respects start",
			promo:    Promotion{IsActive: true, StartDate: start, EndDate: nil},
			at:       date(2025, time.February, 1),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.promo.IsValidAt(tt.at); got != tt.expected {
				t.Errorf("IsValidAt(%v) = %v, want %v", tt.at, got, tt.expected)
			}
		})
	}
}

func TestValidateDiscount(t *testing.T) {
	tests := []struct {
		name    string
		t       DiscountType
		value   string
		wantErr error
	}{
		{"percentage in range", DiscountPercentage, "15", nil},
		{"percentage exactly 100", DiscountPercentage, "100", nil},
		{"percentage over 100", DiscountPercentage, "101", ErrPercentageTooLarge},
		{"percentage zero", DiscountPercentage, "0", ErrDiscountNotPositive},
		{"percentage negative", DiscountPercentage, "-5", ErrDiscountNotPositive},
		{"fixed positive", DiscountFixed, "500", nil},
		{"fixed over 100 is fine", DiscountFixed, "5000", nil},
		{"fixed zero", DiscountFixed, "0", ErrDiscountNotPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := decimal.RequireFromString(tt.value)
			if err := ValidateDiscount(tt.t, v); err != tt.wantErr {
				t.Errorf("ValidateDiscount(%s, %s) = %v, want %v", tt.t, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePromotionName(t *testing.T) {
	long := make([]rune, 101)
	for i := range long {
		long[i] = 'я'
	}

	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{"normal", "Весенняя распродажа", nil},
		{"single char", "a", nil},
		{"empty", "", ErrNameLength},
		{"exactly 100 runes", string(long[:100]), nil},
		{"101 runes", string(long), ErrNameLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePromotionName(tt.value); err != tt.wantErr {
				t.Errorf("ValidatePromotionName(%q) = %v, want %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDateRange(t *testing.T) {
	start := date(2025, time.March, 1)
	before := date(2025, time.February, 1)
	same := start

	if err := ValidateDateRange(start, nil); err != nil {
		t.Errorf("nil end date should be valid, got %v", err)
	}
	if err := ValidateDateRange(start, &same); err != nil {
		t.Errorf("end equal to start should be valid, got %v", err)
	}
	if err := ValidateDateRange(start, &before); err != ErrEndBeforeStart {
		t.Errorf("end before start: got %v, want %v", err, ErrEndBeforeStart)
	}
}

func TestParseDiscountType(t *testing.T) {
	for _, dt := range []DiscountType{DiscountPercentage, DiscountFixed} {
		parsed, err := ParseDiscountType(dt.String())
		if err != nil {
			t.Fatalf("ParseDiscountType(%q) error: %v", dt.String(), err)
		}
		if parsed != dt {
			t.Errorf("round trip %s: got %s", dt, parsed)
		}
	}
	if _, err := ParseDiscountType("bogus"); err != ErrUnknownDiscountType {
		t.Errorf("ParseDiscountType(bogus) = %v, want %v", err, ErrUnknownDiscountType)
	}
}

func TestParseSubscriptionType(t *testing.T) {
	for _, st := range []SubscriptionType{SubscriptionNewProducts, SubscriptionPromotions, SubscriptionAll} {
		parsed, err := ParseSubscriptionType(st.String())
		if err != nil {
			t.Fatalf("ParseSubscriptionType(%q) error: %v", st.String(), err)
		}
		if parsed != st {
			t.Errorf("round trip %s: got %s", st, parsed)
		}
	}
	if _, err := ParseSubscriptionType(""); err != ErrUnknownSubscriptionType {
		t.Errorf("ParseSubscriptionType empty = %v, want %v", err, ErrUnknownSubscriptionType)
	}
}
