package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	InStock     bool
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
