package config

import "time"

const (
	// Wizard date input format (DD-MM-YYYY)
	DateFormat = "02-01-2006"

	// Pagination
	PromotionsPerPage = 5
	LogsPerPage       = 10

	// Rate limits (messages per minute per chat)
	RateLimitPerMinute = 20

	// Ops log send timeout
	OpsLogTimeout = 10 * time.Second
)
