package usecase

import "time"

const (
	// DefaultAuditTimeout bounds a single audit write so a slow sink cannot
	// hold a response back indefinitely.
	DefaultAuditTimeout = 2 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyInFlight is stored under a key while its first request runs.
	IdempotencyInFlight = "processing"
)
