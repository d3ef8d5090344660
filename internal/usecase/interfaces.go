package usecase

import (
	"context"
	"time"
)

// Clock provides the current time. Execution dates are compared against the
// UTC calendar day of Now.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// AuditRecorder persists a record of every processed instruction. It is
// write-only: nothing in the pipeline reads records back.
type AuditRecorder interface {
	Record(ctx context.Context, entry *AuditEntry) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// IsInFlight reports whether a stored idempotency value is the placeholder of
// a request that has not finished.
func IsInFlight(value []byte) bool {
	return value == nil || string(value) == IdempotencyInFlight
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
