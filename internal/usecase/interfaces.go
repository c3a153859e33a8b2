package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"numledger/internal/domain"
)

// Repository is the persistence boundary of the consistency engine. The
// engine always hands back the full entry list for a project; there is no
// partial-patch wire format.
type Repository interface {
	LoadEntries(ctx context.Context, projectID string) ([]*domain.Entry, error)
	SaveEntries(ctx context.Context, projectID string, entries []*domain.Entry) error
	LoadBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	SaveBalance(ctx context.Context, userID string, balance decimal.Decimal) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines byte-value caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage for mutating requests.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
