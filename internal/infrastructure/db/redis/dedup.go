package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker provides idempotency checks for ledger operations backed by
// Redis. Key format: dedup:<user_id>:<operation>:<idempotency_key>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this operation key has already been applied.
func (d *DedupChecker) IsDuplicate(ctx context.Context, userID, operation, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(userID, operation, key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this operation key has been applied (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, userID, operation, key string) error {
	return d.client.Set(ctx, d.key(userID, operation, key), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(userID, operation, key string) string {
	return fmt.Sprintf("dedup:%s:%s:%s", userID, operation, key)
}
