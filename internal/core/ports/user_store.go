package ports

import (
	"context"

	"github.com/sistemabancario/banking-system/internal/core/domain"
)

// UserStore is the persistence gateway: the whole user table is read and
// written as a single document, synchronously, last writer wins. Concurrent
// writers can overwrite each other; that lost-update hazard is a documented
// property of the store, not something implementations try to mitigate.
type UserStore interface {
	// Load returns the full user table keyed by user id. A missing backing
	// document yields an empty table, not an error.
	Load(ctx context.Context) (map[string]*domain.User, error)
	// Save replaces the full user table.
	Save(ctx context.Context, users map[string]*domain.User) error
}
