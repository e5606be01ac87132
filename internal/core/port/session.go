package port

import "context"

// SessionStore maps opaque tokens to user identity. Tokens live until
// explicit deletion or process/store teardown; no expiry policy is part of
// the contract. Implementations must be safe for concurrent use.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Lookup(ctx context.Context, token string) (int64, bool, error)
	// Delete is idempotent: deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
