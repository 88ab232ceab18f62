// Package store persists client-side state between runs: the auth token,
// the cached user profile and the cart snapshot.
package store

import "context"

// Well-known keys. Token and user must always be written and cleared
// together; a profile blob without a token is not a valid state.
const (
	KeyAuthToken = "auth_token"
	KeyAuthUser  = "auth_user"
	KeyCart      = "cart"
)

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value for key, or ("", false, nil) when absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put writes or replaces the value for key.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
