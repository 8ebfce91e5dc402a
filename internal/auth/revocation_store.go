package auth

import (
	"context"
	"errors"
	"time"

	"newsdesk/internal/cache"
)

// ErrRevocationUnavailable is returned by Revoke when no cache is configured.
// The token stays valid until it expires.
var ErrRevocationUnavailable = errors.New("session revocation unavailable")

// RevocationStoreInterface defines session revocation operations.
type RevocationStoreInterface interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RevocationStore keeps revoked session token ids in the cache until the
// token would have expired anyway. Without a cache nothing is ever revoked
// and Revoke says so.
type RevocationStore struct {
	cache *cache.Client
}

var _ RevocationStoreInterface = (*RevocationStore)(nil)

// NewRevocationStore creates a new revocation store.
func NewRevocationStore(cache *cache.Client) *RevocationStore {
	return &RevocationStore{cache: cache}
}

// Revoke marks a token id as revoked for ttl.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if !s.cache.Enabled() {
		return ErrRevocationUnavailable
	}
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, cache.RevokedSessionKey(tokenID), []byte("1"), ttl)
}

// IsRevoked checks whether a token id has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, cache.RevokedSessionKey(tokenID))
	if err != nil {
		return false, nil // not revoked if error (fail safe)
	}
	return data != nil, nil
}
