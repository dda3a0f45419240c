package token

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// RevocationRegistry tracks tokens that were logged out before their
// natural expiry. Entries are keyed by the SHA-256 of the compact token
// and carry the token's expiry instant, so entries for tokens that have
// since expired can be dropped: expiry is enforced by the token service
// anyway, the registry only has to cover the revoked-but-still-valid
// window.
type RevocationRegistry struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewRevocationRegistry() *RevocationRegistry {
	return &RevocationRegistry{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// WithClock overrides the registry clock. Tests only.
func (r *RevocationRegistry) WithClock(now func() time.Time) *RevocationRegistry {
	r.now = now
	return r
}

func tokenKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Revoke records the token as logically invalid until expiresAt.
// Idempotent. Expired entries are swept on each insert.
func (r *RevocationRegistry) Revoke(raw string, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, exp := range r.revoked {
		if now.After(exp) {
			delete(r.revoked, k)
		}
	}
	if now.After(expiresAt) {
		return
	}
	r.revoked[tokenKey(raw)] = expiresAt
}

// IsRevoked reports whether the token was revoked and has not yet
// naturally expired.
func (r *RevocationRegistry) IsRevoked(raw string) bool {
	key := tokenKey(raw)

	r.mu.RLock()
	exp, ok := r.revoked[key]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	if r.now().After(exp) {
		r.mu.Lock()
		if exp2, ok2 := r.revoked[key]; ok2 && r.now().After(exp2) {
			delete(r.revoked, key)
		}
		r.mu.Unlock()
		return false
	}
	return true
}

// Len reports the number of live entries.
func (r *RevocationRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.revoked)
}
