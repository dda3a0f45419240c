package token

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevocation_RevokeAndLookup(t *testing.T) {
	t.Parallel()

	reg := NewRevocationRegistry()
	exp := time.Now().Add(time.Hour)

	assert.False(t, reg.IsRevoked("tok-1"))

	reg.Revoke("tok-1", exp)
	assert.True(t, reg.IsRevoked("tok-1"))
	assert.False(t, reg.IsRevoked("tok-2"))

	// Idempotent.
	reg.Revoke("tok-1", exp)
	assert.True(t, reg.IsRevoked("tok-1"))
	assert.Equal(t, 1, reg.Len())
}

func TestRevocation_LazyEviction(t *testing.T) {
	t.Parallel()

	now := time.Now()
	reg := NewRevocationRegistry().WithClock(func() time.Time { return now })

	reg.Revoke("short", now.Add(time.Minute))
	reg.Revoke("long", now.Add(time.Hour))
	require.Equal(t, 2, reg.Len())

	now = now.Add(2 * time.Minute)

	// Lookup of the expired entry drops it.
	assert.False(t, reg.IsRevoked("short"))
	assert.Equal(t, 1, reg.Len())
	assert.True(t, reg.IsRevoked("long"))

	// Inserts sweep everything already expired.
	now = now.Add(2 * time.Hour)
	reg.Revoke("late", now.Add(time.Hour))
	assert.Equal(t, 1, reg.Len())
	assert.False(t, reg.IsRevoked("long"))
	assert.True(t, reg.IsRevoked("late"))
}

func TestRevocation_ExpiredTokenNotStored(t *testing.T) {
	t.Parallel()

	now := time.Now()
	reg := NewRevocationRegistry().WithClock(func() time.Time { return now })

	reg.Revoke("already-dead", now.Add(-time.Minute))
	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.IsRevoked("already-dead"))
}

func TestRevocation_Concurrent(t *testing.T) {
	t.Parallel()

	reg := NewRevocationRegistry()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tok := fmt.Sprintf("tok-%d-%d", i, j)
				reg.Revoke(tok, exp)
				if !reg.IsRevoked(tok) {
					t.Errorf("revocation of %s not visible after Revoke returned", tok)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 16*100, reg.Len())
}
