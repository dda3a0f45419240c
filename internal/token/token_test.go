package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashukla/ridepool/internal/models"
)

var testSecret = []byte("test-secret-key-0123456789abcdef")

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	svc, err := New(testSecret, ttl)
	require.NoError(t, err)
	return svc
}

func TestNew_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := New([]byte("short"), time.Hour)
	require.Error(t, err)

	_, err = New(nil, time.Hour)
	require.Error(t, err)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Hour)
	id := Identity{UserID: 42, Username: "alice", Role: models.RolePassenger}

	raw, err := svc.Issue(id)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	got, err := svc.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(42), got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, models.RolePassenger, got.Role)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, time.Hour).WithClock(func() time.Time { return now })

	raw, err := svc.Issue(Identity{UserID: 1, Username: "bob", Role: models.RoleDriver})
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	require.NoError(t, err)

	now = now.Add(time.Hour + time.Second)
	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_SignatureFlip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Hour)
	raw, err := svc.Issue(Identity{UserID: 1, Username: "bob", Role: models.RoleDriver})
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)

	// The final base64url char carries padding bits that a non-strict
	// decoder ignores, so flip every char except that one.
	sig := []byte(parts[2])
	for i := range sig[:len(sig)-1] {
		flipped := make([]byte, len(sig))
		copy(flipped, sig)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(flipped)

		_, err := svc.Verify(tampered)
		assert.ErrorIs(t, err, ErrSignatureInvalid, "flipped signature byte %d", i)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Hour)
	other, err := New([]byte("another-secret-key-0123456789abcd"), time.Hour)
	require.NoError(t, err)

	raw, err := other.Issue(Identity{UserID: 1, Username: "bob", Role: models.RoleDriver})
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Hour)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d", "not.a.jwt"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}

func TestVerify_UnknownRoleClaim(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Hour)
	raw, err := svc.Issue(Identity{UserID: 1, Username: "bob", Role: models.Role("WIZARD")})
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExpiresAt_SurvivesExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, time.Hour).WithClock(func() time.Time { return now })

	raw, err := svc.Issue(Identity{UserID: 1, Username: "bob", Role: models.RoleDriver})
	require.NoError(t, err)

	wantExp := now.Add(time.Hour)

	exp, err := svc.ExpiresAt(raw)
	require.NoError(t, err)
	assert.WithinDuration(t, wantExp, exp, time.Second)

	now = now.Add(2 * time.Hour)
	exp, err = svc.ExpiresAt(raw)
	require.NoError(t, err)
	assert.WithinDuration(t, wantExp, exp, time.Second)

	_, err = svc.ExpiresAt("garbage")
	assert.ErrorIs(t, err, ErrMalformed)
}
