package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ashukla/ridepool/internal/models"
)

var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// Identity is the authenticated principal carried by a verified token.
type Identity struct {
	UserID   uint
	Username string
	Role     models.Role
}

type Claims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies access tokens with a single process-wide
// HS256 key. The key is read-only after New.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret []byte, ttl time.Duration) (*Service, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("signing key too short: %d bytes, want at least 32", len(secret))
	}
	return &Service{secret: secret, ttl: ttl, now: time.Now}, nil
}

// WithClock overrides the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) TTL() time.Duration { return s.ttl }

// Issue produces a compact signed token for the identity, expiring
// ttl from now.
func (s *Service) Issue(id Identity) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: id.UserID,
		Role:   id.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify validates the signature and expiry of a compact token and
// returns the embedded identity. The result depends only on the token
// bytes, the key, and the current time.
func (s *Service) Verify(raw string) (*Identity, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		default:
			return nil, ErrMalformed
		}
	}
	if !tkn.Valid {
		return nil, ErrMalformed
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrMalformed
	}

	return &Identity{
		UserID:   claims.UserID,
		Username: claims.Subject,
		Role:     role,
	}, nil
}

// ExpiresAt reports the expiry instant of a token without checking
// whether it has already passed. Signature must still be valid.
func (s *Service) ExpiresAt(raw string) (time.Time, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return time.Time{}, ErrSignatureInvalid
		}
		return time.Time{}, ErrMalformed
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrMalformed
	}
	return claims.ExpiresAt.Time, nil
}
