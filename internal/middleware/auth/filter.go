package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ashukla/ridepool/internal/logging"
	"github.com/ashukla/ridepool/internal/token"
)

const identityKey = "identity"

const bearerPrefix = "Bearer "

// Middleware gates every request: it turns a bearer token into an
// identity in the echo context, or terminates the request with 401 for
// recognized token failures. Requests without a bearer header pass
// through unauthenticated; the policy decides whether that is enough.
type Middleware struct {
	Tokens  *token.Service
	Revoked *token.RevocationRegistry
	Policy  *Policy
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// BearerToken extracts the raw token from the Authorization header.
// Missing header or wrong scheme yields ok=false.
func BearerToken(c echo.Context) (string, bool) {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(h, bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(h[len(bearerPrefix):])
	if raw == "" {
		return "", false
	}
	return raw, true
}

// IdentityFrom returns the identity established by the filter, if any.
func IdentityFrom(c echo.Context) (*token.Identity, bool) {
	id, ok := c.Get(identityKey).(*token.Identity)
	return id, ok
}

func (m *Middleware) Filter(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := BearerToken(c)
		if !ok {
			return next(c)
		}

		l := logging.FromContext(c.Request().Context()).With("middleware", "auth_filter", "path", c.Request().URL.Path)

		id, err := m.Tokens.Verify(raw)
		if err != nil {
			code, msg := tokenErrorBody(err)
			l.Warn("token_rejected", "reason", code)
			return c.JSON(http.StatusUnauthorized, errorBody{Error: code, Message: msg})
		}

		if m.Revoked.IsRevoked(raw) {
			l.Warn("token_rejected", "reason", "token_revoked", "user", id.Username)
			return c.JSON(http.StatusUnauthorized, errorBody{
				Error:   "token_revoked",
				Message: "token has been revoked, please login again",
			})
		}

		if id == nil || id.Username == "" {
			// A verified token with no usable subject means something is
			// wrong internally. Reject rather than continue half-authenticated.
			l.Error("identity_establishment_failed", "reason", "empty subject")
			return c.JSON(http.StatusUnauthorized, errorBody{
				Error:   "token_malformed",
				Message: "token is not valid",
			})
		}

		c.Set(identityKey, id)
		return next(c)
	}
}

func tokenErrorBody(err error) (code, msg string) {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "token_expired", "token has expired, please login again"
	case errors.Is(err, token.ErrSignatureInvalid):
		return "signature_invalid", "token signature could not be verified"
	default:
		return "token_malformed", "token is not valid"
	}
}
