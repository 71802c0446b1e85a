package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ClaimsKey is the echo context key holding *Claims.
const ClaimsKey = "authClaims"

// Authenticator resolves a bearer token to the claims of a live account.
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*Claims, error)
}

// Middleware guards routes with bearer tokens.
type Middleware struct {
	authenticator Authenticator
}

func NewMiddleware(authenticator Authenticator) *Middleware {
	return &Middleware{authenticator: authenticator}
}

// RequireAuth rejects requests without a valid token.
func (m *Middleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization token")
			}

			claims, err := m.authenticator.Authenticate(c.Request().Context(), token)
			if err != nil {
				return authError(err)
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// RequireAdmin rejects requests without a valid admin token.
func (m *Middleware) RequireAdmin() echo.MiddlewareFunc {
	requireAuth := m.RequireAuth()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return requireAuth(func(c echo.Context) error {
			if !GetClaims(c).IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		})
	}
}

// OptionalAuth attaches claims when a valid token is present and otherwise
// lets the request through anonymously.
func (m *Middleware) OptionalAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := extractBearerToken(c); token != "" {
				if claims, err := m.authenticator.Authenticate(c.Request().Context(), token); err == nil {
					c.Set(ClaimsKey, claims)
				}
			}
			return next(c)
		}
	}
}

func authError(err error) error {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "token has expired")
	case errors.Is(err, ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	case errors.Is(err, ErrUserDisabled):
		return echo.NewHTTPError(http.StatusForbidden, "account is disabled")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to verify token")
	}
}

// GetClaims returns the authenticated claims, or nil.
func GetClaims(c echo.Context) *Claims {
	claims, ok := c.Get(ClaimsKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// UserID returns the authenticated user's ID, or 0 when anonymous.
func UserID(c echo.Context) int64 {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		// Browsers cannot set headers on websocket upgrades.
		if c.Request().Header.Get("Upgrade") == "websocket" {
			return c.QueryParam("token")
		}
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}
