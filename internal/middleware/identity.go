package middleware

// identity.go holds the accessors for the identity JWTAuth stores in the
// Echo context. Handlers and the rate limiter read the caller through them
// instead of touching context keys directly.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/abengl/fleet-management-api/internal/utils"
)

// CurrentUserID returns the authenticated user's id.
func CurrentUserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok
}

// CurrentEmail returns the authenticated user's email.
func CurrentEmail(c echo.Context) string {
	s, _ := c.Get(ctxEmail).(string)
	return s
}

// CurrentAuthorities returns the authorities carried by the access token.
func CurrentAuthorities(c echo.Context) []string {
	if claims := currentClaims(c); claims != nil {
		return claims.Authorities
	}
	return nil
}

func currentClaims(c echo.Context) *utils.Claims {
	claims, _ := c.Get(ctxClaims).(*utils.Claims)
	return claims
}

// userKey identifies the caller for rate limiting and logging; anonymous
// requests share "anon".
func userKey(c echo.Context) string {
	if id, ok := CurrentUserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
