package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuthority returns a middleware that lets the request through only
// when the authenticated user holds at least one of the given authorities
// (e.g. ROLE_ADMIN). It must run after JWTAuth; a request without
// authorities in its context is rejected with 403 Forbidden.
func RequireAuthority(authorities ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims := currentClaims(c); claims != nil {
				for _, a := range authorities {
					if claims.HasAuthority(a) {
						return next(c)
					}
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
}
