package middleware // reusable HTTP middleware for the fleet API

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abengl/fleet-management-api/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxClaims = "claims"
)

// TokenParser validates a raw access token. *utils.TokenIssuer satisfies it.
type TokenParser interface {
	Parse(raw string) (*utils.Claims, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's subject, email and authorities into the request
// context. Handlers read them back with CurrentUserID, CurrentEmail and
// CurrentAuthorities.
func JWTAuth(tokens TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header is "Bearer " followed by the JWT.
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			// Parse checks the HMAC signature, issuer and expiry.
			claims, err := tokens.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			id, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			c.Set(ctxUserID, id)
			c.Set(ctxEmail, claims.Email)
			c.Set(ctxClaims, claims)
			return next(c)
		}
	}
}
