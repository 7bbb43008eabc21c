package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/abengl/fleet-management-api/internal/handler"
	"github.com/abengl/fleet-management-api/internal/middleware"
)

// Authorities accepted on the protected routes.
const (
	authorityAdmin = "ROLE_ADMIN"
	authorityUser  = "ROLE_USER"
)

// RegisterRoutes registers the unauthenticated probes. db backs /readyz.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAuth registers login and sign-up under /v1/auth, both behind the
// rate limiter, and the authenticated /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens middleware.TokenParser, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/login", a.Login)
	g.POST("/sign-up", a.SignUp)

	e.GET("/v1/me", a.Me,
		middleware.JWTAuth(tokens),
		middleware.RequireAuthority(authorityAdmin, authorityUser),
	)
}

// RegisterTrajectories registers the taxi and trajectory queries and the
// export endpoints. Any authenticated user may call them; cache wraps the
// latest-positions listing only.
func RegisterTrajectories(e *echo.Echo, h *handler.TrajectoryHandler, tokens middleware.TokenParser, cache echo.MiddlewareFunc) {
	authed := []echo.MiddlewareFunc{
		middleware.JWTAuth(tokens),
		middleware.RequireAuthority(authorityAdmin, authorityUser),
	}

	e.GET("/v1/taxis", h.ListTaxis, authed...)

	g := e.Group("/v1/trajectories", authed...)
	g.GET("", h.List)
	g.GET("/latest", h.Latest, cache)
	g.GET("/export", h.ExportDownload)
	g.POST("/export/email", h.ExportEmail)
}

// RegisterEmails registers the administrative test-mail endpoints.
func RegisterEmails(e *echo.Echo, h *handler.EmailHandler, tokens middleware.TokenParser) {
	g := e.Group("/v1/emails",
		middleware.JWTAuth(tokens),
		middleware.RequireAuthority(authorityAdmin),
	)
	g.POST("/plain", h.Plain)
	g.POST("/attachment", h.Attachment)
}
