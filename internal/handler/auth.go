package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abengl/fleet-management-api/internal/middleware"
	"github.com/abengl/fleet-management-api/internal/service"
)

// Authenticator is the part of service.AuthService used over HTTP.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (service.AuthResult, error)
	CreateUser(ctx context.Context, name, email, password, role string) (service.AuthResult, error)
	LoadPrincipal(ctx context.Context, email string) (service.Principal, error)
}

// AuthHandler serves login, sign-up and the current-user endpoint.
type AuthHandler struct {
	Auth Authenticator
}

func NewAuthHandler(a Authenticator) *AuthHandler {
	return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // ADMIN | USER
}

type meResp struct {
	ID          uint64   `json:"id"`
	Email       string   `json:"email"`
	Authorities []string `json:"authorities"`
	Enabled     bool     `json:"enabled"`
}

// Login: verify credentials and return an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	res, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// SignUp: create a user with the requested role and return a token for it.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	res, err := h.Auth.CreateUser(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Me: return the authenticated user as currently stored.
func (h *AuthHandler) Me(c echo.Context) error {
	email := middleware.CurrentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.Auth.LoadPrincipal(c.Request().Context(), email)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, meResp{ID: p.UserID, Email: p.Email, Authorities: p.Authorities, Enabled: p.Enabled})
}
