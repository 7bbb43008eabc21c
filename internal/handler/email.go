package handler

import (
	"context"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
)

// Mailer is the part of service.EmailService exposed over HTTP.
type Mailer interface {
	SendPlainText(ctx context.Context, to string) error
	SendWithStaticAttachment(ctx context.Context, to string) error
}

// EmailHandler serves the administrative test-mail endpoints.
type EmailHandler struct {
	Mail Mailer
}

func NewEmailHandler(m Mailer) *EmailHandler {
	return &EmailHandler{Mail: m}
}

type emailReq struct {
	To string `json:"to"`
}

func (h *EmailHandler) recipient(c echo.Context) (string, bool) {
	var req emailReq
	if err := c.Bind(&req); err != nil {
		return "", false
	}
	addr, err := mail.ParseAddress(req.To)
	if err != nil {
		return "", false
	}
	return addr.Address, true
}

// Plain: POST /v1/emails/plain
func (h *EmailHandler) Plain(c echo.Context) error {
	to, ok := h.recipient(c)
	if !ok {
		return badRequest(c, "a valid recipient address is required")
	}
	if err := h.Mail.SendPlainText(c.Request().Context(), to); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "sent"})
}

// Attachment: POST /v1/emails/attachment
func (h *EmailHandler) Attachment(c echo.Context) error {
	to, ok := h.recipient(c)
	if !ok {
		return badRequest(c, "a valid recipient address is required")
	}
	if err := h.Mail.SendWithStaticAttachment(c.Request().Context(), to); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "sent"})
}
