package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-requests/internal/api/dto"
	"github.com/spec-kit/service-requests/internal/auth"
	"github.com/spec-kit/service-requests/internal/service"
	apperrors "github.com/spec-kit/service-requests/pkg/util/errorutil"
)

// SessionHandler serves endpoints about the current bearer token.
type SessionHandler struct {
	auth *service.AuthService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authService *service.AuthService) *SessionHandler {
	return &SessionHandler{auth: authService}
}

// Logout handles POST /auth/logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.UserContext(), principal.Claims); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	switch {
	case principal.User != nil:
		return c.JSON(fiber.Map{"data": fiber.Map{
			"type": principal.SubjectType,
			"user": dto.NewUserResponse(principal.User),
		}})
	case principal.Admin != nil:
		return c.JSON(fiber.Map{"data": fiber.Map{
			"type":  principal.SubjectType,
			"admin": dto.NewAdminResponse(principal.Admin),
		}})
	}
	return apperrors.NewUnauthorized("unknown subject")
}
