package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mento-services/marketplace-api/internal/api/dto"
	"github.com/mento-services/marketplace-api/internal/auth"
	"github.com/mento-services/marketplace-api/internal/service"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// UsersHandler exposes the caller's own account.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.users.Get(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return ok(c, dto.NewUserResponse(user))
}

// UpdateMe handles PUT /users/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.UpdateProfile(c.UserContext(), principal.User.ID, service.UpdateProfileInput{
		Name:    req.Name,
		Email:   req.Email,
		Pincode: req.Pincode,
	})
	if err != nil {
		return err
	}
	return ok(c, dto.NewUserResponse(user))
}

// UpdateFCMToken handles PUT /users/me/fcm-token.
func (h *UsersHandler) UpdateFCMToken(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateFCMTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.users.UpdateFCMToken(c.UserContext(), principal.User.ID, req.Token); err != nil {
		return err
	}
	return message(c, "fcm token updated")
}

// DeactivateMe handles DELETE /users/me.
func (h *UsersHandler) DeactivateMe(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.users.Deactivate(c.UserContext(), principal.User.ID); err != nil {
		return err
	}
	return message(c, "account deactivated")
}
