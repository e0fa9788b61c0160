package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mento-services/marketplace-api/internal/api/dto"
	"github.com/mento-services/marketplace-api/internal/service"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// AuthHandler exposes the OTP login and token refresh endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SendOtp handles POST /auth/send-otp.
func (h *AuthHandler) SendOtp(c *fiber.Ctx) error {
	var req dto.SendOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.auth.SendOtp(c.UserContext(), req.Mobile); err != nil {
		return err
	}
	return message(c, "otp sent")
}

// ResendOtp handles POST /auth/resend-otp.
func (h *AuthHandler) ResendOtp(c *fiber.Ctx) error {
	var req dto.SendOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.auth.ResendOtp(c.UserContext(), req.Mobile); err != nil {
		return err
	}
	return message(c, "otp resent")
}

// VerifyOtp handles POST /auth/verify-otp.
func (h *AuthHandler) VerifyOtp(c *fiber.Ctx) error {
	var req dto.VerifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, pair, newUser, err := h.auth.VerifyOtp(c.UserContext(), req.Mobile, req.Otp)
	if err != nil {
		return err
	}

	return ok(c, fiber.Map{
		"user":     dto.NewUserResponse(user),
		"new_user": newUser,
		"tokens": dto.TokenPairResponse{
			AccessToken:      pair.AccessToken,
			AccessExpiresAt:  pair.AccessExpiresAt,
			RefreshToken:     pair.RefreshToken,
			RefreshExpiresAt: pair.RefreshExpiresAt,
		},
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refresh token is required", nil)
	}

	access, exp, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return ok(c, dto.AccessTokenResponse{AccessToken: access, AccessExpiresAt: exp})
}
