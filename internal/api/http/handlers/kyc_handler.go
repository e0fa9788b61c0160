package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mento-services/marketplace-api/internal/api/dto"
	"github.com/mento-services/marketplace-api/internal/auth"
	"github.com/mento-services/marketplace-api/internal/service"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// KycHandler exposes document submission and status for the caller.
type KycHandler struct {
	kyc *service.KycService
}

// NewKycHandler constructs handler.
func NewKycHandler(kycService *service.KycService) *KycHandler {
	return &KycHandler{kyc: kycService}
}

// Submit handles POST /kyc.
func (h *KycHandler) Submit(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.SubmitKycRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.kyc.Submit(c.UserContext(), principal.User.ID, service.SubmitKycInput{
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		DocumentURL:    req.DocumentURL,
		SelfieURL:      req.SelfieURL,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewKycResponse(record))
}

// Status handles GET /kyc.
func (h *KycHandler) Status(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	record, err := h.kyc.Status(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return ok(c, dto.NewKycResponse(record))
}
