package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mento-services/marketplace-api/internal/api/dto"
	"github.com/mento-services/marketplace-api/internal/auth"
	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/service"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// SubscriptionsHandler exposes the paid subscription checkout flow.
type SubscriptionsHandler struct {
	subs *service.SubscriptionService
}

// NewSubscriptionsHandler constructs handler.
func NewSubscriptionsHandler(subscriptionService *service.SubscriptionService) *SubscriptionsHandler {
	return &SubscriptionsHandler{subs: subscriptionService}
}

func parseSubscriptionType(raw string) (domain.SubscriptionType, error) {
	switch domain.SubscriptionType(raw) {
	case domain.SubscriptionTypeWorker, domain.SubscriptionTypeJobSeeker:
		return domain.SubscriptionType(raw), nil
	default:
		return "", apperrors.NewValidationError("invalid subscription type", map[string]any{"type": raw})
	}
}

// Create handles POST /subscriptions.
func (h *SubscriptionsHandler) Create(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	subType, err := parseSubscriptionType(req.Type)
	if err != nil {
		return err
	}

	sub, order, err := h.subs.Create(c.UserContext(), principal.User.ID, subType, req.Plan)
	if err != nil {
		return err
	}
	return created(c, fiber.Map{
		"subscription": dto.NewSubscriptionResponse(sub),
		"order":        dto.NewOrderResponse(order),
	})
}

// VerifyPayment handles POST /subscriptions/verify.
func (h *SubscriptionsHandler) VerifyPayment(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	subType, err := parseSubscriptionType(req.Type)
	if err != nil {
		return err
	}

	sub, err := h.subs.VerifyPayment(c.UserContext(), principal.User.ID, subType, service.VerifyPaymentInput{
		SubscriptionID: req.SubscriptionID,
		OrderID:        req.OrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
	})
	if err != nil {
		return err
	}
	return ok(c, dto.NewSubscriptionResponse(sub))
}

// Status handles GET /subscriptions/status?type=WORKER.
func (h *SubscriptionsHandler) Status(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	subType, err := parseSubscriptionType(c.Query("type"))
	if err != nil {
		return err
	}

	sub, err := h.subs.Status(c.UserContext(), principal.User.ID, subType)
	if err != nil {
		return err
	}
	if sub == nil {
		return ok(c, fiber.Map{"active": false})
	}
	return ok(c, fiber.Map{
		"active":       sub.Status == domain.SubscriptionActive,
		"subscription": dto.NewSubscriptionResponse(sub),
	})
}

// Plans handles GET /subscriptions/plans?type=WORKER.
func (h *SubscriptionsHandler) Plans(c *fiber.Ctx) error {
	subType, err := parseSubscriptionType(c.Query("type"))
	if err != nil {
		return err
	}
	return ok(c, h.subs.Plans(subType))
}

// Cancel handles POST /subscriptions/:id/cancel.
func (h *SubscriptionsHandler) Cancel(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.subs.Cancel(c.UserContext(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return message(c, "subscription cancelled")
}
