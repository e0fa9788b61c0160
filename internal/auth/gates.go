package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/repository"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// RequireKycApproved gates operations on identity verification. It rereads
// the user record so a KYC decision takes effect on the next request, and
// admits Submitted callers provisionally while review is in flight. Any
// lookup failure fails closed.
func RequireKycApproved(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}

		user, err := users.GetByID(c.Context(), principal.User.ID)
		if err != nil {
			return apperrors.NewForbidden("identity verification required")
		}

		switch user.KycStatus {
		case domain.KycStatusApproved, domain.KycStatusSubmitted:
			return c.Next()
		default:
			return apperrors.NewForbidden("identity verification required")
		}
	}
}

// RequireAdmin restricts a route to moderator accounts.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.User.Role != domain.UserRoleAdmin {
			return apperrors.NewForbidden("admin access required")
		}
		return c.Next()
	}
}
