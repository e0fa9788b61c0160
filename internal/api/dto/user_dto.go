package dto

import (
	"time"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// UpdateProfileRequest mutates the caller's account fields.
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Pincode *string `json:"pincode"`
}

// UpdateFCMTokenRequest stores a push token.
type UpdateFCMTokenRequest struct {
	Token string `json:"token"`
}

// UserResponse is the outward user shape.
type UserResponse struct {
	ID        string    `json:"id"`
	Mobile    string    `json:"mobile"`
	Name      *string   `json:"name,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Pincode   *string   `json:"pincode,omitempty"`
	Role      string    `json:"role"`
	KycStatus string    `json:"kyc_status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps the domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Mobile:    user.Mobile,
		Name:      user.Name,
		Email:     user.Email,
		Pincode:   user.Pincode,
		Role:      string(user.Role),
		KycStatus: string(user.KycStatus),
		CreatedAt: user.CreatedAt,
	}
}
