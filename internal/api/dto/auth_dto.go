package dto

import "time"

// SendOtpRequest starts or restarts the OTP login flow.
type SendOtpRequest struct {
	Mobile string `json:"mobile"`
}

// VerifyOtpRequest completes the OTP login flow.
type VerifyOtpRequest struct {
	Mobile string `json:"mobile"`
	Otp    string `json:"otp"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPairResponse carries a full token set.
type TokenPairResponse struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// AccessTokenResponse carries a refreshed access token.
type AccessTokenResponse struct {
	AccessToken     string    `json:"access_token"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}
