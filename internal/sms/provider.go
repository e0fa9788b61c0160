package sms

import "context"

// OtpProvider abstracts the SMS one-time-password flow. Implementations
// report any non-success provider response as an error.
type OtpProvider interface {
	SendOtp(ctx context.Context, mobile string) error
	ResendOtp(ctx context.Context, mobile string) error
	VerifyOtp(ctx context.Context, mobile, code string) error
}
