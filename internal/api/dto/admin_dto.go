package dto

// SetVerifiedRequest toggles a profile's verified badge.
type SetVerifiedRequest struct {
	Verified bool `json:"verified"`
}
