package service

import (
	"regexp"

	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

var (
	mobilePattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	emailPattern   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func validateMobile(mobile string) error {
	if !mobilePattern.MatchString(mobile) {
		return apperrors.NewValidationError("invalid mobile number", map[string]any{"mobile": mobile})
	}
	return nil
}

func validatePincode(pincode string) error {
	if !pincodePattern.MatchString(pincode) {
		return apperrors.NewValidationError("invalid pincode", nil)
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperrors.NewValidationError("invalid email address", nil)
	}
	return nil
}

// Coordinates are validated before any write so a bad client cannot park
// a worker outside the globe.
func validateCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return apperrors.NewValidationError("latitude must be within [-90, 90]", nil)
	}
	if longitude < -180 || longitude > 180 {
		return apperrors.NewValidationError("longitude must be within [-180, 180]", nil)
	}
	return nil
}
