package domain

import "time"

// UserRole distinguishes regular members from moderators.
type UserRole string

const (
	UserRoleMember UserRole = "MEMBER"
	UserRoleAdmin  UserRole = "ADMIN"
)

// KycStatus is the verification state carried on the user record.
type KycStatus string

const (
	KycStatusPending   KycStatus = "PENDING"
	KycStatusSubmitted KycStatus = "SUBMITTED"
	KycStatusApproved  KycStatus = "APPROVED"
	KycStatusRejected  KycStatus = "REJECTED"
)

// User is the identity anchor. Accounts are created on first OTP
// verification and soft-deleted via the Active flag.
type User struct {
	ID        string
	Mobile    string
	Name      *string
	Email     *string
	Pincode   *string
	FCMToken  *string
	Role      UserRole
	KycStatus KycStatus
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
