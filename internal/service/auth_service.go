package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mento-services/marketplace-api/internal/auth"
	"github.com/mento-services/marketplace-api/internal/config"
	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/events"
	"github.com/mento-services/marketplace-api/internal/observability"
	"github.com/mento-services/marketplace-api/internal/ratelimit"
	"github.com/mento-services/marketplace-api/internal/repository"
	"github.com/mento-services/marketplace-api/internal/sms"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// TokenPair bundles a freshly issued access/refresh token set.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService coordinates the OTP login flow and token refresh.
type AuthService struct {
	users          repository.UserRepository
	otp            sms.OtpProvider
	tokens         *auth.TokenManager
	otpLimiter     *ratelimit.FixedWindowLimiter
	refreshLimiter *ratelimit.FixedWindowLimiter
	dispatcher     events.Dispatcher
	metrics        *observability.Metrics
	adminMobiles   map[string]struct{}
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	OtpProvider    sms.OtpProvider
	OtpLimiter     *ratelimit.FixedWindowLimiter
	RefreshLimiter *ratelimit.FixedWindowLimiter
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	admins := make(map[string]struct{}, len(cfg.Auth.AdminMobiles))
	for _, mobile := range cfg.Auth.AdminMobiles {
		admins[mobile] = struct{}{}
	}
	return &AuthService{
		users:          deps.UserRepo,
		otp:            deps.OtpProvider,
		tokens:         auth.NewTokenManager(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTokenTTLMinutes, cfg.Auth.RefreshTokenTTLDays),
		otpLimiter:     deps.OtpLimiter,
		refreshLimiter: deps.RefreshLimiter,
		dispatcher:     deps.Dispatcher,
		metrics:        deps.Metrics,
		adminMobiles:   admins,
	}
}

// SendOtp dispatches a login code to the mobile number, rate limited per
// number.
func (s *AuthService) SendOtp(ctx context.Context, mobile string) error {
	if err := validateMobile(mobile); err != nil {
		return err
	}
	if err := s.otpLimiter.Allow(ctx, "send_otp:"+mobile); err != nil {
		return err
	}
	if err := s.otp.SendOtp(ctx, mobile); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.metrics.RecordEvent("otp_sent")
	return nil
}

// ResendOtp re-dispatches the pending code, charged against the same
// window as SendOtp.
func (s *AuthService) ResendOtp(ctx context.Context, mobile string) error {
	if err := validateMobile(mobile); err != nil {
		return err
	}
	if err := s.otpLimiter.Allow(ctx, "send_otp:"+mobile); err != nil {
		return err
	}
	if err := s.otp.ResendOtp(ctx, mobile); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.metrics.RecordEvent("otp_resent")
	return nil
}

// VerifyOtp checks the code and logs the caller in, creating the account
// on first verification. A previously deactivated account is revived.
func (s *AuthService) VerifyOtp(ctx context.Context, mobile, code string) (*domain.User, *TokenPair, bool, error) {
	if err := validateMobile(mobile); err != nil {
		return nil, nil, false, err
	}
	if code == "" {
		return nil, nil, false, apperrors.NewValidationError("otp is required", nil)
	}

	if err := s.otp.VerifyOtp(ctx, mobile, code); err != nil {
		if errors.Is(err, sms.ErrTooManyAttempts) {
			return nil, nil, false, apperrors.NewRateLimited("too many verification attempts")
		}
		return nil, nil, false, apperrors.NewValidationError("invalid or expired otp", nil)
	}

	user, err := s.users.GetByMobile(ctx, mobile)
	newUser := false
	switch {
	case err == pgx.ErrNoRows:
		user = &domain.User{Mobile: mobile, Role: s.roleFor(mobile)}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, nil, false, apperrors.NewInternalError(err)
		}
		newUser = true
		s.publishUserRegistered(ctx, user)
	case err != nil:
		return nil, nil, false, apperrors.NewInternalError(err)
	case !user.Active:
		user.Active = true
		if err := s.users.Update(ctx, user); err != nil {
			return nil, nil, false, apperrors.NewInternalError(err)
		}
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, false, err
	}
	s.metrics.RecordEvent("otp_verified")
	return user, pair, newUser, nil
}

// Refresh validates a refresh token and mints a new access token. The
// refresh token itself is neither rotated nor revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.tokens.Parse(refreshToken, auth.TokenKindRefresh)
	if err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid refresh token")
	}

	if err := s.refreshLimiter.Allow(ctx, "refresh:"+claims.UserID); err != nil {
		return "", time.Time{}, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", time.Time{}, apperrors.NewUnauthorized("user not found")
		}
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	if !user.Active {
		return "", time.Time{}, apperrors.NewUnauthorized("account deactivated")
	}

	access, exp, err := s.tokens.Generate(user.ID, user.Mobile, auth.TokenKindAccess)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return access, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) issuePair(user *domain.User) (*TokenPair, error) {
	access, accessExp, refresh, refreshExp, err := s.tokens.GeneratePair(user.ID, user.Mobile)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthService) roleFor(mobile string) domain.UserRole {
	if _, ok := s.adminMobiles[mobile]; ok {
		return domain.UserRoleAdmin
	}
	return domain.UserRoleMember
}

func (s *AuthService) publishUserRegistered(ctx context.Context, user *domain.User) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload:   events.UserRegisteredPayload{Mobile: user.Mobile, Name: user.Name, Email: user.Email},
	})
}
