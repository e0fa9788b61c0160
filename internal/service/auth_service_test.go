package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mento-services/marketplace-api/internal/auth"
	"github.com/mento-services/marketplace-api/internal/config"
	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/observability"
	"github.com/mento-services/marketplace-api/internal/ratelimit"
	"github.com/mento-services/marketplace-api/internal/sms"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

type fakeUserStore struct {
	byID     map[string]*domain.User
	byMobile map[string]*domain.User
	nextID   int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[string]*domain.User{}, byMobile: map[string]*domain.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	f.nextID++
	user.ID = fmt.Sprintf("u%d", f.nextID)
	user.Active = true
	if user.KycStatus == "" {
		user.KycStatus = domain.KycStatusPending
	}
	stored := *user
	f.byID[user.ID] = &stored
	f.byMobile[user.Mobile] = &stored
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, user *domain.User) error {
	stored, ok := f.byID[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	*stored = *user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByMobile(_ context.Context, mobile string) (*domain.User, error) {
	user, ok := f.byMobile[mobile]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) SetKycStatus(_ context.Context, id string, status domain.KycStatus) error {
	user, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.KycStatus = status
	return nil
}

func (f *fakeUserStore) UpdateFCMToken(_ context.Context, id, token string) error { return nil }

func (f *fakeUserStore) Deactivate(_ context.Context, id string) error {
	user, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Active = false
	return nil
}

// fakeOtpProvider accepts one hardcoded code per mobile.
type fakeOtpProvider struct {
	sent     map[string]int
	code     string
	attempts int
	maxTries int
}

func newFakeOtpProvider() *fakeOtpProvider {
	return &fakeOtpProvider{sent: map[string]int{}, code: "123456", maxTries: 3}
}

func (f *fakeOtpProvider) SendOtp(_ context.Context, mobile string) error {
	f.sent[mobile]++
	return nil
}

func (f *fakeOtpProvider) ResendOtp(_ context.Context, mobile string) error {
	f.sent[mobile]++
	return nil
}

func (f *fakeOtpProvider) VerifyOtp(_ context.Context, mobile, code string) error {
	f.attempts++
	if f.attempts > f.maxTries {
		return sms.ErrTooManyAttempts
	}
	if code != f.code {
		return errors.New("code mismatch")
	}
	return nil
}

type countingStore struct {
	counts map[string]int64
}

func (c *countingStore) IncrWithExpire(_ context.Context, key string, _ time.Duration) (int64, error) {
	if c.counts == nil {
		c.counts = map[string]int64{}
	}
	c.counts[key]++
	return c.counts[key], nil
}

func newAuthServiceForTest(users *fakeUserStore, otp sms.OtpProvider, adminMobiles []string) *AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			AccessSecret:          "access-secret",
			RefreshSecret:         "refresh-secret",
			AccessTokenTTLMinutes: 15,
			RefreshTokenTTLDays:   30,
			AdminMobiles:          adminMobiles,
		},
	}
	return NewAuthService(cfg, AuthDependencies{
		UserRepo:       users,
		OtpProvider:    otp,
		OtpLimiter:     ratelimit.NewFixedWindowLimiter(&countingStore{}, 3, 10*time.Minute),
		RefreshLimiter: ratelimit.NewFixedWindowLimiter(&countingStore{}, 10, time.Minute),
		Metrics:        observability.NewMetrics(),
	})
}

func TestSendOtpValidatesMobile(t *testing.T) {
	svc := newAuthServiceForTest(newFakeUserStore(), newFakeOtpProvider(), nil)
	ctx := context.Background()

	for _, mobile := range []string{"", "12345", "5876543210", "98765432100", "abcdefghij"} {
		err := svc.SendOtp(ctx, mobile)
		require.Error(t, err, "mobile %q", mobile)
		assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	}

	assert.NoError(t, svc.SendOtp(ctx, "9876543210"))
}

func TestSendOtpRateLimited(t *testing.T) {
	provider := newFakeOtpProvider()
	svc := newAuthServiceForTest(newFakeUserStore(), provider, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.SendOtp(ctx, "9876543210"))
	}

	err := svc.SendOtp(ctx, "9876543210")
	require.Error(t, err)
	assert.Equal(t, 429, apperrors.ToDomainError(err).HTTPStatus)
	assert.Equal(t, 3, provider.sent["9876543210"], "limited call must not reach the provider")
}

func TestVerifyOtpCreatesAccountOnFirstLogin(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthServiceForTest(users, newFakeOtpProvider(), nil)

	user, pair, newUser, err := svc.VerifyOtp(context.Background(), "9876543210", "123456")
	require.NoError(t, err)

	assert.True(t, newUser)
	assert.Equal(t, domain.UserRoleMember, user.Role)
	assert.Equal(t, domain.KycStatusPending, user.KycStatus)
	assert.True(t, user.Active)
	require.NotNil(t, pair)

	claims, err := svc.TokenManager().Parse(pair.AccessToken, auth.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestVerifyOtpSecondLoginIsNotNew(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthServiceForTest(users, newFakeOtpProvider(), nil)
	ctx := context.Background()

	first, _, _, err := svc.VerifyOtp(ctx, "9876543210", "123456")
	require.NoError(t, err)

	second, _, newUser, err := svc.VerifyOtp(ctx, "9876543210", "123456")
	require.NoError(t, err)
	assert.False(t, newUser)
	assert.Equal(t, first.ID, second.ID)
}

func TestVerifyOtpGrantsAdminRoleFromAllowlist(t *testing.T) {
	svc := newAuthServiceForTest(newFakeUserStore(), newFakeOtpProvider(), []string{"9999999999"})

	user, _, _, err := svc.VerifyOtp(context.Background(), "9999999999", "123456")
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleAdmin, user.Role)
}

func TestVerifyOtpRejectsWrongCode(t *testing.T) {
	svc := newAuthServiceForTest(newFakeUserStore(), newFakeOtpProvider(), nil)

	_, _, _, err := svc.VerifyOtp(context.Background(), "9876543210", "000000")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestVerifyOtpMapsAttemptExhaustionToRateLimited(t *testing.T) {
	provider := newFakeOtpProvider()
	provider.maxTries = 0
	svc := newAuthServiceForTest(newFakeUserStore(), provider, nil)

	_, _, _, err := svc.VerifyOtp(context.Background(), "9876543210", "123456")
	require.Error(t, err)
	assert.Equal(t, 429, apperrors.ToDomainError(err).HTTPStatus)
}

func TestVerifyOtpRevivesDeactivatedAccount(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthServiceForTest(users, newFakeOtpProvider(), nil)
	ctx := context.Background()

	user, _, _, err := svc.VerifyOtp(ctx, "9876543210", "123456")
	require.NoError(t, err)
	require.NoError(t, users.Deactivate(ctx, user.ID))

	revived, _, newUser, err := svc.VerifyOtp(ctx, "9876543210", "123456")
	require.NoError(t, err)
	assert.False(t, newUser)
	assert.True(t, revived.Active)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthServiceForTest(users, newFakeOtpProvider(), nil)
	ctx := context.Background()

	user, pair, _, err := svc.VerifyOtp(ctx, "9876543210", "123456")
	require.NoError(t, err)

	access, exp, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.TokenManager().Parse(access, auth.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newAuthServiceForTest(newFakeUserStore(), newFakeOtpProvider(), nil)
	ctx := context.Background()

	_, pair, _, err := svc.VerifyOtp(ctx, "9876543210", "123456")
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, pair.AccessToken)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)
}

func TestRefreshRejectsDeactivatedAccount(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthServiceForTest(users, newFakeOtpProvider(), nil)
	ctx := context.Background()

	user, pair, _, err := svc.VerifyOtp(ctx, "9876543210", "123456")
	require.NoError(t, err)
	require.NoError(t, users.Deactivate(ctx, user.ID))

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)
}

func TestRefreshRateLimited(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthServiceForTest(users, newFakeOtpProvider(), nil)
	ctx := context.Background()

	_, pair, _, err := svc.VerifyOtp(ctx, "9876543210", "123456")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, _, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
	}

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, 429, apperrors.ToDomainError(err).HTTPStatus)
}
