package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mento-services/marketplace-api/internal/domain"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

type fakeUserRepo struct {
	users map[string]*domain.User
	err   error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }
func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}
func (f *fakeUserRepo) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (f *fakeUserRepo) SetKycStatus(ctx context.Context, id string, status domain.KycStatus) error {
	return nil
}
func (f *fakeUserRepo) UpdateFCMToken(ctx context.Context, id, token string) error { return nil }
func (f *fakeUserRepo) Deactivate(ctx context.Context, id string) error            { return nil }

func newGateApp(repo *fakeUserRepo, principal *Principal) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"success": false, "code": domainErr.Code})
		},
	})
	app.Get("/protected",
		func(c *fiber.Ctx) error {
			if principal != nil {
				c.Locals("auth_principal", principal)
			}
			return c.Next()
		},
		RequireKycApproved(repo),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestRequireKycApprovedPerStatus(t *testing.T) {
	cases := []struct {
		status domain.KycStatus
		want   int
	}{
		{domain.KycStatusApproved, fiber.StatusOK},
		{domain.KycStatusSubmitted, fiber.StatusOK},
		{domain.KycStatusPending, fiber.StatusForbidden},
		{domain.KycStatusRejected, fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			user := &domain.User{ID: "u1", KycStatus: tc.status, Active: true}
			repo := &fakeUserRepo{users: map[string]*domain.User{"u1": user}}
			app := newGateApp(repo, &Principal{User: user})

			resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestRequireKycApprovedWithoutPrincipal(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*domain.User{}}
	app := newGateApp(repo, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireKycApprovedFailsClosedOnLookupError(t *testing.T) {
	user := &domain.User{ID: "u1", KycStatus: domain.KycStatusApproved, Active: true}

	t.Run("user vanished", func(t *testing.T) {
		repo := &fakeUserRepo{users: map[string]*domain.User{}}
		app := newGateApp(repo, &Principal{User: user})

		resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("store error", func(t *testing.T) {
		repo := &fakeUserRepo{err: errors.New("connection reset")}
		app := newGateApp(repo, &Principal{User: user})

		resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestRequireAdmin(t *testing.T) {
	newApp := func(principal *Principal) *fiber.App {
		app := fiber.New(fiber.Config{
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				domainErr := apperrors.ToDomainError(err)
				return c.SendStatus(domainErr.HTTPStatus)
			},
		})
		app.Get("/admin",
			func(c *fiber.Ctx) error {
				if principal != nil {
					c.Locals("auth_principal", principal)
				}
				return c.Next()
			},
			RequireAdmin(),
			func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
		)
		return app
	}

	t.Run("admin passes", func(t *testing.T) {
		app := newApp(&Principal{User: &domain.User{ID: "a1", Role: domain.UserRoleAdmin}})
		resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("member forbidden", func(t *testing.T) {
		app := newApp(&Principal{User: &domain.User{ID: "u1", Role: domain.UserRoleMember}})
		resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("anonymous unauthorized", func(t *testing.T) {
		app := newApp(nil)
		resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
