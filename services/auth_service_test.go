package services

import (
	"context"
	"testing"
	"time"

	"bookstore/models"
	"bookstore/storage"
	"bookstore/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*AuthService, *CartService, *fakeUsers, *utils.JWTManager) {
	books := catalogFixture()
	carts := NewCartService(newFakeCarts(books), books, storage.NewMemoryKV(), testConfig())
	users := newFakeUsers()
	jwt := utils.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(users, carts, jwt), carts, users, jwt
}

func TestAuthService_RegisterMergesGuestCart(t *testing.T) {
	svc, carts, _, jwt := newAuthFixture()
	ctx := context.Background()
	guestID := "0b7e8b9c-3d4f-4a1b-8c2d-111111111111"

	_, err := carts.AddItem(ctx, models.CartOwner{GuestID: guestID}, 2, 2)
	require.NoError(t, err)

	resp, err := svc.Register(ctx, models.RegisterRequest{
		Email:    "New.Reader@Example.com",
		Password: "secret123",
		FullName: "New Reader",
		GuestID:  guestID,
	})
	require.NoError(t, err)
	assert.Equal(t, "new.reader@example.com", resp.User.Email)
	assert.Equal(t, models.RoleCustomer, resp.User.Role)
	require.NotNil(t, resp.Cart)
	assert.Equal(t, map[int]int{2: 2}, quantities(resp.Cart))

	claims, err := jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	guest, err := carts.GetCart(ctx, models.CartOwner{GuestID: guestID})
	require.NoError(t, err)
	assert.Empty(t, guest.Items)

	_, err = svc.Register(ctx, models.RegisterRequest{Email: "new.reader@example.com", Password: "x12345", FullName: "Dup"})
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	svc, carts, _, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, models.RegisterRequest{Email: "a@example.com", Password: "secret123", FullName: "Ann Author"})
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, models.CartOwner{UserID: registered.User.ID}, 1, 1)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, models.CartOwner{GuestID: "guest-login"}, 1, 2)
	require.NoError(t, err)

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "secret123", GuestID: "guest-login"})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 3}, quantities(resp.Cart))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthService_ProfileAndCredentials(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, models.RegisterRequest{Email: "p@example.com", Password: "secret123", FullName: "Pat Page"})
	require.NoError(t, err)
	id := reg.User.ID

	profile, err := svc.UpdateProfile(ctx, id, models.UpdateProfileRequest{Line: "2 Shelf St", City: "Bookham", PostalCode: "99", Country: "gb"})
	require.NoError(t, err)
	assert.Equal(t, "Pat Page", profile.FullName)
	assert.Equal(t, "GB", profile.Country)

	err = svc.ChangePassword(ctx, id, models.ChangePasswordRequest{OldPassword: "bad", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	require.NoError(t, svc.ChangePassword(ctx, id, models.ChangePasswordRequest{OldPassword: "secret123", NewPassword: "newsecret"}))

	_, err = svc.ChangeEmail(ctx, id, models.ChangeEmailRequest{Email: "q@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	updated, err := svc.ChangeEmail(ctx, id, models.ChangeEmailRequest{Email: "Q@example.com", Password: "newsecret"})
	require.NoError(t, err)
	assert.Equal(t, "q@example.com", updated.Email)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "q@example.com", Password: "newsecret"})
	assert.NoError(t, err)
}
