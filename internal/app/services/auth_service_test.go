package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/looking4/internal/app/models/dto"
	"github.com/deniz/looking4/internal/pkg/apperrors"
	"github.com/deniz/looking4/internal/pkg/auth"
)

func newAuthServiceEnv() (*fakeUserStore, *AuthService) {
	store := newFakeUserStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "looking4.test",
	})
	return store, NewAuthService(store, jwtService, zerolog.Nop())
}

func TestRegisterAndLogin(t *testing.T) {
	_, service := newAuthServiceEnv()

	registered, err := service.Register(context.Background(), &dto.RegisterRequest{
		Username: "deniz",
		Email:    "Deniz@Example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)
	assert.Equal(t, "deniz", registered.User.Username)

	// Email lookup is case insensitive because it is normalized on write
	loggedIn, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "deniz@example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, service := newAuthServiceEnv()

	_, err := service.Register(context.Background(), &dto.RegisterRequest{
		Username: "deniz", Email: "a@example.com", Password: "sup3rsecret",
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), &dto.RegisterRequest{
		Username: "deniz", Email: "b@example.com", Password: "sup3rsecret",
	})
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	_, service := newAuthServiceEnv()

	_, err := service.Register(context.Background(), &dto.RegisterRequest{
		Username: "deniz", Email: "deniz@example.com", Password: "sup3rsecret",
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), &dto.LoginRequest{
		Email: "deniz@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Unknown email yields the same error as a wrong password
	_, err = service.Login(context.Background(), &dto.LoginRequest{
		Email: "nobody@example.com", Password: "sup3rsecret",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	_, service := newAuthServiceEnv()

	registered, err := service.Register(context.Background(), &dto.RegisterRequest{
		Username: "deniz", Email: "deniz@example.com", Password: "sup3rsecret",
	})
	require.NoError(t, err)

	refreshed, err := service.Refresh(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: registered.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Positive(t, refreshed.ExpiresIn)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	_, service := newAuthServiceEnv()

	registered, err := service.Register(context.Background(), &dto.RegisterRequest{
		Username: "deniz", Email: "deniz@example.com", Password: "sup3rsecret",
	})
	require.NoError(t, err)

	// An access token must not be redeemable for a new one
	_, err = service.Refresh(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: registered.AccessToken,
	})
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	_, service := newAuthServiceEnv()

	_, err := service.Refresh(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: "not.a.token",
	})
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestPasswordIsStoredHashed(t *testing.T) {
	store, service := newAuthServiceEnv()

	_, err := service.Register(context.Background(), &dto.RegisterRequest{
		Username: "deniz", Email: "deniz@example.com", Password: "sup3rsecret",
	})
	require.NoError(t, err)

	user, err := store.FindByEmail(context.Background(), "deniz@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "sup3rsecret", user.PasswordHash)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "sup3rsecret"))
}

func TestMe(t *testing.T) {
	_, service := newAuthServiceEnv()

	registered, err := service.Register(context.Background(), &dto.RegisterRequest{
		Username: "deniz", Email: "deniz@example.com", Password: "sup3rsecret",
	})
	require.NoError(t, err)

	profile, err := service.Me(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "deniz", profile.Username)

	_, err = service.Me(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
