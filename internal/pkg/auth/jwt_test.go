package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/looking4/internal/app/models"
)

func newTestService(secret string, exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       secret,
		AccessTokenExp:  exp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "looking4.test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	service := newTestService("secret", time.Hour)
	user := &models.User{ID: 42, Username: "deniz"}

	accessToken, refreshToken, expiresIn, err := service.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, int(time.Hour.Seconds()), expiresIn)

	claims, err := service.ValidateAndExtractClaims(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "deniz", claims.Username)
	assert.Equal(t, "looking4.test", claims.Issuer)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	service := newTestService("secret", time.Hour)
	user := &models.User{ID: 42, Username: "deniz"}

	_, refreshToken, _, err := service.GenerateTokenPair(user)
	require.NoError(t, err)

	claims, err := service.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestTokenTypesDoNotCross(t *testing.T) {
	service := newTestService("secret", time.Hour)
	user := &models.User{ID: 42, Username: "deniz"}

	accessToken, refreshToken, _, err := service.GenerateTokenPair(user)
	require.NoError(t, err)

	// A refresh token cannot authenticate a request
	_, err = service.ValidateAndExtractClaims(refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// An access token cannot mint new access tokens
	_, err = service.ValidateRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateAccessTokenOnly(t *testing.T) {
	service := newTestService("secret", time.Hour)
	user := &models.User{ID: 7, Username: "deniz"}

	accessToken, expiresIn, err := service.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Equal(t, int(time.Hour.Seconds()), expiresIn)

	claims, err := service.ValidateAndExtractClaims(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
}

func TestValidateExpiredToken(t *testing.T) {
	service := newTestService("secret", -time.Minute)
	user := &models.User{ID: 42, Username: "deniz"}

	accessToken, _, _, err := service.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = service.ValidateAndExtractClaims(accessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := newTestService("secret-a", time.Hour)
	verifier := newTestService("secret-b", time.Hour)
	user := &models.User{ID: 42, Username: "deniz"}

	accessToken, _, _, err := issuer.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = verifier.ValidateAndExtractClaims(accessToken)
	assert.Error(t, err)
}

func TestValidateEmptyToken(t *testing.T) {
	service := newTestService("secret", time.Hour)

	_, err := service.ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ValidateAndExtractClaims("not-a-jwt")
	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	// Raw token without the prefix is accepted as-is
	token, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
