package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/deniz/looking4/internal/app/models"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey       string
	AccessTokenExp  time.Duration
	RefreshTokenExp time.Duration
	TokenIssuer     string
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
	}
}

// Token type values carried in the claims
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims defines JWT token content
type Claims struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

// GenerateTokenPair creates access and refresh token pair. Both are signed
// with the same secret; the refresh token is distinguished by its tokenType
// claim and redeemed statelessly, so no server-side token storage exists.
func (s *JWTService) GenerateTokenPair(user *models.User) (accessToken, refreshToken string, expiresIn int, err error) {
	accessToken, err = s.signToken(user, tokenTypeAccess, time.Now().Add(s.config.AccessTokenExp))
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err = s.signToken(user, tokenTypeRefresh, s.GetRefreshTokenExpiry())
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to create refresh token: %w", err)
	}

	expiresIn = int(s.config.AccessTokenExp.Seconds())
	return accessToken, refreshToken, expiresIn, nil
}

// GenerateAccessToken issues a fresh access token, used when redeeming a
// refresh token.
func (s *JWTService) GenerateAccessToken(user *models.User) (accessToken string, expiresIn int, err error) {
	accessToken, err = s.signToken(user, tokenTypeAccess, time.Now().Add(s.config.AccessTokenExp))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create access token: %w", err)
	}
	return accessToken, int(s.config.AccessTokenExp.Seconds()), nil
}

func (s *JWTService) signToken(user *models.User, tokenType string, expiry time.Time) (string, error) {
	claims := &Claims{
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.config.TokenIssuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// ValidateToken validates a token
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ValidateAndExtractClaims validates an access token and extracts its
// claims. Refresh tokens are rejected here; they only buy new access tokens.
func (s *JWTService) ValidateAndExtractClaims(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.UserID <= 0 || claims.Username == "" || claims.TokenType == tokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateRefreshToken validates a refresh token and extracts its claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.UserID <= 0 || claims.TokenType != tokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetRefreshTokenExpiry returns refresh token expiry time
func (s *JWTService) GetRefreshTokenExpiry() time.Time {
	return time.Now().Add(s.config.RefreshTokenExp)
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}

	return authHeader, nil
}
