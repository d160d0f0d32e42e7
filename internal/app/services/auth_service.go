package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/app/models/dto"
	"github.com/deniz/looking4/internal/pkg/apperrors"
	"github.com/deniz/looking4/internal/pkg/auth"
)

// AuthService handles registration, login and identity lookups
type AuthService struct {
	userStore  UserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userStore UserStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userStore:  userStore,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates an account and returns a token pair for it
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
	}

	if _, err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userID", user.ID).
		Str("username", user.Username).
		Msg("User registered")

	return s.tokenResponse(user)
}

// Login verifies credentials and returns a token pair
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userStore.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// Same response for unknown email and wrong password
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

// Refresh redeems a refresh token for a new access token. The user row is
// re-read so a deleted account cannot keep minting tokens.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	user, err := s.userStore.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	accessToken, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshResponse{AccessToken: accessToken, ExpiresIn: expiresIn}, nil
}

// Me returns the authenticated user's public profile
func (s *AuthService) Me(ctx context.Context, userID int64) (*dto.UserBasicResponse, error) {
	user, err := s.userStore.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := dto.ToUserBasicResponse(user)
	return &response, nil
}

func (s *AuthService) tokenResponse(user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		User:         dto.ToUserBasicResponse(user),
	}, nil
}
