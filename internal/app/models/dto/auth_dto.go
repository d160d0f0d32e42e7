package dto

import "github.com/deniz/looking4/internal/app/models"

// RegisterRequest represents data required to create an account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserBasicResponse carries the public fields of a user
type UserBasicResponse struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// RefreshTokenRequest carries the refresh token to redeem
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshResponse is returned after redeeming a refresh token
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

// TokenResponse is returned after a successful register/login
type TokenResponse struct {
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	ExpiresIn    int               `json:"expiresIn"`
	User         UserBasicResponse `json:"user"`
}

// ToUserBasicResponse converts a user model to its public representation
func ToUserBasicResponse(user *models.User) UserBasicResponse {
	if user == nil {
		return UserBasicResponse{}
	}
	return UserBasicResponse{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
	}
}
