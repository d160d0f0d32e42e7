package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/looking4/internal/app/models/dto"
	"github.com/deniz/looking4/internal/app/services"
	"github.com/deniz/looking4/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register handles account creation
// @Summary Register a new account
// @Description Creates a user account and returns a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.APIResponse{data=dto.TokenResponse} "Account created"
// @Failure 400 {object} dto.APIResponse "Invalid request body"
// @Failure 409 {object} dto.APIResponse "Username or email already taken"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	response, err := c.authService.Register(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// Login handles credential verification
// @Summary Log in
// @Description Verifies credentials and returns a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Logged in"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	response, err := c.authService.Login(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Refresh handles access token renewal
// @Summary Refresh the access token
// @Description Redeems a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.RefreshResponse} "Access token refreshed"
// @Failure 401 {object} dto.APIResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	response, err := c.authService.Refresh(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(response, "Access token refreshed"))
}

// Logout acknowledges a logout. Tokens are stateless, so the client simply
// discards them; nothing is revoked server side.
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse "Logged out"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(nil, "Logout successful"))
}

// Me returns the authenticated user's profile
// @Summary Get own profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserBasicResponse} "Profile"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	response, err := c.authService.Me(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
