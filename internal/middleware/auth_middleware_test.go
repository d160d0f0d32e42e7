package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/pkg/auth"
)

func newAuthTestRouter(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewAuthMiddleware(jwtService).JWTAuth())
	router.GET("/protected", func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"userID": userID})
	})
	return router
}

func newJWTService(accessExp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "looking4.test",
	})
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	jwtService := newJWTService(time.Hour)
	router := newAuthTestRouter(jwtService)

	accessToken, _, _, err := jwtService.GenerateTokenPair(&models.User{ID: 42, Username: "deniz"})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+accessToken)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "42")
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	router := newAuthTestRouter(newJWTService(time.Hour))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAuthReportsExpiredToken(t *testing.T) {
	jwtService := newJWTService(-time.Hour)
	router := newAuthTestRouter(jwtService)

	accessToken, _, _, err := jwtService.GenerateTokenPair(&models.User{ID: 42, Username: "deniz"})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+accessToken)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	// The expiry is called out specifically so clients know to refresh
	assert.Contains(t, recorder.Body.String(), "Token has expired")
}
