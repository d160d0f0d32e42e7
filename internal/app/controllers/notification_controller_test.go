package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/app/repositories"
	"github.com/deniz/looking4/internal/app/services"
	"github.com/deniz/looking4/internal/middleware"
)

// recordingNotificationStore captures the filter the controller built from
// the query string.
type recordingNotificationStore struct {
	lastFilter repositories.NotificationFilter
}

func (r *recordingNotificationStore) Create(_ context.Context, n *models.Notification) (int64, error) {
	return 1, nil
}

func (r *recordingNotificationStore) GetByID(_ context.Context, _ int64) (*models.Notification, error) {
	return nil, nil
}

func (r *recordingNotificationStore) ListByUser(_ context.Context, _ int64, filter repositories.NotificationFilter) ([]*models.Notification, error) {
	r.lastFilter = filter
	return nil, nil
}

func (r *recordingNotificationStore) CountByUser(_ context.Context, _ int64, _ repositories.NotificationFilter) (int64, error) {
	return 0, nil
}

func (r *recordingNotificationStore) MarkAsRead(_ context.Context, _ int64) error { return nil }
func (r *recordingNotificationStore) Delete(_ context.Context, _ int64) error     { return nil }

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToRoom(int64, string, any) {}
func (noopBroadcaster) PushToUser(int64, string, any) bool { return false }
func (noopBroadcaster) IsUserOnline(int64) bool            { return false }

func TestListNotificationsUnreadOnlyParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &recordingNotificationStore{}
	service := services.NewNotificationService(store, noopBroadcaster{}, zerolog.Nop())
	controller := NewNotificationController(service)

	router := gin.New()
	router.GET("/notifications", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, int64(10))
	}, controller.ListNotifications)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/notifications?unreadOnly=true", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, store.lastFilter.UnreadOnly)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/notifications", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, store.lastFilter.UnreadOnly)
}
