package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/app/repositories"
	"github.com/deniz/looking4/internal/pkg/apperrors"
	ws "github.com/deniz/looking4/internal/pkg/websocket"
)

func notificationFilterAll() repositories.NotificationFilter {
	return repositories.NotificationFilter{Limit: 100}
}

func newNotificationEnv() (*fakeNotificationStore, *fakeBroadcaster, *NotificationService) {
	store := newFakeNotificationStore()
	broadcaster := newFakeBroadcaster()
	service := NewNotificationService(store, broadcaster, zerolog.Nop())
	return store, broadcaster, service
}

func testPostAndResponder() (*models.Post, *models.User) {
	post := &models.Post{ID: 1, UserID: 10, Title: "Looking 4 a drummer"}
	responder := &models.User{ID: 20, Username: "ringo"}
	return post, responder
}

func TestNotifyPostResponsePersistsBeforePush(t *testing.T) {
	store, broadcaster, service := newNotificationEnv()
	post, responder := testPostAndResponder()
	broadcaster.onlineUsers[post.UserID] = true

	service.NotifyPostResponse(context.Background(), post, responder, 5)

	stored, err := store.ListByUser(context.Background(), post.UserID, notificationFilterAll())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, int64(5), stored[0].Payload.ChatRoomID)
	assert.Equal(t, "Looking 4 a drummer", stored[0].Payload.PostTitle)

	require.Len(t, broadcaster.pushes, 1)
	assert.Equal(t, post.UserID, broadcaster.pushes[0].UserID)
	assert.Equal(t, ws.EventNotificationNew, broadcaster.pushes[0].Event)
}

func TestNotifyPostResponseOfflineRecipient(t *testing.T) {
	store, broadcaster, service := newNotificationEnv()
	post, responder := testPostAndResponder()

	// Owner has no connection; the row is stored and no push goes out
	service.NotifyPostResponse(context.Background(), post, responder, 5)

	stored, err := store.ListByUser(context.Background(), post.UserID, notificationFilterAll())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Empty(t, broadcaster.pushes)
}

func TestNotifyPostResponseSkipsPushOnStoreError(t *testing.T) {
	store, broadcaster, service := newNotificationEnv()
	post, responder := testPostAndResponder()
	store.createErr = errors.New("connection reset")

	service.NotifyPostResponse(context.Background(), post, responder, 5)

	// No row, no push: clients never see a notification without a backing row
	assert.Empty(t, broadcaster.pushes)
}

func TestMarkAsReadRecipientOnly(t *testing.T) {
	store, _, service := newNotificationEnv()

	notification := &models.Notification{UserID: 10, PostID: 1, Type: models.NotificationPostResponse}
	_, err := store.Create(context.Background(), notification)
	require.NoError(t, err)

	err = service.MarkAsRead(context.Background(), notification.ID, 99)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, service.MarkAsRead(context.Background(), notification.ID, 10))

	stored, err := store.GetByID(context.Background(), notification.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
}

func TestDeleteNotificationRecipientOnly(t *testing.T) {
	store, _, service := newNotificationEnv()

	notification := &models.Notification{UserID: 10, PostID: 1, Type: models.NotificationPostResponse}
	_, err := store.Create(context.Background(), notification)
	require.NoError(t, err)

	err = service.Delete(context.Background(), notification.ID, 99)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, service.Delete(context.Background(), notification.ID, 10))

	_, err = store.GetByID(context.Background(), notification.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
}

func TestListUnreadOnly(t *testing.T) {
	store, _, service := newNotificationEnv()

	read := &models.Notification{UserID: 10, PostID: 1, Type: models.NotificationPostResponse, IsRead: true}
	unread := &models.Notification{UserID: 10, PostID: 2, Type: models.NotificationPostResponse}
	_, err := store.Create(context.Background(), read)
	require.NoError(t, err)
	_, err = store.Create(context.Background(), unread)
	require.NoError(t, err)

	filter := repositories.NotificationFilter{UnreadOnly: true, Limit: 100}
	list, pagination, err := service.List(context.Background(), 10, filter)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, unread.ID, list[0].ID)
	assert.Equal(t, int64(1), pagination.Total)
}
