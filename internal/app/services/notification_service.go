package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/app/models/dto"
	"github.com/deniz/looking4/internal/app/repositories"
	"github.com/deniz/looking4/internal/pkg/apperrors"
	"github.com/deniz/looking4/internal/pkg/metrics"
	ws "github.com/deniz/looking4/internal/pkg/websocket"
)

// NotificationService persists notifications and pushes them to online
// recipients. The database row is the source of truth; the realtime push is
// a best effort hint and its failure is not an error.
type NotificationService struct {
	notificationStore NotificationStore
	broadcaster       Broadcaster
	logger            zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationStore NotificationStore, broadcaster Broadcaster, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		notificationStore: notificationStore,
		broadcaster:       broadcaster,
		logger:            logger,
	}
}

// NotifyPostResponse records that someone responded to the owner's post.
// Persistence happens first; the push only goes out for a stored row, so an
// offline owner finds the notification on their next fetch.
func (s *NotificationService) NotifyPostResponse(ctx context.Context, post *models.Post, responder *models.User, roomID int64) {
	notification := &models.Notification{
		UserID: post.UserID,
		PostID: post.ID,
		Type:   models.NotificationPostResponse,
		Payload: models.NotificationPayload{
			ResponderID:   responder.ID,
			ResponderName: responder.Username,
			PostTitle:     post.Title,
			ChatRoomID:    roomID,
		},
	}

	if _, err := s.notificationStore.Create(ctx, notification); err != nil {
		s.logger.Error().
			Err(err).
			Int64("postID", post.ID).
			Int64("recipientID", post.UserID).
			Msg("Failed to persist notification")
		return
	}

	metrics.NotificationsCreated.Inc()

	if !s.broadcaster.IsUserOnline(post.UserID) {
		s.logger.Debug().
			Int64("recipientID", post.UserID).
			Int64("notificationID", notification.ID).
			Msg("Recipient offline, notification stored only")
		return
	}

	s.broadcaster.PushToUser(post.UserID, ws.EventNotificationNew, dto.ToNotificationResponse(notification))
}

// List returns a page of the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID int64, filter repositories.NotificationFilter) ([]dto.NotificationResponse, *dto.Pagination, error) {
	notifications, err := s.notificationStore.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.notificationStore.CountByUser(ctx, userID, filter)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, dto.ToNotificationResponse(notification))
	}

	pagination := &dto.Pagination{Total: total, Limit: filter.Limit, Offset: filter.Offset}
	return responses, pagination, nil
}

// MarkAsRead flips the read flag. Recipient only.
func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	notification, err := s.notificationStore.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return apperrors.ErrPermissionDenied
	}

	return s.notificationStore.MarkAsRead(ctx, notificationID)
}

// Delete removes a notification. Recipient only.
func (s *NotificationService) Delete(ctx context.Context, notificationID, userID int64) error {
	notification, err := s.notificationStore.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return apperrors.ErrPermissionDenied
	}

	return s.notificationStore.Delete(ctx, notificationID)
}
