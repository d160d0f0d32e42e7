package dto

import (
	"time"

	"github.com/deniz/looking4/internal/app/models"
)

// NotificationResponse represents a durable notification for the recipient
type NotificationResponse struct {
	ID        int64                      `json:"id"`
	PostID    int64                      `json:"postId"`
	Type      string                     `json:"type"`
	Payload   models.NotificationPayload `json:"payload"`
	IsRead    bool                       `json:"isRead"`
	CreatedAt time.Time                  `json:"createdAt"`
}

// ToNotificationResponse converts a notification model to its response shape
func ToNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		PostID:    n.PostID,
		Type:      string(n.Type),
		Payload:   n.Payload,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
