package models

import "time"

// NotificationType tags the kind of event a notification records.
type NotificationType string

const (
	NotificationPostResponse NotificationType = "POST_RESPONSE"
)

// NotificationPayload is the opaque payload stored with a notification.
type NotificationPayload struct {
	ResponderID   int64  `json:"responderId"`
	ResponderName string `json:"responderName"`
	PostTitle     string `json:"postTitle"`
	ChatRoomID    int64  `json:"chatRoomId"`
}

// Notification is a durable per-user notification. Created by the system,
// mutated (read flag) or deleted only by the recipient.
type Notification struct {
	ID        int64               `json:"id" db:"id"`
	UserID    int64               `json:"userId" db:"user_id"`
	PostID    int64               `json:"postId" db:"post_id"`
	Type      NotificationType    `json:"type" db:"type"`
	Payload   NotificationPayload `json:"payload" db:"payload"`
	IsRead    bool                `json:"isRead" db:"is_read"`
	CreatedAt time.Time           `json:"createdAt" db:"created_at"`
}
