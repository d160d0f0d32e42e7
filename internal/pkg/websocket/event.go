package websocket

import (
	"encoding/json"
	"time"
)

// Client to server event names.
const (
	EventAuth        = "auth"
	EventChatJoin    = "chat:join"
	EventChatLeave   = "chat:leave"
	EventTypingStart = "typing:start"
	EventTypingStop  = "typing:stop"
)

// Server to client event names.
const (
	EventUserConnected   = "user:connected"
	EventChatUserJoined  = "chat:user-joined"
	EventChatUserLeft    = "chat:user-left"
	EventMessageNew      = "message:new"
	EventTypingUsers     = "typing:users"
	EventNotificationNew = "notification:new"
	EventPostClosed      = "post:closed"
	EventToast           = "toast"
)

// Envelope is the wire frame for every event in both directions
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// AuthPayload carries the bearer token in the first client frame
type AuthPayload struct {
	Token string `json:"token"`
}

// RoomPayload addresses a room in join/leave/typing events
type RoomPayload struct {
	ChatRoomID int64 `json:"chatRoomId"`
}

// ConnectedPayload acknowledges a successful connection
type ConnectedPayload struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// RoomUserPayload announces a user entering or leaving a room's live scope
type RoomUserPayload struct {
	ChatRoomID int64  `json:"chatRoomId"`
	UserID     int64  `json:"userId"`
	Username   string `json:"username"`
}

// TypingUsersPayload carries the full set of users currently typing in a
// room. Receivers replace their state with it rather than applying deltas.
type TypingUsersPayload struct {
	ChatRoomID    int64   `json:"chatRoomId"`
	TypingUserIDs []int64 `json:"typingUserIds"`
}

// Toast severity levels
const (
	ToastInfo    = "info"
	ToastSuccess = "success"
	ToastWarning = "warning"
	ToastError   = "error"
)

const defaultToastDuration = 3000

// ToastPayload is a transient informational message for the client UI
type ToastPayload struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Duration  int       `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

// NewToast builds a toast with the default display duration
func NewToast(toastType, message string) ToastPayload {
	return ToastPayload{
		Type:      toastType,
		Message:   message,
		Duration:  defaultToastDuration,
		Timestamp: time.Now().UTC(),
	}
}

// PostClosedPayload announces that a post stopped accepting responses
type PostClosedPayload struct {
	PostID     int64 `json:"postId"`
	ChatRoomID int64 `json:"chatRoomId,omitempty"`
}

// NewEnvelope builds a wire frame, marshaling the payload
func NewEnvelope(event string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: payload})
}
