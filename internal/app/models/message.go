package models

import "time"

// Message is a chat message within a room. Immutable once created except for
// the soft-delete flag. History order is (created_at, id) ascending.
type Message struct {
	ID         int64     `json:"id" db:"id"`
	ChatRoomID int64     `json:"chatRoomId" db:"chat_room_id"`
	SenderID   int64     `json:"senderId" db:"sender_id"`
	Content    string    `json:"content" db:"content"`
	IsDeleted  bool      `json:"isDeleted" db:"is_deleted"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	Sender *User `json:"sender,omitempty"`
}

// MaxMessageLength bounds message content; matches the HTTP validation rule.
const MaxMessageLength = 5000
