package models

import "time"

// ParticipantRole is the role of a user within a chat room.
type ParticipantRole string

const (
	RoleOwner  ParticipantRole = "OWNER"
	RoleMember ParticipantRole = "MEMBER"
)

// ChatRoom is the durable chat channel associated with a post. Exactly one
// room exists per post; the unique index on post_id is what enforces this
// under concurrent first responses.
type ChatRoom struct {
	ID            int64      `json:"id" db:"id"`
	PostID        int64      `json:"postId" db:"post_id"`
	IsGroup       bool       `json:"isGroup" db:"is_group"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty" db:"last_message_at"`

	// Related entities
	Post         *Post              `json:"post,omitempty"`
	Participants []*ChatParticipant `json:"participants,omitempty"`
	LastMessage  *Message           `json:"lastMessage,omitempty"`
}

// ChatParticipant is a user's membership record in a room.
// A user appears at most once per room.
type ChatParticipant struct {
	ID         int64           `json:"id" db:"id"`
	ChatRoomID int64           `json:"chatRoomId" db:"chat_room_id"`
	UserID     int64           `json:"userId" db:"user_id"`
	Role       ParticipantRole `json:"role" db:"role"`
	JoinedAt   time.Time       `json:"joinedAt" db:"joined_at"`

	User *User `json:"user,omitempty"`
}
