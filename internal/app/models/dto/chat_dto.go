package dto

import (
	"time"

	"github.com/deniz/looking4/internal/app/models"
)

// --- Request DTOs ---

// SendMessageRequest represents data for sending a chat message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

// --- Response DTOs ---

// ParticipantResponse represents a room membership record
type ParticipantResponse struct {
	ID       int64              `json:"id"`
	UserID   int64              `json:"userId"`
	Role     string             `json:"role"`
	JoinedAt time.Time          `json:"joinedAt"`
	User     *UserBasicResponse `json:"user,omitempty"`
}

// MessageResponse represents a chat message with denormalized sender fields
type MessageResponse struct {
	ID         int64              `json:"id"`
	ChatRoomID int64              `json:"chatRoomId"`
	SenderID   int64              `json:"senderId"`
	Content    string             `json:"content"`
	IsDeleted  bool               `json:"isDeleted"`
	CreatedAt  time.Time          `json:"createdAt"`
	Sender     *UserBasicResponse `json:"sender,omitempty"`
}

// ChatRoomResponse represents a room with its post and participants
type ChatRoomResponse struct {
	ID            int64                 `json:"id"`
	PostID        int64                 `json:"postId"`
	IsGroup       bool                  `json:"isGroup"`
	CreatedAt     time.Time             `json:"createdAt"`
	LastMessageAt *time.Time            `json:"lastMessageAt,omitempty"`
	Post          *PostResponse         `json:"post,omitempty"`
	Participants  []ParticipantResponse `json:"participants,omitempty"`
	LastMessage   *MessageResponse      `json:"lastMessage,omitempty"`
}

// LeaveRoomResponse reports the room state after a member leaves
type LeaveRoomResponse struct {
	RemainingParticipants int `json:"remainingParticipants"`
}

// ToParticipantResponse converts a participant model to its response shape
func ToParticipantResponse(p *models.ChatParticipant) ParticipantResponse {
	response := ParticipantResponse{
		ID:       p.ID,
		UserID:   p.UserID,
		Role:     string(p.Role),
		JoinedAt: p.JoinedAt,
	}
	if p.User != nil {
		user := ToUserBasicResponse(p.User)
		response.User = &user
	}
	return response
}

// ToMessageResponse converts a message model to its response shape
func ToMessageResponse(message *models.Message) MessageResponse {
	response := MessageResponse{
		ID:         message.ID,
		ChatRoomID: message.ChatRoomID,
		SenderID:   message.SenderID,
		Content:    message.Content,
		IsDeleted:  message.IsDeleted,
		CreatedAt:  message.CreatedAt,
	}
	if message.Sender != nil {
		sender := ToUserBasicResponse(message.Sender)
		response.Sender = &sender
	}
	return response
}

// ToChatRoomResponse converts a room model to its response shape
func ToChatRoomResponse(room *models.ChatRoom) ChatRoomResponse {
	response := ChatRoomResponse{
		ID:            room.ID,
		PostID:        room.PostID,
		IsGroup:       room.IsGroup,
		CreatedAt:     room.CreatedAt,
		LastMessageAt: room.LastMessageAt,
	}

	if room.Post != nil {
		post := ToPostResponse(room.Post)
		response.Post = &post
	}

	for _, p := range room.Participants {
		response.Participants = append(response.Participants, ToParticipantResponse(p))
	}

	if room.LastMessage != nil {
		last := ToMessageResponse(room.LastMessage)
		response.LastMessage = &last
	}

	return response
}
