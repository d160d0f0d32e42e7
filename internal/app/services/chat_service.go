package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/app/models/dto"
	"github.com/deniz/looking4/internal/pkg/apperrors"
	"github.com/deniz/looking4/internal/pkg/metrics"
	ws "github.com/deniz/looking4/internal/pkg/websocket"
)

// ChatService handles room access, history and the message pipeline
type ChatService struct {
	roomStore        ChatRoomStore
	participantStore ParticipantStore
	messageStore     MessageStore
	userStore        UserStore
	broadcaster      Broadcaster
	logger           zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	roomStore ChatRoomStore,
	participantStore ParticipantStore,
	messageStore MessageStore,
	userStore UserStore,
	broadcaster Broadcaster,
	logger zerolog.Logger,
) *ChatService {
	return &ChatService{
		roomStore:        roomStore,
		participantStore: participantStore,
		messageStore:     messageStore,
		userStore:        userStore,
		broadcaster:      broadcaster,
		logger:           logger,
	}
}

// GetRoom returns a room with its participants. Participants only.
func (s *ChatService) GetRoom(ctx context.Context, roomID, userID int64) (*dto.ChatRoomResponse, error) {
	room, err := s.roomStore.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.requireParticipant(ctx, roomID, userID); err != nil {
		return nil, err
	}

	response := dto.ToChatRoomResponse(room)
	return &response, nil
}

// GetUserRooms returns the rooms the user belongs to, most recently active
// first, each with a last message preview.
func (s *ChatService) GetUserRooms(ctx context.Context, userID int64, limit, offset int) ([]dto.ChatRoomResponse, *dto.Pagination, error) {
	rooms, err := s.roomStore.GetUserRooms(ctx, userID, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.roomStore.CountUserRooms(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]dto.ChatRoomResponse, 0, len(rooms))
	for _, room := range rooms {
		responses = append(responses, dto.ToChatRoomResponse(room))
	}

	pagination := &dto.Pagination{Total: total, Limit: limit, Offset: offset}
	return responses, pagination, nil
}

// GetMessages returns a page of room history in insertion order.
// Participants only.
func (s *ChatService) GetMessages(ctx context.Context, roomID, userID int64, limit, offset int) ([]dto.MessageResponse, *dto.Pagination, error) {
	if _, err := s.roomStore.GetByID(ctx, roomID); err != nil {
		return nil, nil, err
	}

	if err := s.requireParticipant(ctx, roomID, userID); err != nil {
		return nil, nil, err
	}

	messages, err := s.messageStore.ListByRoom(ctx, roomID, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.messageStore.CountByRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, dto.ToMessageResponse(message))
	}

	pagination := &dto.Pagination{Total: total, Limit: limit, Offset: offset}
	return responses, pagination, nil
}

// SendMessage persists a message and then pushes it to the room. The
// database write always precedes the broadcast, so every frame a client
// sees corresponds to a stored row. A closed post freezes its room for
// writes; history stays readable.
func (s *ChatService) SendMessage(ctx context.Context, roomID, senderID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	room, err := s.roomStore.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.requireParticipant(ctx, roomID, senderID); err != nil {
		return nil, err
	}

	if room.Post != nil && !room.Post.IsOpen {
		return nil, apperrors.ErrPostClosed
	}

	sender, err := s.userStore.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ChatRoomID: roomID,
		SenderID:   senderID,
		Content:    req.Content,
		Sender:     sender,
	}

	if _, err := s.messageStore.Create(ctx, message); err != nil {
		return nil, err
	}

	if err := s.roomStore.TouchLastMessage(ctx, roomID); err != nil {
		// The message is already durable; a stale ordering timestamp is
		// not worth failing the send over.
		s.logger.Warn().
			Err(err).
			Int64("roomID", roomID).
			Msg("Failed to bump room activity timestamp")
	}

	metrics.MessagesSent.Inc()

	response := dto.ToMessageResponse(message)
	s.broadcaster.BroadcastToRoom(roomID, ws.EventMessageNew, response)

	return &response, nil
}

// LeaveRoom removes the user's membership. The room row stays even when the
// last participant leaves, so the post's history remains reachable.
func (s *ChatService) LeaveRoom(ctx context.Context, roomID, userID int64) (*dto.LeaveRoomResponse, error) {
	room, err := s.roomStore.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.participantStore.Remove(ctx, roomID, userID); err != nil {
		return nil, err
	}

	remaining, err := s.participantStore.CountByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToRoom(roomID, ws.EventChatUserLeft, ws.RoomUserPayload{
		ChatRoomID: roomID,
		UserID:     userID,
		Username:   user.Username,
	})

	s.logger.Info().
		Int64("roomID", roomID).
		Int64("userID", userID).
		Int64("postID", room.PostID).
		Msg("User left chat room")

	return &dto.LeaveRoomResponse{RemainingParticipants: int(remaining)}, nil
}

func (s *ChatService) requireParticipant(ctx context.Context, roomID, userID int64) error {
	isParticipant, err := s.participantStore.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return apperrors.ErrNotParticipant
	}
	return nil
}
