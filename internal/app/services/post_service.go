package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/app/models/dto"
	"github.com/deniz/looking4/internal/app/repositories"
	"github.com/deniz/looking4/internal/pkg/apperrors"
	ws "github.com/deniz/looking4/internal/pkg/websocket"
)

// PostService handles post CRUD and the respond flow that opens chats
type PostService struct {
	postStore        PostStore
	categoryStore    CategoryStore
	userStore        UserStore
	roomStore        ChatRoomStore
	participantStore ParticipantStore
	notifications    *NotificationService
	broadcaster      Broadcaster
	txRunner         TxRunner
	logger           zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	postStore PostStore,
	categoryStore CategoryStore,
	userStore UserStore,
	roomStore ChatRoomStore,
	participantStore ParticipantStore,
	notifications *NotificationService,
	broadcaster Broadcaster,
	txRunner TxRunner,
	logger zerolog.Logger,
) *PostService {
	return &PostService{
		postStore:        postStore,
		categoryStore:    categoryStore,
		userStore:        userStore,
		roomStore:        roomStore,
		participantStore: participantStore,
		notifications:    notifications,
		broadcaster:      broadcaster,
		txRunner:         txRunner,
		logger:           logger,
	}
}

// Create validates the category and persists a new post
func (s *PostService) Create(ctx context.Context, userID int64, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	if _, err := s.categoryStore.GetByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:                    userID,
		CategoryID:                req.CategoryID,
		Title:                     req.Title,
		Description:               req.Description,
		Location:                  req.Location,
		AllowMultipleParticipants: req.AllowMultipleParticipants,
	}

	if _, err := s.postStore.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("postID", post.ID).
		Int64("userID", userID).
		Msg("Post created")

	return s.GetByID(ctx, post.ID)
}

// GetByID returns a post with its owner, category and room summary
func (s *PostService) GetByID(ctx context.Context, id int64) (*dto.PostResponse, error) {
	post, err := s.postStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := dto.ToPostResponse(post)

	room, err := s.roomStore.GetByPostID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrChatRoomNotFound) {
			return nil, err
		}
	} else {
		count, err := s.participantStore.CountByRoom(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		response.ChatRoom = &dto.PostRoomSummary{
			ID:               room.ID,
			CreatedAt:        room.CreatedAt,
			ParticipantCount: int(count),
		}
	}

	return &response, nil
}

// Update applies a partial edit to a post. Owner only; closed posts are
// frozen except for reads.
func (s *PostService) Update(ctx context.Context, postID, userID int64, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.postStore.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.UserID != userID {
		return nil, apperrors.ErrPermissionDenied
	}
	if !post.IsOpen {
		return nil, apperrors.NewBadRequestError("Cannot update a closed post")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryStore.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	update := repositories.PostUpdate{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Location:    req.Location,
	}
	if err := s.postStore.Update(ctx, postID, update); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, postID)
}

// Delete removes a post and, through the schema, its room and history.
// Owner only.
func (s *PostService) Delete(ctx context.Context, postID, userID int64) error {
	post, err := s.postStore.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		return apperrors.ErrPermissionDenied
	}

	if err := s.postStore.Delete(ctx, postID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("postID", postID).
		Int64("userID", userID).
		Msg("Post deleted")

	return nil
}

// CheckResponse reports whether the user already responded to the post,
// and the room to open if so.
func (s *PostService) CheckResponse(ctx context.Context, postID, userID int64) (*dto.ResponseStatus, error) {
	if _, err := s.postStore.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	room, err := s.roomStore.GetByPostID(ctx, postID)
	if err != nil {
		if errors.Is(err, apperrors.ErrChatRoomNotFound) {
			return &dto.ResponseStatus{Responded: false}, nil
		}
		return nil, err
	}

	responded, err := s.participantStore.IsParticipant(ctx, room.ID, userID)
	if err != nil {
		return nil, err
	}

	status := &dto.ResponseStatus{Responded: responded}
	if responded {
		status.ChatRoomID = &room.ID
	}
	return status, nil
}

// List returns a page of posts matching the filter
func (s *PostService) List(ctx context.Context, filter repositories.PostFilter) ([]dto.PostResponse, *dto.Pagination, error) {
	posts, err := s.postStore.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.postStore.Count(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, dto.ToPostResponse(post))
	}

	pagination := &dto.Pagination{Total: total, Limit: filter.Limit, Offset: filter.Offset}
	return responses, pagination, nil
}

// ListCategories returns all post categories
func (s *PostService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, dto.ToCategoryResponse(category))
	}

	return responses, nil
}

// Respond handles a user answering a post. The first response creates the
// post's room with the owner and responder inside; later responses join the
// existing room when the post allows multiple participants. The room row is
// resolved before any realtime push happens. The returned message tells the
// client whether the room was created or joined.
func (s *PostService) Respond(ctx context.Context, postID, responderID int64) (*dto.ChatRoomResponse, string, error) {
	post, err := s.postStore.GetByID(ctx, postID)
	if err != nil {
		return nil, "", err
	}

	if post.UserID == responderID {
		return nil, "", apperrors.ErrSelfResponse
	}
	if !post.IsOpen {
		return nil, "", apperrors.ErrPostClosed
	}

	responder, err := s.userStore.FindByID(ctx, responderID)
	if err != nil {
		return nil, "", err
	}

	roomID, created, newMember, err := s.createOrJoinRoom(ctx, post, responderID)
	if err != nil {
		return nil, "", err
	}

	room, err := s.roomStore.GetByID(ctx, roomID)
	if err != nil {
		return nil, "", err
	}

	// The owner is notified once, when the room comes into existence.
	// Subsequent joins surface through chat:user-joined instead.
	if created {
		s.notifications.NotifyPostResponse(ctx, post, responder, roomID)
		s.broadcaster.BroadcastToRoom(roomID, ws.EventToast,
			ws.NewToast(ws.ToastInfo, responder.Username+" started a chat"))
	}
	if newMember && !created {
		s.broadcaster.BroadcastToRoom(roomID, ws.EventChatUserJoined, ws.RoomUserPayload{
			ChatRoomID: roomID,
			UserID:     responder.ID,
			Username:   responder.Username,
		})
	}

	message := "You have joined the chat"
	if created {
		message = "Chat created"
	}

	response := dto.ToChatRoomResponse(room)
	return &response, message, nil
}

// createOrJoinRoom resolves the post's single room for the responder. The
// unique index on chat_rooms.post_id decides races: the loser of a
// concurrent first response falls through to the join path.
func (s *PostService) createOrJoinRoom(ctx context.Context, post *models.Post, responderID int64) (roomID int64, created, newMember bool, err error) {
	txErr := s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		room := &models.ChatRoom{
			PostID:  post.ID,
			IsGroup: post.AllowMultipleParticipants,
		}
		if _, err := s.roomStore.CreateTx(ctx, tx, room); err != nil {
			return err
		}

		owner := &models.ChatParticipant{
			ChatRoomID: room.ID,
			UserID:     post.UserID,
			Role:       models.RoleOwner,
		}
		if _, err := s.participantStore.AddTx(ctx, tx, owner); err != nil {
			return err
		}

		member := &models.ChatParticipant{
			ChatRoomID: room.ID,
			UserID:     responderID,
			Role:       models.RoleMember,
		}
		if _, err := s.participantStore.AddTx(ctx, tx, member); err != nil {
			return err
		}

		roomID = room.ID
		return nil
	})

	if txErr == nil {
		return roomID, true, true, nil
	}
	if !errors.Is(txErr, apperrors.ErrConflict) {
		return 0, false, false, txErr
	}

	// Room already exists for this post
	room, err := s.roomStore.GetByPostID(ctx, post.ID)
	if err != nil {
		return 0, false, false, err
	}

	if !post.AllowMultipleParticipants {
		alreadyIn, err := s.participantStore.IsParticipant(ctx, room.ID, responderID)
		if err != nil {
			return 0, false, false, err
		}
		if !alreadyIn {
			return 0, false, false, apperrors.ErrRoomNotGroup
		}
		return room.ID, false, false, nil
	}

	member := &models.ChatParticipant{
		ChatRoomID: room.ID,
		UserID:     responderID,
		Role:       models.RoleMember,
	}
	if _, err := s.participantStore.Add(ctx, member); err != nil {
		// Responding twice lands back in the same room
		if errors.Is(err, apperrors.ErrConflict) {
			return room.ID, false, false, nil
		}
		return 0, false, false, err
	}

	return room.ID, false, true, nil
}

// ClosePost stops a post from accepting responses. Owner only.
func (s *PostService) ClosePost(ctx context.Context, postID, userID int64) error {
	post, err := s.postStore.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		return apperrors.ErrPermissionDenied
	}

	if err := s.postStore.Close(ctx, postID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewBadRequestError("Post is already closed")
		}
		return err
	}

	payload := ws.PostClosedPayload{PostID: postID}
	if room, err := s.roomStore.GetByPostID(ctx, postID); err == nil {
		payload.ChatRoomID = room.ID
		s.broadcaster.BroadcastToRoom(room.ID, ws.EventPostClosed, payload)
	}

	s.logger.Info().
		Int64("postID", postID).
		Int64("userID", userID).
		Msg("Post closed")

	return nil
}
