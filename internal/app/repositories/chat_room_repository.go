package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/pkg/apperrors"
	"github.com/deniz/looking4/internal/pkg/dberrors"
)

// ChatRoomRepository handles database operations for chat rooms
type ChatRoomRepository struct {
	db *pgxpool.Pool
}

// NewChatRoomRepository creates a new ChatRoomRepository
func NewChatRoomRepository(db *pgxpool.Pool) *ChatRoomRepository {
	return &ChatRoomRepository{db: db}
}

// CreateTx inserts a new chat room inside a transaction.
// Returns apperrors.ErrConflict when a room already exists for the post,
// which is the loser's signal in a concurrent first-response race.
func (r *ChatRoomRepository) CreateTx(ctx context.Context, tx pgx.Tx, room *models.ChatRoom) (int64, error) {
	query := `
		INSERT INTO chat_rooms (post_id, is_group)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query, room.PostID, room.IsGroup).Scan(&room.ID, &room.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "chat_rooms_post_id_key") {
			return 0, apperrors.ErrConflict
		}
		return 0, fmt.Errorf("error creating chat room: %w", err)
	}

	return room.ID, nil
}

// GetByPostID retrieves the room bound to a post, if any
func (r *ChatRoomRepository) GetByPostID(ctx context.Context, postID int64) (*models.ChatRoom, error) {
	query := `
		SELECT id, post_id, is_group, created_at, last_message_at
		FROM chat_rooms
		WHERE post_id = $1
	`

	var room models.ChatRoom
	err := r.db.QueryRow(ctx, query, postID).Scan(
		&room.ID,
		&room.PostID,
		&room.IsGroup,
		&room.CreatedAt,
		&room.LastMessageAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChatRoomNotFound
		}
		return nil, fmt.Errorf("error retrieving chat room: %w", err)
	}

	return &room, nil
}

// GetByID retrieves a room with its post summary and participant list
func (r *ChatRoomRepository) GetByID(ctx context.Context, id int64) (*models.ChatRoom, error) {
	query := `
		SELECT
			cr.id, cr.post_id, cr.is_group, cr.created_at, cr.last_message_at,
			p.user_id, p.title, p.is_open
		FROM chat_rooms cr
		JOIN posts p ON cr.post_id = p.id
		WHERE cr.id = $1
	`

	var room models.ChatRoom
	var post models.Post

	err := r.db.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.PostID,
		&room.IsGroup,
		&room.CreatedAt,
		&room.LastMessageAt,
		&post.UserID,
		&post.Title,
		&post.IsOpen,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChatRoomNotFound
		}
		return nil, fmt.Errorf("error retrieving chat room: %w", err)
	}

	post.ID = room.PostID
	room.Post = &post

	participants, err := r.listParticipants(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	room.Participants = participants

	return &room, nil
}

// GetUserRooms retrieves rooms the user participates in, most recently
// active first. Each room carries its post summary, participants and
// last message preview.
func (r *ChatRoomRepository) GetUserRooms(ctx context.Context, userID int64, limit, offset int) ([]*models.ChatRoom, error) {
	query := `
		SELECT
			cr.id, cr.post_id, cr.is_group, cr.created_at, cr.last_message_at,
			p.user_id, p.title, p.is_open
		FROM chat_rooms cr
		JOIN chat_participants cp ON cp.chat_room_id = cr.id
		JOIN posts p ON cr.post_id = p.id
		WHERE cp.user_id = $1
		ORDER BY cr.last_message_at DESC NULLS LAST, cr.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var rooms []*models.ChatRoom
	for rows.Next() {
		var room models.ChatRoom
		var post models.Post

		if err := rows.Scan(
			&room.ID,
			&room.PostID,
			&room.IsGroup,
			&room.CreatedAt,
			&room.LastMessageAt,
			&post.UserID,
			&post.Title,
			&post.IsOpen,
		); err != nil {
			return nil, fmt.Errorf("error scanning chat room row: %w", err)
		}

		post.ID = room.PostID
		room.Post = &post
		rooms = append(rooms, &room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat room rows: %w", err)
	}

	for _, room := range rooms {
		participants, err := r.listParticipants(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		room.Participants = participants

		lastMessage, err := r.lastMessage(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		room.LastMessage = lastMessage
	}

	return rooms, nil
}

// CountUserRooms returns the number of rooms the user participates in
func (r *ChatRoomRepository) CountUserRooms(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM chat_participants
		WHERE user_id = $1
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return count, nil
}

// TouchLastMessage bumps the room's activity timestamp after a message lands
func (r *ChatRoomRepository) TouchLastMessage(ctx context.Context, roomID int64) error {
	query := `
		UPDATE chat_rooms
		SET last_message_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, roomID); err != nil {
		return fmt.Errorf("error updating chat room: %w", err)
	}

	return nil
}

func (r *ChatRoomRepository) listParticipants(ctx context.Context, roomID int64) ([]*models.ChatParticipant, error) {
	query := `
		SELECT
			cp.id, cp.chat_room_id, cp.user_id, cp.role, cp.joined_at,
			u.username, u.avatar_url
		FROM chat_participants cp
		JOIN users u ON cp.user_id = u.id
		WHERE cp.chat_room_id = $1
		ORDER BY cp.joined_at ASC
	`

	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var participants []*models.ChatParticipant
	for rows.Next() {
		var participant models.ChatParticipant
		var user models.User

		if err := rows.Scan(
			&participant.ID,
			&participant.ChatRoomID,
			&participant.UserID,
			&participant.Role,
			&participant.JoinedAt,
			&user.Username,
			&user.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("error scanning participant row: %w", err)
		}

		user.ID = participant.UserID
		participant.User = &user
		participants = append(participants, &participant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}

	return participants, nil
}

func (r *ChatRoomRepository) lastMessage(ctx context.Context, roomID int64) (*models.Message, error) {
	query := `
		SELECT
			m.id, m.chat_room_id, m.sender_id, m.content, m.is_deleted, m.created_at,
			u.username, u.avatar_url
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.chat_room_id = $1
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT 1
	`

	var message models.Message
	var sender models.User

	err := r.db.QueryRow(ctx, query, roomID).Scan(
		&message.ID,
		&message.ChatRoomID,
		&message.SenderID,
		&message.Content,
		&message.IsDeleted,
		&message.CreatedAt,
		&sender.Username,
		&sender.AvatarURL,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving last message: %w", err)
	}

	sender.ID = message.SenderID
	message.Sender = &sender

	return &message, nil
}
