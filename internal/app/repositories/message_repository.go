package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/looking4/internal/app/models"
)

// MessageRepository handles database operations for chat messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message and returns its ID
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) (int64, error) {
	query := `
		INSERT INTO messages (chat_room_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, is_deleted, created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.ChatRoomID,
		message.SenderID,
		message.Content,
	).Scan(&message.ID, &message.IsDeleted, &message.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating message: %w", err)
	}

	return message.ID, nil
}

// ListByRoom retrieves a page of a room's history in insertion order.
// Ordering is (created_at, id) ascending so equal timestamps stay stable.
func (r *MessageRepository) ListByRoom(ctx context.Context, roomID int64, limit, offset int) ([]*models.Message, error) {
	query := `
		SELECT
			m.id, m.chat_room_id, m.sender_id, m.content, m.is_deleted, m.created_at,
			u.username, u.avatar_url
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.chat_room_id = $1
		ORDER BY m.created_at ASC, m.id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, roomID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var message models.Message
		var sender models.User

		if err := rows.Scan(
			&message.ID,
			&message.ChatRoomID,
			&message.SenderID,
			&message.Content,
			&message.IsDeleted,
			&message.CreatedAt,
			&sender.Username,
			&sender.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}

		sender.ID = message.SenderID
		message.Sender = &sender
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}

// CountByRoom returns the number of messages in a room
func (r *MessageRepository) CountByRoom(ctx context.Context, roomID int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM messages
		WHERE chat_room_id = $1
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, roomID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting messages: %w", err)
	}

	return count, nil
}
