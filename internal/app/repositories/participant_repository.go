package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/pkg/apperrors"
	"github.com/deniz/looking4/internal/pkg/dberrors"
)

// ParticipantRepository handles database operations for chat room membership
type ParticipantRepository struct {
	db *pgxpool.Pool
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Add inserts a membership record. Returns apperrors.ErrConflict when the
// user is already a participant of the room.
func (r *ParticipantRepository) Add(ctx context.Context, participant *models.ChatParticipant) (int64, error) {
	return r.add(ctx, r.db, participant)
}

// AddTx is Add running on an existing transaction
func (r *ParticipantRepository) AddTx(ctx context.Context, tx pgx.Tx, participant *models.ChatParticipant) (int64, error) {
	return r.add(ctx, tx, participant)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *ParticipantRepository) add(ctx context.Context, q rowQuerier, participant *models.ChatParticipant) (int64, error) {
	query := `
		INSERT INTO chat_participants (chat_room_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at
	`

	err := q.QueryRow(ctx, query,
		participant.ChatRoomID,
		participant.UserID,
		participant.Role,
	).Scan(&participant.ID, &participant.JoinedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "chat_participants_room_user_key") {
			return 0, apperrors.ErrConflict
		}
		return 0, fmt.Errorf("error adding chat participant: %w", err)
	}

	return participant.ID, nil
}

// Remove deletes a membership record
func (r *ParticipantRepository) Remove(ctx context.Context, roomID, userID int64) error {
	query := `
		DELETE FROM chat_participants
		WHERE chat_room_id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query, roomID, userID)
	if err != nil {
		return fmt.Errorf("error removing chat participant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotParticipant
	}

	return nil
}

// IsParticipant reports whether the user belongs to the room
func (r *ParticipantRepository) IsParticipant(ctx context.Context, roomID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM chat_participants
			WHERE chat_room_id = $1 AND user_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, roomID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking chat participant: %w", err)
	}

	return exists, nil
}

// CountByRoom returns the number of participants in a room
func (r *ParticipantRepository) CountByRoom(ctx context.Context, roomID int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM chat_participants
		WHERE chat_room_id = $1
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, roomID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting chat participants: %w", err)
	}

	return count, nil
}

// ListByRoom retrieves all participants of a room with their user profiles
func (r *ParticipantRepository) ListByRoom(ctx context.Context, roomID int64) ([]*models.ChatParticipant, error) {
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
