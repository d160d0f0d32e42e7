package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/pkg/apperrors"
)

// NotificationFilter holds optional filters for listing notifications
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new notification and returns its ID
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) (int64, error) {
	payload, err := json.Marshal(notification.Payload)
	if err != nil {
		return 0, fmt.Errorf("error encoding notification payload: %w", err)
	}

	query := `
		INSERT INTO notifications (user_id, post_id, type, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at
	`

	err = r.db.QueryRow(ctx, query,
		notification.UserID,
		notification.PostID,
		notification.Type,
		payload,
	).Scan(&notification.ID, &notification.IsRead, &notification.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating notification: %w", err)
	}

	return notification.ID, nil
}

// GetByID retrieves a notification by its ID
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	query := `
		SELECT id, user_id, post_id, type, payload, is_read, created_at
		FROM notifications
		WHERE id = $1
	`

	var notification models.Notification
	var payload []byte

	err := r.db.QueryRow(ctx, query, id).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.PostID,
		&notification.Type,
		&payload,
		&notification.IsRead,
		&notification.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("error retrieving notification: %w", err)
	}

	if err := json.Unmarshal(payload, &notification.Payload); err != nil {
		return nil, fmt.Errorf("error decoding notification payload: %w", err)
	}

	return &notification, nil
}

// ListByUser retrieves a user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, filter NotificationFilter) ([]*models.Notification, error) {
	queryBuilder := squirrel.Select(
		"id", "user_id", "post_id", "type", "payload", "is_read", "created_at",
	).
		From("notifications").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(squirrel.Dollar)

	if filter.UnreadOnly {
		queryBuilder = queryBuilder.Where("is_read = FALSE")
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var notification models.Notification
		var payload []byte

		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.PostID,
			&notification.Type,
			&payload,
			&notification.IsRead,
			&notification.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}

		if err := json.Unmarshal(payload, &notification.Payload); err != nil {
			return nil, fmt.Errorf("error decoding notification payload: %w", err)
		}

		notifications = append(notifications, &notification)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return notifications, nil
}

// CountByUser returns the number of notifications matching the filter
func (r *NotificationRepository) CountByUser(ctx context.Context, userID int64, filter NotificationFilter) (int64, error) {
	queryBuilder := squirrel.Select("COUNT(*)").
		From("notifications").
		Where("user_id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	if filter.UnreadOnly {
		queryBuilder = queryBuilder.Where("is_read = FALSE")
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return count, nil
}

// MarkAsRead flips the read flag on a notification
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id int64) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error updating notification: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}

	return nil
}

// Delete removes a notification
func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM notifications
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting notification: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}

	return nil
}
