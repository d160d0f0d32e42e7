package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/app/repositories"
	"github.com/deniz/looking4/internal/db"
)

// The services depend on narrow store interfaces rather than the concrete
// repositories so tests can substitute in-memory fakes. The repositories
// package satisfies every one of them.

// UserStore is the persistence surface AuthService needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// CategoryStore is the persistence surface for categories
type CategoryStore interface {
	GetAll(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
}

// PostStore is the persistence surface for posts
type PostStore interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, filter repositories.PostFilter) ([]*models.Post, error)
	Count(ctx context.Context, filter repositories.PostFilter) (int64, error)
	Update(ctx context.Context, id int64, update repositories.PostUpdate) error
	Delete(ctx context.Context, id int64) error
	Close(ctx context.Context, id int64) error
}

// ChatRoomStore is the persistence surface for chat rooms
type ChatRoomStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, room *models.ChatRoom) (int64, error)
	GetByPostID(ctx context.Context, postID int64) (*models.ChatRoom, error)
	GetByID(ctx context.Context, id int64) (*models.ChatRoom, error)
	GetUserRooms(ctx context.Context, userID int64, limit, offset int) ([]*models.ChatRoom, error)
	CountUserRooms(ctx context.Context, userID int64) (int64, error)
	TouchLastMessage(ctx context.Context, roomID int64) error
}

// ParticipantStore is the persistence surface for room membership
type ParticipantStore interface {
	Add(ctx context.Context, participant *models.ChatParticipant) (int64, error)
	AddTx(ctx context.Context, tx pgx.Tx, participant *models.ChatParticipant) (int64, error)
	Remove(ctx context.Context, roomID, userID int64) error
	IsParticipant(ctx context.Context, roomID, userID int64) (bool, error)
	CountByRoom(ctx context.Context, roomID int64) (int64, error)
	ListByRoom(ctx context.Context, roomID int64) ([]*models.ChatParticipant, error)
}

// MessageStore is the persistence surface for messages
type MessageStore interface {
	Create(ctx context.Context, message *models.Message) (int64, error)
	ListByRoom(ctx context.Context, roomID int64, limit, offset int) ([]*models.Message, error)
	CountByRoom(ctx context.Context, roomID int64) (int64, error)
}

// NotificationStore is the persistence surface for notifications
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	ListByUser(ctx context.Context, userID int64, filter repositories.NotificationFilter) ([]*models.Notification, error)
	CountByUser(ctx context.Context, userID int64, filter repositories.NotificationFilter) (int64, error)
	MarkAsRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// Broadcaster pushes realtime events to connected clients. Implemented by
// the websocket hub; push failures are never surfaced as errors because
// delivery is best effort.
type Broadcaster interface {
	BroadcastToRoom(roomID int64, event string, data any)
	PushToUser(userID int64, event string, data any) bool
	IsUserOnline(userID int64) bool
}

// TxRunner executes a function inside a database transaction
type TxRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}
