package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	CategoryRepository     *CategoryRepository
	PostRepository         *PostRepository
	ChatRoomRepository     *ChatRoomRepository
	ParticipantRepository  *ParticipantRepository
	MessageRepository      *MessageRepository
	NotificationRepository *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		CategoryRepository:     NewCategoryRepository(db),
		PostRepository:         NewPostRepository(db),
		ChatRoomRepository:     NewChatRoomRepository(db),
		ParticipantRepository:  NewParticipantRepository(db),
		MessageRepository:      NewMessageRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
