package services

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/app/repositories"
	"github.com/deniz/looking4/internal/db"
	"github.com/deniz/looking4/internal/pkg/apperrors"
)

// In-memory fakes for the store interfaces. They reproduce the constraint
// behavior the real repositories map from Postgres: one room per post, one
// membership per (room, user).

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return 0, apperrors.ErrUsernameAlreadyExists
		}
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return user.ID, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeCategoryStore struct {
	categories map[int64]*models.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: map[int64]*models.Category{
		1: {ID: 1, Name: "Team", Slug: "team"},
	}}
}

func (f *fakeCategoryStore) GetAll(_ context.Context) ([]*models.Category, error) {
	var all []*models.Category
	for _, category := range f.categories {
		all = append(all, category)
	}
	return all, nil
}

func (f *fakeCategoryStore) GetByID(_ context.Context, id int64) (*models.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Category not found")
	}
	return category, nil
}

type fakePostStore struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*models.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[int64]*models.Post)}
}

func (f *fakePostStore) Create(_ context.Context, post *models.Post) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	post.ID = f.nextID
	post.IsOpen = true
	post.CreatedAt = time.Now()
	f.posts[post.ID] = post
	return post.ID, nil
}

func (f *fakePostStore) GetByID(_ context.Context, id int64) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	copied := *post
	return &copied, nil
}

func (f *fakePostStore) List(_ context.Context, filter repositories.PostFilter) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var posts []*models.Post
	for _, post := range f.posts {
		if filter.CategoryID != nil && post.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.UserID != nil && post.UserID != *filter.UserID {
			continue
		}
		if filter.OpenOnly && !post.IsOpen {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (f *fakePostStore) Count(ctx context.Context, filter repositories.PostFilter) (int64, error) {
	posts, err := f.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(posts)), nil
}

func (f *fakePostStore) Update(_ context.Context, id int64, update repositories.PostUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Description != nil {
		post.Description = *update.Description
	}
	if update.CategoryID != nil {
		post.CategoryID = *update.CategoryID
	}
	if update.Location != nil {
		post.Location = update.Location
	}
	return nil
}

func (f *fakePostStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return apperrors.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostStore) Close(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok || !post.IsOpen {
		return apperrors.ErrConflict
	}
	post.IsOpen = false
	return nil
}

type fakeChatRoomStore struct {
	mu           sync.Mutex
	nextID       int64
	rooms        map[int64]*models.ChatRoom
	participants *fakeParticipantStore
	posts        *fakePostStore
}

func newFakeChatRoomStore(participants *fakeParticipantStore, posts *fakePostStore) *fakeChatRoomStore {
	return &fakeChatRoomStore{
		rooms:        make(map[int64]*models.ChatRoom),
		participants: participants,
		posts:        posts,
	}
}

func (f *fakeChatRoomStore) CreateTx(_ context.Context, _ pgx.Tx, room *models.ChatRoom) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rooms {
		if existing.PostID == room.PostID {
			return 0, apperrors.ErrConflict
		}
	}
	f.nextID++
	room.ID = f.nextID
	room.CreatedAt = time.Now()
	f.rooms[room.ID] = room
	return room.ID, nil
}

func (f *fakeChatRoomStore) GetByPostID(_ context.Context, postID int64) (*models.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, room := range f.rooms {
		if room.PostID == postID {
			copied := *room
			return &copied, nil
		}
	}
	return nil, apperrors.ErrChatRoomNotFound
}

func (f *fakeChatRoomStore) GetByID(ctx context.Context, id int64) (*models.ChatRoom, error) {
	f.mu.Lock()
	room, ok := f.rooms[id]
	if !ok {
		f.mu.Unlock()
		return nil, apperrors.ErrChatRoomNotFound
	}
	copied := *room
	f.mu.Unlock()

	participants, err := f.participants.ListByRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	copied.Participants = participants

	if post, err := f.posts.GetByID(ctx, copied.PostID); err == nil {
		copied.Post = post
	}
	return &copied, nil
}

func (f *fakeChatRoomStore) GetUserRooms(ctx context.Context, userID int64, limit, offset int) ([]*models.ChatRoom, error) {
	f.mu.Lock()
	ids := make([]int64, 0, len(f.rooms))
	for id := range f.rooms {
		ids = append(ids, id)
	}
	f.mu.Unlock()

	var rooms []*models.ChatRoom
	for _, id := range ids {
		in, err := f.participants.IsParticipant(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		if !in {
			continue
		}
		room, err := f.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (f *fakeChatRoomStore) CountUserRooms(ctx context.Context, userID int64) (int64, error) {
	rooms, err := f.GetUserRooms(ctx, userID, 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(rooms)), nil
}

func (f *fakeChatRoomStore) TouchLastMessage(_ context.Context, roomID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok := f.rooms[roomID]; ok {
		now := time.Now()
		room.LastMessageAt = &now
	}
	return nil
}

type fakeParticipantStore struct {
	mu      sync.Mutex
	nextID  int64
	members map[int64]map[int64]*models.ChatParticipant
}

func newFakeParticipantStore() *fakeParticipantStore {
	return &fakeParticipantStore{members: make(map[int64]map[int64]*models.ChatParticipant)}
}

func (f *fakeParticipantStore) Add(_ context.Context, participant *models.ChatParticipant) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.members[participant.ChatRoomID]
	if !ok {
		room = make(map[int64]*models.ChatParticipant)
		f.members[participant.ChatRoomID] = room
	}
	if _, exists := room[participant.UserID]; exists {
		return 0, apperrors.ErrConflict
	}
	f.nextID++
	participant.ID = f.nextID
	participant.JoinedAt = time.Now()
	room[participant.UserID] = participant
	return participant.ID, nil
}

func (f *fakeParticipantStore) AddTx(ctx context.Context, _ pgx.Tx, participant *models.ChatParticipant) (int64, error) {
	return f.Add(ctx, participant)
}

func (f *fakeParticipantStore) Remove(_ context.Context, roomID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.members[roomID]
	if !ok {
		return apperrors.ErrNotParticipant
	}
	if _, exists := room[userID]; !exists {
		return apperrors.ErrNotParticipant
	}
	delete(room, userID)
	return nil
}

func (f *fakeParticipantStore) IsParticipant(_ context.Context, roomID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.members[roomID]
	if !ok {
		return false, nil
	}
	_, exists := room[userID]
	return exists, nil
}

func (f *fakeParticipantStore) CountByRoom(_ context.Context, roomID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.members[roomID])), nil
}

func (f *fakeParticipantStore) ListByRoom(_ context.Context, roomID int64) ([]*models.ChatParticipant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var participants []*models.ChatParticipant
	for _, participant := range f.members[roomID] {
		participants = append(participants, participant)
	}
	return participants, nil
}

type fakeMessageStore struct {
	mu       sync.Mutex
	nextID   int64
	messages map[int64][]*models.Message
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{messages: make(map[int64][]*models.Message)}
}

func (f *fakeMessageStore) Create(_ context.Context, message *models.Message) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	message.ID = f.nextID
	message.CreatedAt = time.Now()
	f.messages[message.ChatRoomID] = append(f.messages[message.ChatRoomID], message)
	return message.ID, nil
}

func (f *fakeMessageStore) ListByRoom(_ context.Context, roomID int64, limit, offset int) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.messages[roomID]
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeMessageStore) CountByRoom(_ context.Context, roomID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.messages[roomID])), nil
}

type fakeNotificationStore struct {
	mu            sync.Mutex
	nextID        int64
	notifications map[int64]*models.Notification
	createErr     error
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notifications: make(map[int64]*models.Notification)}
}

func (f *fakeNotificationStore) Create(_ context.Context, notification *models.Notification) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	notification.ID = f.nextID
	notification.CreatedAt = time.Now()
	f.notifications[notification.ID] = notification
	return notification.ID, nil
}

func (f *fakeNotificationStore) GetByID(_ context.Context, id int64) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	notification, ok := f.notifications[id]
	if !ok {
		return nil, apperrors.ErrNotificationNotFound
	}
	return notification, nil
}

func (f *fakeNotificationStore) ListByUser(_ context.Context, userID int64, filter repositories.NotificationFilter) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*models.Notification
	for _, notification := range f.notifications {
		if notification.UserID != userID {
			continue
		}
		if filter.UnreadOnly && notification.IsRead {
			continue
		}
		list = append(list, notification)
	}
	return list, nil
}

func (f *fakeNotificationStore) CountByUser(ctx context.Context, userID int64, filter repositories.NotificationFilter) (int64, error) {
	list, err := f.ListByUser(ctx, userID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (f *fakeNotificationStore) MarkAsRead(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	notification, ok := f.notifications[id]
	if !ok {
		return apperrors.ErrNotificationNotFound
	}
	notification.IsRead = true
	return nil
}

func (f *fakeNotificationStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notifications[id]; !ok {
		return apperrors.ErrNotificationNotFound
	}
	delete(f.notifications, id)
	return nil
}

// sentEvent records one broadcast or push call
type sentEvent struct {
	RoomID int64
	UserID int64
	Event  string
	Data   any
}

type fakeBroadcaster struct {
	mu          sync.Mutex
	broadcasts  []sentEvent
	pushes      []sentEvent
	onlineUsers map[int64]bool
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{onlineUsers: make(map[int64]bool)}
}

func (f *fakeBroadcaster) BroadcastToRoom(roomID int64, event string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, sentEvent{RoomID: roomID, Event: event, Data: data})
}

func (f *fakeBroadcaster) PushToUser(userID int64, event string, data any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, sentEvent{UserID: userID, Event: event, Data: data})
	return f.onlineUsers[userID]
}

func (f *fakeBroadcaster) IsUserOnline(userID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.onlineUsers[userID]
}

func (f *fakeBroadcaster) broadcastEvents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := make([]string, 0, len(f.broadcasts))
	for _, event := range f.broadcasts {
		events = append(events, event.Event)
	}
	return events
}

// fakeTxRunner executes the function directly; the fakes enforce the same
// uniqueness rules the database would inside a real transaction.
type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}
