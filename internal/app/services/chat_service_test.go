package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/app/models/dto"
	"github.com/deniz/looking4/internal/pkg/apperrors"
	ws "github.com/deniz/looking4/internal/pkg/websocket"
)

type chatServiceEnv struct {
	users        *fakeUserStore
	posts        *fakePostStore
	rooms        *fakeChatRoomStore
	participants *fakeParticipantStore
	messages     *fakeMessageStore
	broadcaster  *fakeBroadcaster
	service      *ChatService
}

func newChatServiceEnv(t *testing.T) *chatServiceEnv {
	t.Helper()

	env := &chatServiceEnv{
		users:        newFakeUserStore(),
		posts:        newFakePostStore(),
		participants: newFakeParticipantStore(),
		messages:     newFakeMessageStore(),
		broadcaster:  newFakeBroadcaster(),
	}
	env.rooms = newFakeChatRoomStore(env.participants, env.posts)
	env.service = NewChatService(
		env.rooms,
		env.participants,
		env.messages,
		env.users,
		env.broadcaster,
		zerolog.Nop(),
	)
	return env
}

// seedRoom creates an open post and its room with the given members. The
// first member listed owns the post.
func (env *chatServiceEnv) seedRoom(t *testing.T, memberNames ...string) (int64, []*models.User) {
	t.Helper()
	ctx := context.Background()

	post := &models.Post{UserID: 1, CategoryID: 1, Title: "Looking 4 a team"}
	postID, err := env.posts.Create(ctx, post)
	require.NoError(t, err)

	room := &models.ChatRoom{PostID: postID}
	_, err = env.rooms.CreateTx(ctx, nil, room)
	require.NoError(t, err)

	var members []*models.User
	for i, name := range memberNames {
		user := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
		_, err := env.users.Create(ctx, user)
		require.NoError(t, err)

		role := models.RoleMember
		if i == 0 {
			role = models.RoleOwner
		}
		_, err = env.participants.Add(ctx, &models.ChatParticipant{
			ChatRoomID: room.ID,
			UserID:     user.ID,
			Role:       role,
		})
		require.NoError(t, err)
		members = append(members, user)
	}
	return room.ID, members
}

func TestSendMessagePersistsThenBroadcasts(t *testing.T) {
	env := newChatServiceEnv(t)
	roomID, members := env.seedRoom(t, "owner", "responder")
	sender := members[1]

	response, err := env.service.SendMessage(context.Background(), roomID, sender.ID, &dto.SendMessageRequest{
		Content: "hello there",
	})
	require.NoError(t, err)

	// Stored row exists and the broadcast carries its ID
	count, err := env.messages.CountByRoom(context.Background(), roomID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.Len(t, env.broadcaster.broadcasts, 1)
	broadcast := env.broadcaster.broadcasts[0]
	assert.Equal(t, ws.EventMessageNew, broadcast.Event)
	assert.Equal(t, roomID, broadcast.RoomID)

	payload, ok := broadcast.Data.(dto.MessageResponse)
	require.True(t, ok)
	assert.Equal(t, response.ID, payload.ID)
	assert.NotZero(t, payload.ID)
	assert.Equal(t, "responder", payload.Sender.Username)
}

func TestSendMessageBumpsRoomActivity(t *testing.T) {
	env := newChatServiceEnv(t)
	roomID, members := env.seedRoom(t, "owner", "responder")

	_, err := env.service.SendMessage(context.Background(), roomID, members[0].ID, &dto.SendMessageRequest{
		Content: "ping",
	})
	require.NoError(t, err)

	room, err := env.rooms.GetByID(context.Background(), roomID)
	require.NoError(t, err)
	assert.NotNil(t, room.LastMessageAt)
}

func TestSendMessageNonParticipant(t *testing.T) {
	env := newChatServiceEnv(t)
	roomID, _ := env.seedRoom(t, "owner", "responder")

	outsider := &models.User{Username: "outsider", Email: "outsider@example.com", PasswordHash: "x"}
	_, err := env.users.Create(context.Background(), outsider)
	require.NoError(t, err)

	_, err = env.service.SendMessage(context.Background(), roomID, outsider.ID, &dto.SendMessageRequest{
		Content: "let me in",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
	assert.Empty(t, env.broadcaster.broadcasts)
}

func TestSendMessageClosedPost(t *testing.T) {
	env := newChatServiceEnv(t)
	roomID, members := env.seedRoom(t, "owner", "responder")

	room, err := env.rooms.GetByID(context.Background(), roomID)
	require.NoError(t, err)
	require.NoError(t, env.posts.Close(context.Background(), room.PostID))

	// Even a participant cannot write once the post is closed
	_, err = env.service.SendMessage(context.Background(), roomID, members[1].ID, &dto.SendMessageRequest{
		Content: "too late",
	})
	assert.ErrorIs(t, err, apperrors.ErrPostClosed)

	count, err := env.messages.CountByRoom(context.Background(), roomID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, env.broadcaster.broadcasts)

	// History stays readable
	_, _, err = env.service.GetMessages(context.Background(), roomID, members[1].ID, 50, 0)
	assert.NoError(t, err)
}

func TestSendMessageMissingRoom(t *testing.T) {
	env := newChatServiceEnv(t)

	_, err := env.service.SendMessage(context.Background(), 404, 1, &dto.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrChatRoomNotFound)
}

func TestGetMessagesNonParticipant(t *testing.T) {
	env := newChatServiceEnv(t)
	roomID, _ := env.seedRoom(t, "owner", "responder")

	_, _, err := env.service.GetMessages(context.Background(), roomID, 999, 50, 0)
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
}

func TestGetMessagesReturnsHistoryInOrder(t *testing.T) {
	env := newChatServiceEnv(t)
	roomID, members := env.seedRoom(t, "owner", "responder")

	for _, content := range []string{"first", "second", "third"} {
		_, err := env.service.SendMessage(context.Background(), roomID, members[0].ID, &dto.SendMessageRequest{
			Content: content,
		})
		require.NoError(t, err)
	}

	messages, pagination, err := env.service.GetMessages(context.Background(), roomID, members[1].ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, int64(3), pagination.Total)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "third", messages[2].Content)
}

func TestGetRoomRequiresMembership(t *testing.T) {
	env := newChatServiceEnv(t)
	roomID, members := env.seedRoom(t, "owner", "responder")

	room, err := env.service.GetRoom(context.Background(), roomID, members[0].ID)
	require.NoError(t, err)
	assert.Len(t, room.Participants, 2)

	_, err = env.service.GetRoom(context.Background(), roomID, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
}

func TestLeaveRoomKeepsRoomAlive(t *testing.T) {
	env := newChatServiceEnv(t)
	roomID, members := env.seedRoom(t, "owner", "responder")

	response, err := env.service.LeaveRoom(context.Background(), roomID, members[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, response.RemainingParticipants)

	// Last member out; the room survives as an empty tombstone
	response, err = env.service.LeaveRoom(context.Background(), roomID, members[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, response.RemainingParticipants)

	_, err = env.rooms.GetByID(context.Background(), roomID)
	assert.NoError(t, err)

	// The departures were announced
	events := env.broadcaster.broadcastEvents()
	assert.Equal(t, []string{ws.EventChatUserLeft, ws.EventChatUserLeft}, events)
}

func TestLeaveRoomNotParticipant(t *testing.T) {
	env := newChatServiceEnv(t)
	roomID, _ := env.seedRoom(t, "owner", "responder")

	outsider := &models.User{Username: "outsider", Email: "outsider@example.com", PasswordHash: "x"}
	_, err := env.users.Create(context.Background(), outsider)
	require.NoError(t, err)

	_, err = env.service.LeaveRoom(context.Background(), roomID, outsider.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
}

func TestGetUserRooms(t *testing.T) {
	env := newChatServiceEnv(t)
	roomID, members := env.seedRoom(t, "owner", "responder")

	rooms, pagination, err := env.service.GetUserRooms(context.Background(), members[0].ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, roomID, rooms[0].ID)
	assert.Equal(t, int64(1), pagination.Total)

	// A user with no rooms gets an empty page
	rooms, pagination, err = env.service.GetUserRooms(context.Background(), 999, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.Equal(t, int64(0), pagination.Total)
}
