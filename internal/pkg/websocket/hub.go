package websocket

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/deniz/looking4/internal/pkg/metrics"
)

// sweepPeriod is how often the hub expires stale typing entries
const sweepPeriod = 5 * time.Second

// Hub maintains the set of connected clients, the live room subscriptions
// and the typing state. All map access is funneled through the hub's mutex;
// connection registration goes through channels serviced by Run.
type Hub struct {
	// Connected clients keyed by user ID. One user may hold several
	// connections (multiple tabs or devices).
	users map[int64]map[*Client]bool

	// Clients subscribed to each room's live events
	rooms map[int64]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex

	typing *TypingTracker

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		users:      make(map[int64]map[*Client]bool),
		rooms:      make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		typing:     NewTypingTracker(),
		logger:     logger,
	}
}

// Run services registrations and periodically expires stale typing state.
// It blocks, so call it in its own goroutine.
func (h *Hub) Run() {
	ticker := time.NewTicker(sweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			for _, roomID := range h.typing.Sweep() {
				h.broadcastTyping(roomID)
			}
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[client.userID]; !ok {
		h.users[client.userID] = make(map[*Client]bool)
	}
	h.users[client.userID][client] = true

	metrics.WsConnections.Inc()

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()

	clients, ok := h.users[client.userID]
	if !ok || !clients[client] {
		h.mu.Unlock()
		return
	}

	delete(clients, client)
	if len(clients) == 0 {
		delete(h.users, client.userID)
	}

	for roomID := range client.roomIDs {
		if room, ok := h.rooms[roomID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}

	close(client.send)
	metrics.WsConnections.Dec()

	_, stillConnected := h.users[client.userID]
	h.mu.Unlock()

	h.logger.Info().
		Int64("userID", client.userID).
		Msg("Client unregistered")

	// The user's typing claims die with their last connection
	if !stillConnected {
		for _, roomID := range h.typing.RemoveUser(client.userID) {
			h.broadcastTyping(roomID)
		}
	}
}

// JoinRoom subscribes the client to a room's live events
func (h *Hub) JoinRoom(client *Client, roomID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.roomIDs[roomID] = true
}

// LeaveRoom drops the client's subscription to a room
func (h *Hub) LeaveRoom(client *Client, roomID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[roomID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(client.roomIDs, roomID)
}

// BroadcastToRoom pushes an event to every client subscribed to the room.
// Delivery is fire and forget; slow clients are disconnected rather than
// allowed to stall the rest of the room.
func (h *Hub) BroadcastToRoom(roomID int64, event string, data any) {
	frame, err := NewEnvelope(event, data)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("roomID", roomID).
			Str("event", event).
			Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.RLock()
	clients, ok := h.rooms[roomID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	var stale []*Client
	for client := range clients {
		select {
		case client.send <- frame:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.dropSlowClient(client)
	}

	metrics.EventsBroadcast.WithLabelValues(event).Inc()
}

// PushToUser pushes an event to every connection the user holds. Returns
// true when at least one connection received the frame.
func (h *Hub) PushToUser(userID int64, event string, data any) bool {
	frame, err := NewEnvelope(event, data)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("userID", userID).
			Str("event", event).
			Msg("Failed to marshal event for push")
		return false
	}

	h.mu.RLock()
	clients, ok := h.users[userID]
	if !ok {
		h.mu.RUnlock()
		return false
	}

	delivered := false
	var stale []*Client
	for client := range clients {
		select {
		case client.send <- frame:
			delivered = true
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.dropSlowClient(client)
	}

	if delivered {
		metrics.EventsBroadcast.WithLabelValues(event).Inc()
	}

	return delivered
}

// IsUserOnline reports whether the user holds at least one live connection
func (h *Hub) IsUserOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.users[userID]) > 0
}

// RoomClientCount returns the number of clients subscribed to a room
func (h *Hub) RoomClientCount(roomID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[roomID])
}

// StartTyping records the user typing in the room and rebroadcasts the
// room's full typing set.
func (h *Hub) StartTyping(roomID, userID int64) {
	ids := h.typing.Start(roomID, userID)
	h.BroadcastToRoom(roomID, EventTypingUsers, TypingUsersPayload{
		ChatRoomID:    roomID,
		TypingUserIDs: ids,
	})
}

// StopTyping clears the user's typing claim in the room and rebroadcasts
// the room's full typing set.
func (h *Hub) StopTyping(roomID, userID int64) {
	ids := h.typing.Stop(roomID, userID)
	h.BroadcastToRoom(roomID, EventTypingUsers, TypingUsersPayload{
		ChatRoomID:    roomID,
		TypingUserIDs: ids,
	})
}

func (h *Hub) broadcastTyping(roomID int64) {
	h.BroadcastToRoom(roomID, EventTypingUsers, TypingUsersPayload{
		ChatRoomID:    roomID,
		TypingUserIDs: h.typing.Snapshot(roomID),
	})
}

func (h *Hub) dropSlowClient(client *Client) {
	h.logger.Warn().
		Int64("userID", client.userID).
		Msg("Dropping slow websocket client")
	client.conn.Close()
	h.unregisterClient(client)
}
