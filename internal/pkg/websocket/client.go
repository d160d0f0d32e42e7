package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Inbound frames carry only
	// control events, never chat content, so this can stay small.
	maxMessageSize = 4 * 1024
)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub *Hub

	// The WebSocket connection
	conn *websocket.Conn

	// Buffered channel of outbound frames
	send chan []byte

	// Authenticated user behind the connection
	userID   int64
	username string

	// Rooms this connection is subscribed to. Owned by the hub's mutex.
	roomIDs map[int64]bool

	logger zerolog.Logger
}

// readPump pumps control events from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().
					Int64("userID", c.userID).
					Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().
					Err(err).
					Int64("userID", c.userID).
					Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().
					Err(err).
					Int64("userID", c.userID).
					Msg("WebSocket read error")
			}
			break
		}

		var envelope Envelope
		if err := json.Unmarshal(frame, &envelope); err != nil {
			c.logger.Error().
				Err(err).
				Int64("userID", c.userID).
				Str("frame", string(frame)).
				Msg("Failed to unmarshal client frame")
			continue
		}

		c.handleEvent(&envelope)
	}
}

// handleEvent dispatches a single inbound control event. Unknown events are
// logged and ignored so older clients stay connected.
func (c *Client) handleEvent(envelope *Envelope) {
	switch envelope.Event {
	case EventChatJoin:
		if roomID, ok := c.roomID(envelope); ok {
			c.hub.JoinRoom(c, roomID)
			c.hub.BroadcastToRoom(roomID, EventChatUserJoined, RoomUserPayload{
				ChatRoomID: roomID,
				UserID:     c.userID,
				Username:   c.username,
			})
		}

	case EventChatLeave:
		if roomID, ok := c.roomID(envelope); ok {
			c.hub.LeaveRoom(c, roomID)
			c.hub.StopTyping(roomID, c.userID)
			c.hub.BroadcastToRoom(roomID, EventChatUserLeft, RoomUserPayload{
				ChatRoomID: roomID,
				UserID:     c.userID,
				Username:   c.username,
			})
		}

	case EventTypingStart:
		if roomID, ok := c.roomID(envelope); ok {
			c.hub.StartTyping(roomID, c.userID)
		}

	case EventTypingStop:
		if roomID, ok := c.roomID(envelope); ok {
			c.hub.StopTyping(roomID, c.userID)
		}

	default:
		c.logger.Debug().
			Int64("userID", c.userID).
			Str("event", envelope.Event).
			Msg("Ignoring unknown client event")
	}
}

func (c *Client) roomID(envelope *Envelope) (int64, bool) {
	var payload RoomPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil || payload.ChatRoomID <= 0 {
		c.logger.Warn().
			Int64("userID", c.userID).
			Str("event", envelope.Event).
			Msg("Malformed room payload in client event")
		return 0, false
	}
	return payload.ChatRoomID, true
}

// writePump pumps frames from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
