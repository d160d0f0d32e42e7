package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/deniz/looking4/internal/pkg/auth"
)

// authWait is how long a freshly upgraded connection gets to present its
// auth frame before being dropped.
const authWait = 10 * time.Second

var errFirstFrameNotAuth = errors.New("first frame must be an auth event")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development, in production you should restrict this
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP requests to WebSocket connections
type Handler struct {
	hub        *Hub
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, jwtService *auth.JWTService, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		jwtService: jwtService,
		logger:     logger,
	}
}

// HandleConnection godoc
// @Summary Establish a WebSocket connection for real-time events
// @Description Upgrades the HTTP connection to a WebSocket. The first frame the client sends must be an auth event carrying a valid access token; the connection is closed otherwise.
// @Tags websocket
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Router /ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	claims, err := h.authenticate(conn)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("remoteAddr", conn.RemoteAddr().String()).
			Msg("WebSocket authentication failed")
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication required"),
			time.Now().Add(writeWait),
		)
		conn.Close()
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		userID:   claims.UserID,
		username: claims.Username,
		roomIDs:  make(map[int64]bool),
		logger:   h.logger,
	}
	client.hub.register <- client

	// Ack lands in the buffered send channel before the pumps start, so it
	// is the first frame the client receives.
	if ack, err := NewEnvelope(EventUserConnected, ConnectedPayload{
		UserID:   claims.UserID,
		Username: claims.Username,
	}); err == nil {
		client.send <- ack
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("userID", claims.UserID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}

// authenticate reads the first frame and validates the bearer token it
// carries. Event wiring only happens after this succeeds.
func (h *Handler) authenticate(conn *websocket.Conn) (*auth.Claims, error) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(authWait))
	defer conn.SetReadDeadline(time.Time{})

	_, frame, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var envelope Envelope
	if err := json.Unmarshal(frame, &envelope); err != nil {
		return nil, err
	}
	if envelope.Event != EventAuth {
		return nil, errFirstFrameNotAuth
	}

	var payload AuthPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return nil, err
	}

	return h.jwtService.ValidateAndExtractClaims(payload.Token)
}
