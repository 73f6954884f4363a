package handlers

import (
	"encoding/json"
	"net/http"

	"study-log-backend/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// maximum size of a client message
const maxMessageSize = 4096

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// WebSocketHandler handles live ranking WebSocket connections
type WebSocketHandler struct {
	hub         *services.RankingHub
	userService *services.UserService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.RankingHub, userService *services.UserService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		userService: userService,
	}
}

// HandleWebSocket handles GET /ws. The optional name query parameter must
// belong to a registered user.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := r.URL.Query().Get("name")
	if name != "" {
		if _, err := h.userService.GetByName(ctx, name); err != nil {
			respondServiceError(w, err, "get user")
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	clientID := uuid.New().String()
	h.hub.Register(clientID, name, conn)
	defer h.hub.Unregister(clientID)

	if err := h.hub.SendRanking(ctx, clientID); err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("Failed to send initial ranking")
		h.sendError(clientID, "ranking is unavailable")
	}

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("client_id", clientID).Msg("WebSocket error")
			}
			return
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			h.sendError(clientID, "Invalid message format")
			continue
		}

		switch msg.Type {
		case services.MessagePing:
			err = h.hub.SendToClient(clientID, services.WSMessage{Type: services.MessagePong})
		case services.MessageRanking:
			err = h.hub.SendRanking(ctx, clientID)
		default:
			err = h.hub.SendToClient(clientID, services.WSMessage{
				Type:    services.MessageError,
				Message: "Unknown message type",
			})
		}
		if err != nil {
			log.Error().Err(err).Str("client_id", clientID).Str("type", msg.Type).Msg("Failed to handle message")
		}
	}
}

// sendError sends an error message to a client
func (h *WebSocketHandler) sendError(clientID, message string) {
	msg := services.WSMessage{
		Type:    services.MessageError,
		Message: message,
	}
	if err := h.hub.SendToClient(clientID, msg); err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("Failed to send error message")
	}
}
