package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"study-log-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	MessageRanking = "ranking"
	MessagePing    = "ping"
	MessagePong    = "pong"
	MessageError   = "error"

	writeTimeout = 10 * time.Second
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// MessageWriter is the part of a WebSocket connection the hub writes to
type MessageWriter interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// RankingSource produces the current ranking table
type RankingSource interface {
	Rankings(ctx context.Context) ([]models.RankingEntry, error)
}

type wsClient struct {
	name string
	conn MessageWriter
	// gorilla connections allow one concurrent writer
	writeMu sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// RankingHub manages WebSocket clients watching the live ranking
type RankingHub struct {
	mu      sync.RWMutex
	clients map[string]*wsClient
	source  RankingSource
}

// NewRankingHub creates a new WebSocket hub
func NewRankingHub(source RankingSource) *RankingHub {
	return &RankingHub{
		clients: make(map[string]*wsClient),
		source:  source,
	}
}

// Register adds a connection under clientID
func (h *RankingHub) Register(clientID, name string, conn MessageWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if any
	if existing, ok := h.clients[clientID]; ok {
		existing.conn.Close()
	}
	h.clients[clientID] = &wsClient{name: name, conn: conn}

	log.Info().Str("client_id", clientID).Str("name", name).Msg("WebSocket connection registered")
}

// Unregister removes and closes the connection of clientID
func (h *RankingHub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		c.conn.Close()
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Msg("WebSocket connection unregistered")
	}
}

// Count returns the number of connected clients
func (h *RankingHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendToClient sends a message to one client
func (h *RankingHub) SendToClient(clientID string, message WSMessage) error {
	h.mu.RLock()
	c, ok := h.clients[clientID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("client %s is not connected", clientID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := c.write(data); err != nil {
		h.Unregister(clientID)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Broadcast sends a message to every client. Clients that fail to receive it
// are dropped.
func (h *RankingHub) Broadcast(message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Str("type", message.Type).Msg("Failed to marshal broadcast")
		return
	}

	h.mu.RLock()
	targets := make(map[string]*wsClient, len(h.clients))
	for id, c := range h.clients {
		targets[id] = c
	}
	h.mu.RUnlock()

	for id, c := range targets {
		if err := c.write(data); err != nil {
			log.Warn().Err(err).Str("client_id", id).Msg("Failed to deliver broadcast")
			h.Unregister(id)
		}
	}
}

// SendRanking sends the current ranking to one client
func (h *RankingHub) SendRanking(ctx context.Context, clientID string) error {
	rankings, err := h.source.Rankings(ctx)
	if err != nil {
		return err
	}
	return h.SendToClient(clientID, WSMessage{Type: MessageRanking, Data: rankings})
}

// BroadcastRanking recomputes the ranking and pushes it to every client
func (h *RankingHub) BroadcastRanking(ctx context.Context) error {
	if h.Count() == 0 {
		return nil
	}
	rankings, err := h.source.Rankings(ctx)
	if err != nil {
		return err
	}
	h.Broadcast(WSMessage{Type: MessageRanking, Data: rankings})
	return nil
}

// SubmissionSaved pushes a fresh ranking after a submission. It returns
// immediately; the broadcast outlives the request that triggered it.
func (h *RankingHub) SubmissionSaved(ctx context.Context, userID string) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, writeTimeout)
		defer cancel()
		if err := h.BroadcastRanking(ctx); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to broadcast ranking")
		}
	}()
}

// CloseAll disconnects every client
func (h *RankingHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		c.conn.Close()
		delete(h.clients, id)
	}
}
