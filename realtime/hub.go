package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 256
)

// MessageTypeActivity tags activity-log entries pushed to tournament rooms.
const MessageTypeActivity = "ACTIVITY"

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// TournamentRoom is the room name subscribers of a tournament join.
func TournamentRoom(tournamentID string) string {
	return "tournament_" + tournamentID
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string
}

// Hub fans messages out to websocket clients grouped by room. Send channels
// are closed only while holding mu, so broadcasts never write to a closed
// channel.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run processes registrations until ctx is cancelled, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			size := len(h.rooms[client.room])
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", slog.String("room", client.room), slog.Int("clients", size))

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for _, clients := range h.rooms {
				for client := range clients {
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
			h.logger.Info("websocket hub stopped")
			return
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.room]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.room)
	}
}

// RoomSize reports how many clients are subscribed to room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// BroadcastToRoom sends message to every client in the room. Clients whose
// buffers are full miss the message.
func (h *Hub) BroadcastToRoom(room string, message interface{}) {
	payload, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", slog.String("room", room), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		select {
		case client.send <- payload:
		default:
			h.logger.Warn("websocket client buffer full, dropping message", slog.String("room", room))
		}
	}
}

// PublishActivity pushes a committed activity to the subscribers of its
// tournament. Activities without a tournament are not broadcast.
func (h *Hub) PublishActivity(a models.Activity) {
	if a.TournamentID == nil {
		return
	}
	room := TournamentRoom(*a.TournamentID)
	h.BroadcastToRoom(room, Message{Type: MessageTypeActivity, Payload: a, RoomID: room})
}

// Attach registers conn in room and starts its pumps. It returns once the
// client is registered or ctx is done.
func (h *Hub) Attach(ctx context.Context, conn *websocket.Conn, room string) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBufferSize), room: room}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	case <-ctx.Done():
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", slog.String("room", c.room), slog.Any("error", err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Warn("websocket write failed", slog.String("room", c.room), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
