package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var ErrHubClosed = errors.New("realtime hub closed")

// Client is one websocket connection joined to a workspace room
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	workspaceID uuid.UUID
	send        chan []byte
}

type roomMessage struct {
	workspaceID uuid.UUID
	payload     []byte
}

// Hub keeps one room of clients per workspace and broadcasts into rooms
type Hub struct {
	rooms      map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	done       chan struct{}
	mu         sync.RWMutex
	closeOnce  sync.Once
	sendBuffer int
	upgrader   websocket.Upgrader
}

// NewHub creates a hub. sendBuffer is the per-client outbound queue size;
// a client whose queue is full is dropped.
func NewHub(sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 64),
		done:       make(chan struct{}),
		sendBuffer: sendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is not checked here; routes are authenticated by token
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run processes registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[client.workspaceID]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[client.workspaceID] = room
			}
			room[client] = struct{}{}
			h.mu.Unlock()
			log.Debug().Str("workspace_id", client.workspaceID.String()).Msg("Realtime client joined")
		case client := <-h.unregister:
			h.remove(client)
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg roomMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.rooms[msg.workspaceID] {
		select {
		case client.send <- msg.payload:
		default:
			// Slow consumer: drop it, it can reconnect and poll
			h.removeLocked(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	room, ok := h.rooms[client.workspaceID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.rooms, client.workspaceID)
	}
}

func (h *Hub) shutdown() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		defer h.mu.Unlock()
		for _, room := range h.rooms {
			for client := range room {
				h.removeLocked(client)
			}
		}
	})
}

// Publish broadcasts an alert to the workspace room
func (h *Hub) Publish(ctx context.Context, workspaceID uuid.UUID, alert domain.AlertSummary) error {
	payload, err := json.Marshal(Event{Type: EventAlertCreated, Data: alert})
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	select {
	case h.broadcast <- roomMessage{workspaceID: workspaceID, payload: payload}:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount returns the number of clients joined to a workspace room
func (h *Hub) ClientCount(workspaceID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[workspaceID])
}

// ServeWorkspace upgrades the request and joins the connection to the
// workspace room. Callers authorize the workspace beforehand.
func (h *Hub) ServeWorkspace(w http.ResponseWriter, r *http.Request, workspaceID uuid.UUID) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Client{
		hub:         h,
		conn:        conn,
		workspaceID: workspaceID,
		send:        make(chan []byte, h.sendBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so pongs and close frames are processed.
// Clients are not expected to send anything.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
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
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
