package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/believerchat/backend/pkg/logger"
)

// Hub owns every live connection and an explicit mapping from room key to
// the set of clients joined to it. It is handed to the components that need
// to publish; nothing reaches it through package state.
type Hub struct {
	clients map[uuid.UUID]*Client
	rooms   map[string]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		rooms:      make(map[string]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes registrations until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.rooms = make(map[string]map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	logger.Debug("websocket client registered", "client_id", client.ID, "user_id", client.UserID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	for room := range client.rooms {
		h.removeFromRoomLocked(client, room)
	}

	delete(h.clients, client.ID)
	close(client.Send)
	logger.Debug("websocket client unregistered", "client_id", client.ID, "user_id", client.UserID)
}

// JoinRoom is idempotent per connection.
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[uuid.UUID]*Client)
	}
	h.rooms[room][client.ID] = client

	client.mu.Lock()
	client.rooms[room] = true
	client.mu.Unlock()
}

func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoomLocked(client, room)
}

func (h *Hub) removeFromRoomLocked(client *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}

	client.mu.Lock()
	delete(client.rooms, room)
	client.mu.Unlock()
}

// SendToRoom fans a payload out to every connection joined to the room,
// the sender included, matching the relay behavior clients expect.
func (h *Hub) SendToRoom(room string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[room] {
		select {
		case client.Send <- message:
		default:
			logger.Warn("dropping message, client send queue full", "client_id", client.ID)
		}
	}
}

// RoomSize reports how many connections are currently joined to a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
