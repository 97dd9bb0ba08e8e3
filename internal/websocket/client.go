package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/believerchat/backend/pkg/logger"
)

const (
	writeWait = 10 * time.Second

	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024
)

// Event names mirror the wire protocol the frontend speaks.
const (
	EventJoinRoom     = "join_room"
	EventSendMessage  = "send_message"
	EventJoinGroup    = "join_group"
	EventGroupMessage = "group_message"

	EventReceiveMessage      = "receive_message"
	EventReceiveGroupMessage = "receive_group_message"
	EventError               = "error"
)

type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// EventHandler processes chat events that need persistence before relay.
type EventHandler interface {
	HandleEvent(client *Client, evt *Event) error
}

type Client struct {
	ID     uuid.UUID
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub

	rooms map[string]bool
	mu    sync.RWMutex
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    hub,
		rooms:  make(map[string]bool),
	}
}

// ReadPump reads client events. Room membership changes are handled here;
// chat events are delegated to the handler so persistence happens before
// any broadcast.
func (c *Client) ReadPump(handler EventHandler) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var evt Event
		if err := c.Conn.ReadJSON(&evt); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error", "error", err, "user_id", c.UserID)
			}
			break
		}

		switch evt.Event {
		case EventJoinRoom:
			var room string
			if err := json.Unmarshal(evt.Data, &room); err != nil || room == "" {
				c.SendError(ErrInvalidEvent.Error())
				continue
			}
			c.Hub.JoinRoom(c, room)

		case EventJoinGroup:
			var groupID uint
			if err := json.Unmarshal(evt.Data, &groupID); err != nil || groupID == 0 {
				c.SendError(ErrInvalidEvent.Error())
				continue
			}
			c.Hub.JoinRoom(c, GroupRoomKey(groupID))

		default:
			if handler == nil {
				continue
			}
			if err := handler.HandleEvent(c, &evt); err != nil {
				logger.Warn("websocket event failed", "event", evt.Event, "user_id", c.UserID, "error", err)
				c.SendError(err.Error())
			}
		}
	}
}

// WritePump drains the send queue and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent marshals and queues an event for this connection.
func (c *Client) SendEvent(event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	msg, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		return err
	}

	select {
	case c.Send <- msg:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) SendError(errorMsg string) {
	c.SendEvent(EventError, map[string]string{"error": errorMsg})
}

func (c *Client) IsInRoom(room string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rooms[room]
}
