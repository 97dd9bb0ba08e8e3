package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/believerchat/backend/internal/database"
	"github.com/believerchat/backend/internal/handlers/dto"
	"github.com/believerchat/backend/internal/models"
	"github.com/believerchat/backend/internal/security"
	ws "github.com/believerchat/backend/internal/websocket"
)

// ChatEventHandler persists incoming chat events and only then relays them
// to the room, so a relayed message is always a stored message.
type ChatEventHandler struct {
	db  *database.Database
	hub *ws.Hub
}

func NewChatEventHandler(db *database.Database, hub *ws.Hub) *ChatEventHandler {
	return &ChatEventHandler{db: db, hub: hub}
}

func (h *ChatEventHandler) HandleEvent(client *ws.Client, evt *ws.Event) error {
	switch evt.Event {
	case ws.EventSendMessage:
		return h.handleDirectMessage(client, evt.Data)
	case ws.EventGroupMessage:
		return h.handleGroupMessage(client, evt.Data)
	default:
		return fmt.Errorf("unknown event: %s", evt.Event)
	}
}

// handleDirectMessage stores the message and fans it out to the pair's
// room. The sender identity is the authenticated connection, never the
// payload.
func (h *ChatEventHandler) handleDirectMessage(client *ws.Client, data json.RawMessage) error {
	var payload dto.DirectMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ws.ErrInvalidEvent
	}

	text := security.SanitizeText(payload.MessageText)
	if payload.ReceiverID == 0 || text == "" {
		return ws.ErrInvalidEvent
	}

	receiverID := payload.ReceiverID
	message := &models.Message{
		SenderID:    client.UserID,
		ReceiverID:  &receiverID,
		MessageText: text,
	}
	if err := h.db.SaveMessage(message); err != nil {
		return err
	}

	return h.broadcast(ws.DirectRoomKey(client.UserID, receiverID), ws.EventReceiveMessage, message)
}

// handleGroupMessage requires membership before anything is stored or
// relayed.
func (h *ChatEventHandler) handleGroupMessage(client *ws.Client, data json.RawMessage) error {
	var payload dto.GroupMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ws.ErrInvalidEvent
	}

	text := security.SanitizeText(payload.MessageText)
	if payload.GroupID == 0 || text == "" {
		return ws.ErrInvalidEvent
	}

	member, err := h.db.IsGroupMember(payload.GroupID, client.UserID)
	if err != nil {
		return err
	}
	if !member {
		return ws.ErrNotGroupMember
	}

	groupID := payload.GroupID
	message := &models.Message{
		SenderID:    client.UserID,
		GroupID:     &groupID,
		MessageText: text,
	}
	if err := h.db.SaveMessage(message); err != nil {
		return err
	}

	return h.broadcast(ws.GroupRoomKey(groupID), ws.EventReceiveGroupMessage, message)
}

func (h *ChatEventHandler) broadcast(room, event string, message *models.Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	envelope, err := json.Marshal(ws.Event{Event: event, Data: data})
	if err != nil {
		return err
	}

	h.hub.SendToRoom(room, envelope)
	return nil
}
