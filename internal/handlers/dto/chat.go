package dto

// SendMessageRequest targets exactly one of receiver_id or group_id.
type SendMessageRequest struct {
	ReceiverID  *uint  `json:"receiver_id"`
	GroupID     *uint  `json:"group_id"`
	MessageText string `json:"message_text"`
}

type ConnectionRequest struct {
	ReceiverID uint `json:"receiver_id" binding:"required"`
}

type ConnectionRespondRequest struct {
	RequestID uint   `json:"request_id" binding:"required"`
	Action    string `json:"action" binding:"required,oneof=accept reject"`
}

type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type JoinGroupRequest struct {
	GroupID uint `json:"group_id" binding:"required"`
}

type RespondJoinRequest struct {
	Action string `json:"action" binding:"required,oneof=accept reject"`
}

// DirectMessagePayload is the websocket send_message body.
type DirectMessagePayload struct {
	SenderID    uint   `json:"sender_id"`
	ReceiverID  uint   `json:"receiver_id"`
	MessageText string `json:"message_text"`
}

// GroupMessagePayload is the websocket group_message body.
type GroupMessagePayload struct {
	SenderID    uint   `json:"sender_id"`
	GroupID     uint   `json:"group_id"`
	MessageText string `json:"message_text"`
}
