package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/believerchat/backend/internal/database"
	"github.com/believerchat/backend/internal/handlers/dto"
	"github.com/believerchat/backend/internal/middleware"
	"github.com/believerchat/backend/internal/models"
	"github.com/believerchat/backend/internal/security"
	"github.com/believerchat/backend/internal/storage"
	"github.com/believerchat/backend/pkg/apperrors"
)

type ChatHandler struct {
	db    *database.Database
	store *storage.UploadStore
}

func NewChatHandler(db *database.Database, store *storage.UploadStore) *ChatHandler {
	return &ChatHandler{db: db, store: store}
}

func formatMessage(m *models.Message, store *storage.UploadStore) gin.H {
	result := gin.H{
		"id":           m.ID,
		"sender_id":    m.SenderID,
		"message_text": m.MessageText,
		"is_read":      m.IsRead,
		"timestamp":    m.Timestamp,
	}
	if m.ReceiverID != nil {
		result["receiver_id"] = *m.ReceiverID
	}
	if m.GroupID != nil {
		result["group_id"] = *m.GroupID
	}
	if m.ImagePath != "" {
		result["image_url"] = store.PublicURL(m.ImagePath)
	}
	return result
}

func formatMessages(messages []models.Message, store *storage.UploadStore) []gin.H {
	result := make([]gin.H, len(messages))
	for i := range messages {
		result[i] = formatMessage(&messages[i], store)
	}
	return result
}

// Send persists a message targeting exactly one of receiver_id or
// group_id. Group targets require membership.
func (h *ChatHandler) Send(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message payload"})
		return
	}

	if (req.ReceiverID == nil) == (req.GroupID == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of receiver_id or group_id is required"})
		return
	}

	text := security.SanitizeText(req.MessageText)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message_text is required"})
		return
	}

	senderID := middleware.MustUserID(c)
	if req.GroupID != nil {
		member, err := h.db.IsGroupMember(*req.GroupID, senderID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if !member {
			abortWithError(c, apperrors.New(apperrors.ErrCodeForbidden, "you are not a member of this group"))
			return
		}
	}

	message := &models.Message{
		SenderID:    senderID,
		ReceiverID:  req.ReceiverID,
		GroupID:     req.GroupID,
		MessageText: text,
	}
	if err := h.db.SaveMessage(message); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, formatMessage(message, h.store))
}

// History returns the direct conversation with the given user, oldest first.
func (h *ChatHandler) History(c *gin.Context) {
	otherID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	messages, err := h.db.DirectHistory(middleware.MustUserID(c), otherID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, formatMessages(messages, h.store))
}

// UnreadSenders lists the distinct users with unread messages to the caller.
func (h *ChatHandler) UnreadSenders(c *gin.Context) {
	senderIDs, err := h.db.UnreadSenders(middleware.MustUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if senderIDs == nil {
		senderIDs = []uint{}
	}
	c.JSON(http.StatusOK, gin.H{"senderIds": senderIDs})
}

func (h *ChatHandler) UnreadCount(c *gin.Context) {
	count, err := h.db.UnreadCount(middleware.MustUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

// MarkRead flips is_read on everything the given user sent to the caller.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	otherID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	if err := h.db.MarkRead(middleware.MustUserID(c), otherID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadImage stores the image and persists it as a message to the
// receiver or group named in the form.
func (h *ChatHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	var receiverID, groupID *uint
	if raw := c.PostForm("receiver_id"); raw != "" {
		id, convErr := parseFormUint(raw)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receiver_id"})
			return
		}
		receiverID = &id
	}
	if raw := c.PostForm("group_id"); raw != "" {
		id, convErr := parseFormUint(raw)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group_id"})
			return
		}
		groupID = &id
	}
	if (receiverID == nil) == (groupID == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of receiver_id or group_id is required"})
		return
	}

	senderID := middleware.MustUserID(c)
	if groupID != nil {
		member, err := h.db.IsGroupMember(*groupID, senderID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if !member {
			abortWithError(c, apperrors.New(apperrors.ErrCodeForbidden, "you are not a member of this group"))
			return
		}
	}

	path, err := h.store.Save(c, file)
	if err != nil {
		abortWithError(c, err)
		return
	}

	message := &models.Message{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		GroupID:     groupID,
		MessageText: security.SanitizeText(c.PostForm("message_text")),
		ImagePath:   path,
	}
	if err := h.db.SaveMessage(message); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"image_url": h.store.PublicURL(path),
		"message":   formatMessage(message, h.store),
	})
}
