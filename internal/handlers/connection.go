package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/believerchat/backend/internal/database"
	"github.com/believerchat/backend/internal/handlers/dto"
	"github.com/believerchat/backend/internal/middleware"
	"github.com/believerchat/backend/internal/models"
	"github.com/believerchat/backend/internal/storage"
)

type ConnectionHandler struct {
	db    *database.Database
	store *storage.UploadStore
}

func NewConnectionHandler(db *database.Database, store *storage.UploadStore) *ConnectionHandler {
	return &ConnectionHandler{db: db, store: store}
}

// Request sends a connection request; any existing row for the ordered
// pair makes this a conflict.
func (h *ConnectionHandler) Request(c *gin.Context) {
	var req dto.ConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiver_id is required"})
		return
	}

	senderID := middleware.MustUserID(c)
	if req.ReceiverID == senderID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot send a request to yourself"})
		return
	}

	if _, err := h.db.CreateConnectionRequest(senderID, req.ReceiverID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "request sent"})
}

// Respond resolves a pending request as the receiver.
func (h *ConnectionHandler) Respond(c *gin.Context) {
	var req dto.ConnectionRespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action"})
		return
	}

	status := models.ConnectionStatusAccepted
	if req.Action == "reject" {
		status = models.ConnectionStatusRejected
	}

	if err := h.db.RespondConnection(req.RequestID, middleware.MustUserID(c), status); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "connection " + status})
}

// Pending lists incoming requests with the sender's profile summary.
func (h *ConnectionHandler) Pending(c *gin.Context) {
	conns, err := h.db.PendingConnections(middleware.MustUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, len(conns))
	for i, conn := range conns {
		result[i] = gin.H{
			"id":                  conn.ID,
			"user_id":             conn.SenderID,
			"name":                conn.Sender.Name,
			"profile_picture_url": h.store.PublicURL(conn.Sender.ProfilePicture),
		}
	}
	c.JSON(http.StatusOK, result)
}

// Accepted lists the counterpart profiles of accepted connections.
func (h *ConnectionHandler) Accepted(c *gin.Context) {
	users, err := h.db.AcceptedConnections(middleware.MustUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, len(users))
	for i, u := range users {
		result[i] = gin.H{
			"id":                  u.ID,
			"name":                u.Name,
			"church_name":         u.ChurchName,
			"city":                u.City,
			"state":               u.State,
			"profile_picture_url": h.store.PublicURL(u.ProfilePicture),
		}
	}
	c.JSON(http.StatusOK, result)
}
