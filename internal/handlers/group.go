package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/believerchat/backend/internal/database"
	"github.com/believerchat/backend/internal/handlers/dto"
	"github.com/believerchat/backend/internal/middleware"
	"github.com/believerchat/backend/internal/models"
	"github.com/believerchat/backend/internal/security"
	"github.com/believerchat/backend/internal/storage"
	"github.com/believerchat/backend/pkg/apperrors"
)

type GroupHandler struct {
	db    *database.Database
	store *storage.UploadStore
}

func NewGroupHandler(db *database.Database, store *storage.UploadStore) *GroupHandler {
	return &GroupHandler{db: db, store: store}
}

func formatGroup(g *models.Group) gin.H {
	return gin.H{
		"id":          g.ID,
		"name":        g.Name,
		"description": g.Description,
		"created_by":  g.CreatedBy,
		"created_at":  g.CreatedAt,
	}
}

func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.db.ListGroups()
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, len(groups))
	for i := range groups {
		result[i] = formatGroup(&groups[i])
	}
	c.JSON(http.StatusOK, result)
}

// Create mints a fresh invite token for every group and enrolls the
// creator as the first member.
func (h *GroupHandler) Create(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group name is required"})
		return
	}

	group := &models.Group{
		Name:        security.SanitizeText(req.Name),
		Description: security.SanitizeText(req.Description),
		InviteToken: uuid.NewString(),
		CreatedBy:   middleware.MustUserID(c),
	}
	if err := h.db.CreateGroup(group); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           group.ID,
		"name":         group.Name,
		"description":  group.Description,
		"invite_token": group.InviteToken,
		"created_by":   group.CreatedBy,
		"created_at":   group.CreatedAt,
	})
}

// Get returns the group; the invite token is only shown to the creator
// or an admin.
func (h *GroupHandler) Get(c *gin.Context) {
	groupID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	group, err := h.db.GetGroup(groupID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := formatGroup(group)
	isAdmin := c.GetBool(middleware.IsAdminKey)
	if isAdmin || group.CreatedBy == middleware.MustUserID(c) {
		result["invite_token"] = group.InviteToken
	}
	c.JSON(http.StatusOK, result)
}

func (h *GroupHandler) Join(c *gin.Context) {
	var req dto.JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group_id is required"})
		return
	}

	if _, err := h.db.GetGroup(req.GroupID); err != nil {
		abortWithError(c, err)
		return
	}
	if err := h.db.AddGroupMember(req.GroupID, middleware.MustUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "joined group"})
}

// JoinByInvite enrolls via invite token; re-joining is a no-op.
func (h *GroupHandler) JoinByInvite(c *gin.Context) {
	token := c.Param("token")

	group, err := h.db.GroupByInviteToken(token)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := h.db.AddGroupMemberIdempotent(group.ID, middleware.MustUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "joined group",
		"group_id": group.ID,
		"name":     group.Name,
	})
}

// Status reports member, pending, or not_joined for the caller.
func (h *GroupHandler) Status(c *gin.Context) {
	groupID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.db.GetGroup(groupID); err != nil {
		abortWithError(c, err)
		return
	}
	status, err := h.db.GroupStatus(groupID, middleware.MustUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *GroupHandler) Members(c *gin.Context) {
	groupID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	users, err := h.db.GroupMembers(groupID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, len(users))
	for i := range users {
		result[i] = formatUserSummary(&users[i], h.store)
	}
	c.JSON(http.StatusOK, result)
}

func (h *GroupHandler) MemberCount(c *gin.Context) {
	groupID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	count, err := h.db.GroupMemberCount(groupID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Messages returns the group history to members only.
func (h *GroupHandler) Messages(c *gin.Context) {
	groupID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	member, err := h.db.IsGroupMember(groupID, middleware.MustUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !member {
		abortWithError(c, apperrors.New(apperrors.ErrCodeForbidden, "you are not a member of this group"))
		return
	}

	messages, err := h.db.GroupHistory(groupID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, formatMessages(messages, h.store))
}

// RequestJoin files a join request for the group creator to review.
func (h *GroupHandler) RequestJoin(c *gin.Context) {
	groupID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.db.GetGroup(groupID); err != nil {
		abortWithError(c, err)
		return
	}

	userID := middleware.MustUserID(c)
	member, err := h.db.IsGroupMember(groupID, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if member {
		abortWithError(c, apperrors.New(apperrors.ErrCodeAlreadyExists, "already a member of the group"))
		return
	}

	if err := h.db.CreateJoinRequest(groupID, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "join request sent"})
}

// Requests lists a group's pending join requests; creator only.
func (h *GroupHandler) Requests(c *gin.Context) {
	groupID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	group, err := h.db.GetGroup(groupID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if group.CreatedBy != middleware.MustUserID(c) {
		abortWithError(c, apperrors.New(apperrors.ErrCodeForbidden, "only the group creator can view requests"))
		return
	}

	requests, err := h.db.PendingJoinRequests(groupID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, formatJoinRequests(requests, h.store))
}

// OwnedRequests lists pending join requests across every group the
// caller created.
func (h *GroupHandler) OwnedRequests(c *gin.Context) {
	requests, err := h.db.OwnedPendingJoinRequests(middleware.MustUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, formatJoinRequests(requests, h.store))
}

func formatJoinRequests(requests []models.GroupJoinRequest, store *storage.UploadStore) []gin.H {
	result := make([]gin.H, len(requests))
	for i, req := range requests {
		result[i] = gin.H{
			"id":                  req.ID,
			"group_id":            req.GroupID,
			"user_id":             req.UserID,
			"name":                req.User.Name,
			"profile_picture_url": store.PublicURL(req.User.ProfilePicture),
			"created_at":          req.CreatedAt,
		}
	}
	return result
}

// RespondRequest accepts or rejects a join request as the group creator.
func (h *GroupHandler) RespondRequest(c *gin.Context) {
	requestID, ok := parseUintParam(c, "requestId")
	if !ok {
		return
	}

	var req dto.RespondJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action"})
		return
	}

	status := models.JoinRequestStatusAccepted
	if req.Action == "reject" {
		status = models.JoinRequestStatusRejected
	}

	if err := h.db.ResolveJoinRequest(requestID, middleware.MustUserID(c), status); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request " + status})
}

// RemoveMember evicts a member; creator only, and the creator cannot
// remove themselves.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	group, err := h.db.GetGroup(groupID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if group.CreatedBy != middleware.MustUserID(c) {
		abortWithError(c, apperrors.New(apperrors.ErrCodeForbidden, "only the group creator can remove members"))
		return
	}
	if memberID == group.CreatedBy {
		c.JSON(http.StatusBadRequest, gin.H{"error": "the creator cannot leave their own group"})
		return
	}

	if err := h.db.RemoveGroupMember(groupID, memberID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}
