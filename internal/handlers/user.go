package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/believerchat/backend/internal/database"
	"github.com/believerchat/backend/internal/middleware"
	"github.com/believerchat/backend/internal/models"
	"github.com/believerchat/backend/internal/services"
	"github.com/believerchat/backend/internal/storage"
	"github.com/believerchat/backend/pkg/logger"
)

type UserHandler struct {
	db    *database.Database
	store *storage.UploadStore
	email *services.EmailService
}

func NewUserHandler(db *database.Database, store *storage.UploadStore, email *services.EmailService) *UserHandler {
	return &UserHandler{db: db, store: store, email: email}
}

// Me returns the caller's full profile.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.db.GetUser(middleware.MustUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, formatUserProfile(user, h.store))
}

// List is the admin view of every account.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.db.ListUsers()
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, len(users))
	for i := range users {
		result[i] = formatUserProfile(&users[i], h.store)
	}
	c.JSON(http.StatusOK, result)
}

// Pending lists accounts awaiting verification.
func (h *UserHandler) Pending(c *gin.Context) {
	users, err := h.db.ListPendingUsers()
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, len(users))
	for i := range users {
		result[i] = formatMatch(&users[i], h.store)
	}
	c.JSON(http.StatusOK, result)
}

// PublicProfile shows another member's profile, only when they are
// verified and not blocked.
func (h *UserHandler) PublicProfile(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if id == middleware.MustUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot view your own profile here"})
		return
	}

	user, err := h.db.PublicProfile(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                  user.ID,
		"name":                user.Name,
		"gender":              user.Gender,
		"city":                user.City,
		"state":               user.State,
		"country":             user.Country,
		"church_name":         user.ChurchName,
		"social_status":       user.SocialStatus,
		"profile_picture_url": h.store.PublicURL(user.ProfilePicture),
	})
}

// Groups lists the groups a user belongs to.
func (h *UserHandler) Groups(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	groups, err := h.db.UserGroups(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, len(groups))
	for i, g := range groups {
		result[i] = gin.H{"id": g.ID, "name": g.Name}
	}
	c.JSON(http.StatusOK, result)
}

// Verify marks an account verified and notifies the user by email when
// SMTP is configured.
func (h *UserHandler) Verify(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	user, err := h.db.VerifyUser(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if h.email.Enabled() {
		go func(email, name string) {
			if err := h.email.SendAccountVerified(email, name); err != nil {
				logger.Warn("verification email failed", "email", email, "error", err)
			}
		}(user.Email, user.Name)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "user verified successfully",
		"user":    formatUserProfile(user, h.store),
	})
}

// BlockToggle flips the moderation block flag.
func (h *UserHandler) BlockToggle(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	user, err := h.db.ToggleBlocked(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	action := "unblocked"
	if user.IsBlocked {
		action = "blocked"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "user " + action + " successfully",
		"user":    gin.H{"id": user.ID, "name": user.Name, "is_blocked": user.IsBlocked},
	})
}

// Suggestions returns opposite-gender singles for single users, nearby
// matches first.
func (h *UserHandler) Suggestions(c *gin.Context) {
	current, err := h.db.GetUser(middleware.MustUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !current.IsVerified {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found or not verified"})
		return
	}
	if current.SocialStatus != models.SocialStatusSingle {
		c.JSON(http.StatusForbidden, gin.H{"error": "only single users receive suggestions"})
		return
	}

	matches, err := h.db.Suggestions(current)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, len(matches))
	for i := range matches {
		result[i] = formatMatch(&matches[i], h.store)
	}
	c.JSON(http.StatusOK, result)
}

// FindPeople lists connectable singles; admins see even already-connected
// members.
func (h *UserHandler) FindPeople(c *gin.Context) {
	current, err := h.db.GetUser(middleware.MustUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	people, err := h.db.FindPeople(current, current.IsAdmin)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, len(people))
	for i := range people {
		result[i] = formatMatch(&people[i], h.store)
	}
	c.JSON(http.StatusOK, result)
}

// UploadPicture stores a new avatar and links it to the caller.
func (h *UserHandler) UploadPicture(c *gin.Context) {
	file, err := c.FormFile("profile_picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	path, err := h.store.Save(c, file)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.db.UpdateProfilePicture(middleware.MustUserID(c), path); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"profile_picture_url": h.store.PublicURL(path),
	})
}
