package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/believerchat/backend/internal/models"
	"github.com/believerchat/backend/internal/storage"
	"github.com/believerchat/backend/pkg/apperrors"
	"github.com/believerchat/backend/pkg/logger"
)

// abortWithError translates an error into the API's {"error": ...} shape.
// Internal causes are logged and never surfaced.
func abortWithError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": apperrors.PublicMessage(err)})
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(value), true
}

func parseFormUint(raw string) (uint, error) {
	value, err := strconv.ParseUint(raw, 10, 64)
	return uint(value), err
}

// formatUserSummary is the compact profile shape used in member and
// connection listings.
func formatUserSummary(u *models.User, store *storage.UploadStore) gin.H {
	return gin.H{
		"id":                  u.ID,
		"name":                u.Name,
		"profile_picture_url": store.PublicURL(u.ProfilePicture),
	}
}

// formatUserProfile is the full profile shape; the password never appears
// because the model hides it from JSON.
func formatUserProfile(u *models.User, store *storage.UploadStore) gin.H {
	return gin.H{
		"id":                  u.ID,
		"name":                u.Name,
		"phone":               u.Phone,
		"email":               u.Email,
		"age":                 u.Age,
		"gender":              u.Gender,
		"city":                u.City,
		"state":               u.State,
		"country":             u.Country,
		"church_name":         u.ChurchName,
		"social_status":       u.SocialStatus,
		"is_verified":         u.IsVerified,
		"is_blocked":          u.IsBlocked,
		"is_admin":            u.IsAdmin,
		"created_at":          u.CreatedAt,
		"profile_picture":     u.ProfilePicture,
		"profile_picture_url": store.PublicURL(u.ProfilePicture),
	}
}

// formatMatch is the discovery shape returned by suggestions and find-people.
func formatMatch(u *models.User, store *storage.UploadStore) gin.H {
	return gin.H{
		"id":                  u.ID,
		"name":                u.Name,
		"gender":              u.Gender,
		"age":                 u.Age,
		"city":                u.City,
		"state":               u.State,
		"church_name":         u.ChurchName,
		"profile_picture_url": store.PublicURL(u.ProfilePicture),
	}
}
