package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/believerchat/backend/internal/database"
	"github.com/believerchat/backend/internal/handlers/dto"
	"github.com/believerchat/backend/internal/middleware"
	"github.com/believerchat/backend/internal/models"
	"github.com/believerchat/backend/internal/security"
	"github.com/believerchat/backend/internal/storage"
	"github.com/believerchat/backend/pkg/auth"
	"github.com/believerchat/backend/pkg/logger"
)

type AuthHandler struct {
	db         *database.Database
	jwtManager *auth.JWTManager
	redis      *redis.Client
	store      *storage.UploadStore
}

func NewAuthHandler(db *database.Database, jwtMgr *auth.JWTManager, rdb *redis.Client, store *storage.UploadStore) *AuthHandler {
	return &AuthHandler{db: db, jwtManager: jwtMgr, redis: rdb, store: store}
}

// Register creates an unverified account. The profile picture is optional;
// everything else is required, and the phone number must be unused.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required including password"})
		return
	}

	if req.Age < 18 || req.Age > 35 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "age must be between 18 and 35"})
		return
	}

	if !security.ValidPhone(req.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
		return
	}

	taken, err := h.db.PhoneTaken(req.Phone)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "phone number already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot hash password"})
		return
	}

	var picturePath string
	if file, err := c.FormFile("profile_picture"); err == nil {
		picturePath, err = h.store.Save(c, file)
		if err != nil {
			abortWithError(c, err)
			return
		}
	}

	user := &models.User{
		Name:           security.SanitizeText(req.Name),
		Phone:          req.Phone,
		Email:          req.Email,
		Password:       string(hash),
		Age:            req.Age,
		Gender:         req.Gender,
		City:           security.SanitizeText(req.City),
		State:          security.SanitizeText(req.State),
		Country:        security.SanitizeText(req.Country),
		ChurchName:     security.SanitizeText(req.ChurchName),
		SocialStatus:   security.SanitizeText(req.SocialStatus),
		ProfilePicture: picturePath,
		IsVerified:     false,
	}

	if err := h.db.SaveUser(user); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, formatUserProfile(user, h.store))
}

// Login checks credentials, then the moderation gates, and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.db.FindUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if !user.IsVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "your account has not been verified by the admin yet"})
		return
	}
	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "your account has been blocked by the admin"})
		return
	}

	token, err := h.jwtManager.Generate(user.ID, user.Email, user.Name, user.IsAdmin)
	if err != nil {
		logger.Error("token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    formatUserProfile(user, h.store),
		"token":   token,
	})
}

// Logout blacklists the presented token until it would have expired anyway.
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken := c.GetString(middleware.RawToken)

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	ttl := time.Until(exp)
	if ttl > 0 {
		h.redis.Set(context.Background(), "blacklist:"+rawToken, 1, ttl)
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
