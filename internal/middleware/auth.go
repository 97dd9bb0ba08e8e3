package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/believerchat/backend/pkg/auth"
)

const (
	UserIDKey  = "userID"
	IsAdminKey = "isAdmin"
	RawToken   = "rawToken"
)

// AuthMiddleware verifies the bearer token, rejects blacklisted tokens and
// attaches the caller's identity to the request context.
func AuthMiddleware(jwtManager *auth.JWTManager, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			c.Abort()
			return
		}

		authorize(c, jwtManager, redisClient, token)
	}
}

// WSAuthMiddleware additionally accepts the token as a query parameter,
// since browser websocket clients cannot set headers.
func WSAuthMiddleware(jwtManager *auth.JWTManager, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
					token = parts[1]
				}
			}
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		authorize(c, jwtManager, redisClient, token)
	}
}

func authorize(c *gin.Context, jwtManager *auth.JWTManager, redisClient *redis.Client, token string) {
	exists, err := redisClient.Exists(context.Background(), "blacklist:"+token).Result()
	if err != nil || exists > 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is no longer valid"})
		c.Abort()
		return
	}

	claims, err := jwtManager.Verify(token)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
		c.Abort()
		return
	}

	c.Set(UserIDKey, claims.UserID)
	c.Set(IsAdminKey, claims.IsAdmin)
	c.Set(RawToken, token)
	c.Next()
}

// AdminRequired gates moderation endpoints on the token's admin flag.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(IsAdminKey) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// MustUserID returns the authenticated user id set by the auth middleware.
func MustUserID(c *gin.Context) uint {
	return c.MustGet(UserIDKey).(uint)
}
