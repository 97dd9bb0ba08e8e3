package main

import (
	"github.com/believerchat/backend/internal/handlers"
	"github.com/believerchat/backend/internal/middleware"
	"github.com/believerchat/backend/internal/services"
	"github.com/believerchat/backend/internal/storage"
)

func (s *Server) registerRoutes(store *storage.UploadStore, email *services.EmailService) {
	authH := handlers.NewAuthHandler(s.DB, s.JWTManager, s.Redis, store)
	userH := handlers.NewUserHandler(s.DB, store, email)
	connH := handlers.NewConnectionHandler(s.DB, store)
	groupH := handlers.NewGroupHandler(s.DB, store)
	chatH := handlers.NewChatHandler(s.DB, store)
	wsH := handlers.NewWebSocketHandler(s.Hub, handlers.NewChatEventHandler(s.DB, s.Hub))

	s.Router.Use(middleware.CORS())
	s.Router.Use(middleware.RateLimit(s.cfg.RateLimitPerMinute, s.cfg.RateLimitBurst))

	// Stored images are served straight off disk.
	s.Router.Static("/"+store.Dir(), store.Dir())

	api := s.Router.Group("/api/v1")

	authorized := middleware.AuthMiddleware(s.JWTManager, s.Redis)

	users := api.Group("/users")
	{
		users.POST("/register", authH.Register)
		users.POST("/login", authH.Login)
		users.POST("/logout", authorized, authH.Logout)

		users.GET("/me", authorized, userH.Me)
		users.GET("", authorized, middleware.AdminRequired(), userH.List)
		users.GET("/pending", authorized, middleware.AdminRequired(), userH.Pending)
		users.GET("/suggestions", authorized, userH.Suggestions)
		users.GET("/find-people", authorized, userH.FindPeople)
		users.POST("/upload-picture", authorized, userH.UploadPicture)

		users.GET("/:id/public-profile", authorized, userH.PublicProfile)
		users.GET("/:id/groups", authorized, userH.Groups)
		users.PATCH("/:id/verify", authorized, middleware.AdminRequired(), userH.Verify)
		users.PATCH("/:id/block-toggle", authorized, middleware.AdminRequired(), userH.BlockToggle)
	}

	chat := api.Group("/chat", authorized)
	{
		chat.POST("/send", chatH.Send)
		chat.GET("/history/:userId", chatH.History)
		chat.GET("/unread-senders", chatH.UnreadSenders)
		chat.GET("/unread-count", chatH.UnreadCount)
		chat.POST("/mark-read/:userId", chatH.MarkRead)
		chat.POST("/upload-image", chatH.UploadImage)
	}

	groups := api.Group("/groups", authorized)
	{
		groups.GET("", groupH.List)
		groups.POST("/create", groupH.Create)
		groups.POST("/join", groupH.Join)
		groups.POST("/invite/:token", groupH.JoinByInvite)
		groups.GET("/owned/requests", groupH.OwnedRequests)
		groups.POST("/requests/:requestId/respond", groupH.RespondRequest)

		groups.GET("/:id", groupH.Get)
		groups.GET("/:id/status", groupH.Status)
		groups.GET("/:id/members", groupH.Members)
		groups.GET("/:id/members/count", groupH.MemberCount)
		groups.GET("/:id/messages", groupH.Messages)
		groups.POST("/:id/request-join", groupH.RequestJoin)
		groups.GET("/:id/requests", groupH.Requests)
		groups.DELETE("/:id/members/:userId", groupH.RemoveMember)
	}

	connections := api.Group("/connections", authorized)
	{
		connections.POST("/request", connH.Request)
		connections.POST("/respond", connH.Respond)
		connections.GET("/pending", connH.Pending)
		connections.GET("/accepted", connH.Accepted)
	}

	api.GET("/ws", middleware.WSAuthMiddleware(s.JWTManager, s.Redis), wsH.HandleWebSocket)
}
