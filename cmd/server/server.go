package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/believerchat/backend/internal/config"
	"github.com/believerchat/backend/internal/database"
	"github.com/believerchat/backend/internal/services"
	"github.com/believerchat/backend/internal/storage"
	ws "github.com/believerchat/backend/internal/websocket"
	"github.com/believerchat/backend/pkg/auth"
	"github.com/believerchat/backend/pkg/logger"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *ws.Hub

	cfg *config.Config
}

func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	store, err := storage.NewUploadStore(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	email := services.NewEmailService(cfg)

	hub := ws.NewHub()
	go hub.Run()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		Router:     router,
		DB:         db,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
		cfg:        cfg,
	}
	s.registerRoutes(store, email)

	return s, nil
}

func (s *Server) Run() error {
	logger.Info("server starting", "port", s.cfg.Port, "env", s.cfg.AppEnv)
	return s.Router.Run(":" + s.cfg.Port)
}

func (s *Server) Shutdown() {
	s.Hub.Stop()
	if err := s.Redis.Close(); err != nil {
		logger.Warn("redis close failed", "error", err)
	}
}
