package main

import (
	"github.com/joho/godotenv"

	"github.com/believerchat/backend/internal/config"
	"github.com/believerchat/backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(".env.local"); err != nil {
		_ = godotenv.Load()
	}

	logger.Init()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", err)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("failed to start server", err)
	}
	defer srv.Shutdown()

	if err := srv.Run(); err != nil {
		logger.Fatal("server stopped", err)
	}
}
