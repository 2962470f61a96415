package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/relaychat/server/internal/config"
	"codeberg.org/relaychat/server/internal/llm"
	ws "codeberg.org/relaychat/server/internal/websocket"
	"codeberg.org/relaychat/server/relaychat/users"
)

// holds all dependencies and state for the API server
type Server struct {
	db        *pgxpool.Pool
	config    *config.Config
	userRepo  *users.Repository
	generator llm.TextGenerator
	hub       *ws.Hub
	router    *gin.Engine
}
