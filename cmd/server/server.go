package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/relaychat/server/internal/config"
	"codeberg.org/relaychat/server/internal/llm"
	"codeberg.org/relaychat/server/internal/session"
	ws "codeberg.org/relaychat/server/internal/websocket"
	"codeberg.org/relaychat/server/relaychat/users"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// the credential store only sees short bursts of traffic at login and
	// registration, keep the pool small
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	userRepo := users.NewRepository(db)

	// the generator client is shared by all sessions; it holds no per-session
	// state and is safe for concurrent use
	generator, err := llm.NewTextGenerator()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	hub := ws.NewHub(session.NewCompleter(generator), cfg.TranscriptCap)

	hub.RegisterHandler(ws.TypeAIMessage, ws.AIMessageHandler())
	hub.RegisterHandler(ws.TypePing, ws.PingHandler())

	router := gin.Default()

	server := &Server{
		db:        db,
		config:    cfg,
		userRepo:  userRepo,
		generator: generator,
		hub:       hub,
		router:    router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
