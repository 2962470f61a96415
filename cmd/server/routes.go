package main

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"codeberg.org/relaychat/server/api/rest/auth"
	"codeberg.org/relaychat/server/api/rest/health"
	"codeberg.org/relaychat/server/api/websocket"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(cors.New(corsConfig()))
	router.GET("/health", health.Handler)

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(v1, server.userRepo)
		websocket.RegisterRoutes(v1, server.hub)
	}
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()

	if envOrigins := os.Getenv("ALLOWED_ORIGINS"); envOrigins != "" {
		origins := strings.Split(envOrigins, ",")

		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}

		cfg.AllowOrigins = origins
	} else {
		// development default, matches the local frontend dev server
		cfg.AllowOrigins = []string{"http://localhost:5173"}
	}

	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	cfg.AllowCredentials = true
	cfg.MaxAge = 12 * time.Hour

	return cfg
}
