package websocket

import (
	"github.com/gin-gonic/gin"

	ws "codeberg.org/relaychat/server/internal/websocket"
)

func RegisterRoutes(router *gin.RouterGroup, hub *ws.Hub) {
	router.GET("/ws", WebSocketHandler(hub))
}
