package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/relaychat/server/internal/auth"
	"codeberg.org/relaychat/server/internal/errors"
	"codeberg.org/relaychat/server/internal/logger"
	ws "codeberg.org/relaychat/server/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     ws.CheckOrigin,
}

// handles websocket connections for AI chat. Every connection gets its own
// fresh session; there is no reconnection or history restore.
func WebSocketHandler(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			errors.BadRequest(c, "invalid parameters", err)
			return
		}

		var userID string
		var displayName string
		isAuthenticated := false

		// token can arrive as a query param or as the login cookie
		token := params.Token

		if token == "" {
			if cookie, err := c.Cookie(auth.TokenCookieName); err == nil {
				token = cookie
			}
		}

		if token != "" {
			claims, err := auth.ValidateJWT(token)
			if err == nil {
				userID = claims.UserID
				displayName = claims.Email
				isAuthenticated = true
			}
		}

		if params.DisplayName != "" {
			displayName = params.DisplayName
		}

		if displayName == "" {
			displayName = "Anonymous"
		}

		ipAddress := c.ClientIP()

		// check connection limits before accepting the new connection
		if allowed, reason := hub.CanAcceptConnection(userID, ipAddress); !allowed {
			errors.Forbidden(c, reason)
			return
		}

		clientID, err := ws.GenerateClientID()
		if err != nil {
			errors.InternalError(c, "failed to generate client id", err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "failed to upgrade connection",
				"client_ip", ipAddress,
			)
			return
		}

		client := ws.NewClient(clientID, userID, displayName, ipAddress, isAuthenticated, conn, hub)

		hub.TrackIPConnection(ipAddress)
		hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
