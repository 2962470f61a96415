package websocket

type ConnectParams struct {
	Token       string `form:"token"`                          // jwt token for authenticated users
	DisplayName string `form:"display_name" binding:"max=100"` // optional display name for anonymous users
}
