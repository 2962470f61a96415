package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"codeberg.org/relaychat/server/internal/errors"
	"codeberg.org/relaychat/server/internal/logger"
	"codeberg.org/relaychat/server/internal/session"
)

// creates a new websocket client connection
func NewClient(id, userID, displayName, ipAddress string, isAuthenticated bool, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:               id,
		UserID:           userID,
		DisplayName:      displayName,
		IsAuthenticated:  isAuthenticated,
		IPAddress:        ipAddress,
		conn:             conn,
		hub:              hub,
		send:             make(chan []byte, 256),
		closed:           false,
		promptTimestamps: make([]time.Time, 0, maxPromptsPerMinute),
	}
}

// attaches the chat session owned by this connection; called by the hub at
// registration
func (c *Client) bindSession(s *session.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// returns the chat session owned by this connection
func (c *Client) Session() *session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.session
}

// reads messages from the websocket connection to the hub for processing
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister <- c
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket error",
					"client_id", c.ID,
					"error", err,
				)
			}

			break
		}

		var msg Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			logger.ErrorErr(err, "failed to unmarshal message",
				"client_id", c.ID,
			)

			c.SendError("bad_request", "invalid message format", err.Error())
			continue
		}

		msg.ClientID = c.ID
		msg.Timestamp = time.Now()

		// forward to hub for processing
		c.hub.Inbound <- &msg
	}
}

// writes messages from the hub to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			w.Write(message) //nolint:errcheck,gosec // G104: websocket write

			// add queued messages to the current websocket message
			n := len(c.send)

			for range n {
				w.Write([]byte{'\n'}) //nolint:errcheck,gosec // G104: websocket write
				w.Write(<-c.send)     //nolint:errcheck,gosec // G104: websocket write
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sends a message to the client
func (c *Client) Send(msg *Message) (err error) {
	// recover from panic if channel is closed
	defer func() {
		if r := recover(); r != nil {
			err = ErrConnectionClosed
		}
	}()

	c.mu.RLock()

	if c.closed {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}

	c.mu.RUnlock()

	messageBytes, marshalErr := json.Marshal(msg)
	if marshalErr != nil {
		return marshalErr
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		// channel is full, drop the connection rather than block the hub
		c.Close()
		return ErrConnectionClosed
	}
}

// sends a protocol-level error message to the client
func (c *Client) SendError(code, message, details string) {
	errorMsg, err := NewMessage(TypeError, errors.ErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
	})
	if err != nil {
		logger.ErrorErr(err, "failed to create error message",
			"client_id", c.ID,
			"error_code", code,
		)
		return
	}

	c.Send(errorMsg) //nolint:errcheck,gosec // G104: best effort error notification
}

// delivers an AI response to the connection; implements session.Emitter. If
// the connection is already closed the result is silently dropped.
func (c *Client) EmitResponse(text string) {
	msg, err := NewMessage(TypeAIResponse, text)
	if err != nil {
		logger.ErrorErr(err, "failed to create ai-response message",
			"client_id", c.ID,
		)
		return
	}

	if sendErr := c.Send(msg); sendErr != nil {
		logger.Debug("dropped ai-response for closed connection",
			"client_id", c.ID,
		)
	}
}

// delivers a session failure notice to the connection; implements
// session.Emitter. The message is always a static user-facing string.
func (c *Client) EmitError(message string) {
	msg, err := NewMessage(TypeAIError, message)
	if err != nil {
		logger.ErrorErr(err, "failed to create ai-error message",
			"client_id", c.ID,
		)
		return
	}

	if sendErr := c.Send(msg); sendErr != nil {
		logger.Debug("dropped ai-error for closed connection",
			"client_id", c.ID,
		)
	}
}

// closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// checks if the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.closed
}

// checks if the client can send another prompt
func (c *Client) checkPromptRateLimit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	oneMinuteAgo := now.Add(-1 * time.Minute)

	// remove timestamps older than 1 minute
	validTimestamps := make([]time.Time, 0, maxPromptsPerMinute)

	for _, ts := range c.promptTimestamps {
		if ts.After(oneMinuteAgo) {
			validTimestamps = append(validTimestamps, ts)
		}
	}

	c.promptTimestamps = validTimestamps

	if len(c.promptTimestamps) >= maxPromptsPerMinute {
		return false
	}

	c.promptTimestamps = append(c.promptTimestamps, now)
	return true
}
