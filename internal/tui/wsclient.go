package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

const (
	typeAIMessage      = "ai-message"
	typeAIResponse     = "ai-response"
	typeAIError        = "ai-error"
	typeError          = "error"
	typePing           = "ping"
	typePong           = "pong"
	typeServerShutdown = "server_shutdown"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// creates a new webSocket client
func NewWSClient() *WSClient {
	endpoint := os.Getenv("RELAYCHAT_WS_ENDPOINT")
	if endpoint == "" {
		endpoint = "ws://localhost:8080/api/v1/ws"
	}

	return &WSClient{
		endpoint: endpoint,
		token:    os.Getenv("RELAYCHAT_TOKEN"),
		events:   make(chan tea.Msg, 16),
	}
}

// Connect establishes the WebSocket connection
func (c *WSClient) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	endpoint := c.endpoint
	if c.token != "" {
		endpoint = fmt.Sprintf("%s?token=%s", endpoint, c.token)
	}

	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.conn = conn

	// set up ping/pong handlers to keep the connection alive
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// set initial read deadline
	conn.SetReadDeadline(time.Now().Add(pongWait))

	c.connected = true

	// start the read pump in a goroutine
	go c.readPump()

	// start the ping pump to keep connection alive
	go c.pingPump()

	return nil
}

// sends periodic pings to keep the connection alive
func (c *WSClient) pingPump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		<-ticker.C
		c.mu.Lock()

		if !c.connected || c.conn == nil {
			c.mu.Unlock()
			return
		}

		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

// continuously reads messages and pushes them onto the events channel
func (c *WSClient) readPump() {
	defer func() {
		c.mu.Lock()
		wasConnected := c.connected
		c.connected = false
		if c.conn != nil {
			c.conn.Close()
		}
		c.mu.Unlock()

		if wasConnected {
			c.events <- DisconnectedMsg{err: fmt.Errorf("connection lost")}
		}
	}()

	for {
		// reset read deadline on each successful read
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg wsMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case typeAIResponse:
			var text string
			if err := json.Unmarshal(msg.Payload, &text); err != nil {
				continue
			}
			c.events <- AIResponseMsg{text: text}

		case typeAIError:
			var notice string
			if err := json.Unmarshal(msg.Payload, &notice); err != nil {
				continue
			}
			c.events <- AIErrorMsg{notice: notice}

		case typeError:
			var errResp errorPayload
			if err := json.Unmarshal(msg.Payload, &errResp); err != nil {
				continue
			}
			c.events <- AIErrorMsg{notice: errResp.Message}

		case typeServerShutdown:
			c.events <- DisconnectedMsg{err: fmt.Errorf("server is shutting down")}
			return

		case typePong:
			continue

		default:
			continue
		}
	}
}

// sends a prompt to the server. The answer arrives asynchronously on the
// events channel.
func (c *WSClient) SendPrompt(prompt string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return fmt.Errorf("not connected")
	}

	payloadBytes, err := json.Marshal(promptPayload{Prompt: prompt})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := wsMessage{
		Type:      typeAIMessage,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}

	c.conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send prompt: %w", err)
	}

	return nil
}

// returns whether the client is connected
func (c *WSClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// closes the webSocket connection
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false
}

// returns a tea.Cmd that connects to the webSocket server
func (c *WSClient) ConnectCmd() tea.Cmd {
	return func() tea.Msg {
		if err := c.Connect(); err != nil {
			return WSConnectErrorMsg{err: err}
		}

		return WSConnectedMsg{}
	}
}

// returns a tea.Cmd that blocks until the next server event arrives
func (c *WSClient) WaitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-c.events
	}
}
