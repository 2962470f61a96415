package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"codeberg.org/relaychat/server/internal/session"
)

// message type constants for websocket communication
const (
	// is sent by clients with a prompt for the AI
	TypeAIMessage = "ai-message"

	// is sent to the client with the AI's response text
	TypeAIResponse = "ai-response"

	// is sent to the client when a prompt could not be served
	TypeAIError = "ai-error"

	// is sent when a protocol-level error occurs (malformed traffic)
	TypeError = "error"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"

	// is sent by server before shutdown
	TypeServerShutdown = "server_shutdown"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maximum message size allowed from peer
	maxMessageSize = 64 * 1024 // 64 KB

	// maximum prompt length in characters
	maxPromptSize = 5000

	// rate limiting: maximum prompts per minute per client
	maxPromptsPerMinute = 20

	// ceiling on one prompt's upstream call including retries
	completionTimeout = 2 * time.Minute
)

// hub connection limit constants
const (
	maxConnectionsPerUser = 5
	maxConnectionsPerIP   = 10
)

// errors
var (
	ErrClientNotFound    = errors.New("client not found")
	ErrInvalidMessage    = errors.New("invalid message format")
	ErrConnectionClosed  = errors.New("connection closed")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrPromptTooLarge    = errors.New("prompt too large")
)

// represents a websocket message with typed payload
type Message struct {
	Type      string          `json:"type"`
	ClientID  string          `json:"-"` // internal only, not sent to clients
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// contains a prompt for the AI
type AIMessagePayload struct {
	Prompt string `json:"prompt"`
}

// contains information about server shutdown
type ServerShutdownPayload struct {
	Reason string `json:"reason"`
}

// represents a websocket client connection. Each client exclusively owns one
// chat session, created at registration and discarded at unregistration.
type Client struct {
	// unique identifier for this client
	ID string

	// user ID (empty for anonymous users)
	UserID string

	// display name for this client
	DisplayName string

	// whether this client has an authenticated user account
	IsAuthenticated bool

	// IP address of the client (for connection tracking)
	IPAddress string

	// websocket connection
	conn *websocket.Conn

	// hub reference for message routing
	hub *Hub

	// buffered channel of outbound messages
	send chan []byte

	// mutex for thread-safe operations
	mu sync.RWMutex

	// flag indicating if client is closed
	closed bool

	// the chat session owned by this connection
	session *session.Session

	// rate limiting: prompt timestamps (sliding window)
	promptTimestamps []time.Time
}

// routes inbound events to the owning client's session and tracks the set of
// active connections
type Hub struct {
	// registered clients by client ID
	clients map[string]*Client

	// register requests from clients
	Register chan *Client

	// unregister requests from clients
	Unregister chan *Client

	// inbound messages from clients
	Inbound chan *Message

	// mutex for thread-safe access to clients
	mu sync.RWMutex

	// message handlers for different message types
	handlers map[string]MessageHandler

	// flag indicating if hub is running
	running bool

	// channel to signal shutdown
	shutdown chan struct{}

	// connection tracking: user ID -> count of connections
	userConnections map[string]int

	// connection tracking: IP address -> count of connections
	ipConnections map[string]int

	// completion backend shared by all sessions
	completer session.Completer

	// transcript cap applied to new sessions
	transcriptCap int
}

// processes a specific message type
type MessageHandler func(hub *Hub, client *Client, msg *Message) error

// creates a message with a marshaled payload
func NewMessage(msgType string, payload any) (*Message, error) {
	msg := &Message{
		Type:      msgType,
		Timestamp: time.Now(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		msg.Payload = data
	}

	return msg, nil
}

// unmarshals the message payload into the given value
func (m *Message) UnmarshalPayload(v any) error {
	if len(m.Payload) == 0 {
		return ErrInvalidMessage
	}

	return json.Unmarshal(m.Payload, v)
}
