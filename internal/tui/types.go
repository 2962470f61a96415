package tui

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/gorilla/websocket"
)

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateChat
)

// main TUI application model
type Model struct {
	state   AppState
	mode    string
	width   int
	height  int
	err     error
	welcome *Welcome
	chat    *ChatModel
	client  *WSClient
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the chat state once connected
type EnterChatMsg struct{}

// a single exchange turn shown in the conversation view
type chatTurn struct {
	role string
	text string
}

// interactive chat interface
type ChatModel struct {
	input              textinput.Model
	viewport           viewport.Model
	width              int
	height             int
	conversation       []chatTurn
	isWaiting          bool
	spinner            spinner.Model
	glamourRenderer    *glamour.TermRenderer
	ready              bool
	shouldScrollBottom bool
	client             *WSClient
}

// sent when the server delivers an AI response
type AIResponseMsg struct {
	text string
}

// sent when the server delivers an AI error notice
type AIErrorMsg struct {
	notice string
}

// sent when the connection drops or the server shuts down
type DisconnectedMsg struct {
	err error
}

// sent when the connection attempt finishes
type WSConnectedMsg struct{}

type WSConnectErrorMsg struct {
	err error
}

// welcome screen model
type Welcome struct {
	mode     string
	input    string
	commands []Command
}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
	Available   bool
}

// mirrors the server's websocket envelope
type wsMessage struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// payload for an outbound prompt
type promptPayload struct {
	Prompt string `json:"prompt"`
}

// payload of protocol-level error messages
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// talks to the relay server over a single websocket connection
type WSClient struct {
	endpoint  string
	token     string
	conn      *websocket.Conn
	mu        sync.Mutex
	connected bool
	events    chan tea.Msg
}
