package websocket

import (
	"time"

	"codeberg.org/relaychat/server/internal/logger"
	"codeberg.org/relaychat/server/internal/session"
)

func NewHub(completer session.Completer, transcriptCap int) *Hub {
	return &Hub{
		clients:         make(map[string]*Client),
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
		Inbound:         make(chan *Message, 256),
		handlers:        make(map[string]MessageHandler),
		running:         false,
		shutdown:        make(chan struct{}),
		userConnections: make(map[string]int),
		ipConnections:   make(map[string]int),
		completer:       completer,
		transcriptCap:   transcriptCap,
	}
}

// registers a handler for a specific message type
func (h *Hub) RegisterHandler(messageType string, handler MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[messageType] = handler
}

// starts the hub's main loop
func (h *Hub) Run() {
	h.running = true
	defer func() {
		h.running = false
	}()

	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.Inbound:
			h.handleMessage(message)

		case <-h.shutdown:
			h.closeAllConnections()
			return
		}
	}
}

// adds a client to the hub and allocates its chat session. The session starts
// with an empty transcript; a reconnecting client always gets a fresh one.
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	if client.UserID != "" {
		h.userConnections[client.UserID]++
	}

	client.bindSession(session.New(client.ID, h.transcriptCap, h.completer, client))

	logger.Info("client registered",
		"client_id", client.ID,
		"user_id", client.UserID,
		"display_name", client.DisplayName,
		"authenticated", client.IsAuthenticated,
	)
}

// removes a client from the hub. The session is discarded with the client;
// any in-flight completion runs to completion and its result is dropped by
// the closed send channel.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client.ID]; !exists {
		return
	}

	delete(h.clients, client.ID)
	client.Close()

	if client.UserID != "" {
		h.userConnections[client.UserID]--

		if h.userConnections[client.UserID] <= 0 {
			delete(h.userConnections, client.UserID)
		}
	}

	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]--

		if h.ipConnections[client.IPAddress] <= 0 {
			delete(h.ipConnections, client.IPAddress)
		}
	}

	logger.Info("client unregistered",
		"client_id", client.ID,
		"user_id", client.UserID,
	)
}

// processes an incoming message
func (h *Hub) handleMessage(msg *Message) {
	h.mu.RLock()
	sender, exists := h.clients[msg.ClientID]
	h.mu.RUnlock()

	if !exists {
		logger.Warn("sender client not found for message",
			"client_id", msg.ClientID,
			"message_type", msg.Type,
		)
		return
	}

	h.mu.RLock()
	handler, exists := h.handlers[msg.Type]
	h.mu.RUnlock()

	if exists {
		// run handler asynchronously to avoid blocking the hub; overlapping
		// prompts from the same client are rejected by the session's
		// admission gate, never run concurrently upstream
		go func() {
			if err := handler(h, sender, msg); err != nil {
				logger.ErrorErr(err, "handler error",
					"message_type", msg.Type,
					"client_id", sender.ID,
				)
			}
		}()
	} else {
		logger.Warn("unhandled message type received",
			"message_type", msg.Type,
			"client_id", sender.ID,
		)

		sender.SendError("bad_request", "unsupported message type", "message type not recognized")
	}
}

// returns a registered client by ID
func (h *Hub) GetClient(clientID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[clientID]

	return client, exists
}

// returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

func (h *Hub) Shutdown() {
	if h.running {
		close(h.shutdown)
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()

	logger.Info("notifying clients of server shutdown")

	shutdownMsg, err := NewMessage(TypeServerShutdown, ServerShutdownPayload{
		Reason: "server is shutting down for maintenance",
	})

	if err == nil {
		for _, client := range h.clients {
			if sendErr := client.Send(shutdownMsg); sendErr != nil {
				logger.ErrorErr(sendErr, "failed to send shutdown notification",
					"client_id", client.ID,
				)
			}
		}
	}

	h.mu.Unlock()

	// give clients time to receive the shutdown message
	time.Sleep(500 * time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()

	logger.Info("closing all websocket connections")

	for clientID, client := range h.clients {
		client.Close()
		logger.Debug("closed client", "client_id", clientID)
	}

	h.clients = make(map[string]*Client)
	h.userConnections = make(map[string]int)
	h.ipConnections = make(map[string]int)
}

// checks if a new connection should be allowed based on limits
func (h *Hub) CanAcceptConnection(userID, ipAddress string) (bool, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	// per-user limit only applies to authenticated users
	if userID != "" {
		count := h.userConnections[userID]
		if count >= maxConnectionsPerUser {
			return false, "Maximum connections per user exceeded"
		}
	}

	count := h.ipConnections[ipAddress]
	if count >= maxConnectionsPerIP {
		return false, "Maximum connections per IP address exceeded"
	}

	return true, ""
}

// increments the connection count for an IP address
func (h *Hub) TrackIPConnection(ipAddress string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ipConnections[ipAddress]++
}

// decrements the connection count for an IP address
func (h *Hub) UntrackIPConnection(ipAddress string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ipConnections[ipAddress]--

	if h.ipConnections[ipAddress] <= 0 {
		delete(h.ipConnections, ipAddress)
	}
}
