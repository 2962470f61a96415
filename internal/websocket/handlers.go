package websocket

import (
	"context"
	"strings"
)

// handles ai-message prompts by routing them to the client's session
func AIMessageHandler() MessageHandler {
	return func(_ *Hub, client *Client, msg *Message) error {
		var payload AIMessagePayload

		if err := msg.UnmarshalPayload(&payload); err != nil {
			client.SendError("validation_error", "failed to parse ai message", err.Error())
			return err
		}

		// missing or empty prompt is ignored, no emission
		if strings.TrimSpace(payload.Prompt) == "" {
			return nil
		}

		if len([]rune(payload.Prompt)) > maxPromptSize {
			client.SendError("bad_request", "prompt exceeds maximum size. maximum 5000 characters allowed.", "")
			return ErrPromptTooLarge
		}

		if !client.checkPromptRateLimit() {
			client.SendError("too_many_requests", "too many prompts. maximum 20 per minute.", "")
			return ErrRateLimitExceeded
		}

		// bound the total upstream call including retries; the session clears
		// its admission flag on every exit path
		ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
		defer cancel()

		client.Session().HandleTurn(ctx, payload.Prompt)

		return nil
	}
}

// handles ping messages from clients (keep-alive)
func PingHandler() MessageHandler {
	return func(_ *Hub, client *Client, _ *Message) error {
		pongMsg, err := NewMessage(TypePong, nil)
		if err != nil {
			return err
		}

		client.Send(pongMsg) //nolint:errcheck,gosec // best-effort pong
		return nil
	}
}
