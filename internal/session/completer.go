package session

import (
	"context"

	"codeberg.org/relaychat/server/internal/llm"
)

// bridges a transcript snapshot to an llm.TextGenerator, mapping transcript
// roles to the generator's message roles
type generatorCompleter struct {
	generator llm.TextGenerator
}

func NewCompleter(generator llm.TextGenerator) Completer {
	return &generatorCompleter{generator: generator}
}

func (c *generatorCompleter) Complete(ctx context.Context, turns []Turn) (string, error) {
	messages := make([]llm.Message, 0, len(turns))

	for _, turn := range turns {
		role := llm.RoleUser

		if turn.Role == RoleModel {
			role = llm.RoleAssistant
		}

		messages = append(messages, llm.Message{
			Role:    role,
			Content: turn.Text,
		})
	}

	return c.generator.GenerateText(ctx, messages)
}
