package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"codeberg.org/relaychat/server/internal/llm"
	"codeberg.org/relaychat/server/internal/logger"
)

// Session owns the conversational state for one live connection: a bounded
// transcript and a single-flight admission flag. It is created empty when the
// connection opens and discarded when it closes; nothing is persisted.
//
// At most one completion request is outstanding per session. A turn arriving
// while one is in flight is rejected with a busy notice, not queued, and
// leaves the transcript untouched.
type Session struct {
	id         string
	completer  Completer
	emitter    Emitter
	transcript *Transcript

	mu   sync.Mutex
	busy bool
}

func New(id string, transcriptCap int, completer Completer, emitter Emitter) *Session {
	return &Session{
		id:         id,
		completer:  completer,
		emitter:    emitter,
		transcript: NewTranscript(transcriptCap),
	}
}

func (s *Session) ID() string {
	return s.id
}

// reports whether a completion request is currently outstanding
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.busy
}

// returns a copy of the current transcript
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transcript.Turns()
}

// processes one user prompt: admit, append the user turn, dispatch the
// transcript snapshot upstream, then append the model turn and emit the
// response. Empty prompts are dropped silently. The busy flag is cleared on
// every exit path.
func (s *Session) HandleTurn(ctx context.Context, prompt string) {
	prompt = strings.TrimSpace(prompt)

	if prompt == "" {
		return
	}

	s.mu.Lock()

	if s.busy {
		s.mu.Unlock()

		// reject before append: a turn that was never sent upstream is not
		// recorded as context
		s.emitter.EmitError(BusyNotice)

		return
	}

	s.busy = true
	s.transcript.Append(Turn{Role: RoleUser, Text: prompt})
	snapshot := s.transcript.Turns()

	s.mu.Unlock()

	defer s.release()

	text, err := s.completer.Complete(ctx, snapshot)
	if err != nil {
		logger.ErrorErr(err, "completion failed",
			"session_id", s.id,
			"transcript_len", len(snapshot),
		)

		// the raw upstream error stays server-side
		if errors.Is(err, llm.ErrRateLimited) {
			s.emitter.EmitError(UpstreamBusyNotice)
		} else {
			s.emitter.EmitError(UpstreamFailureNotice)
		}

		return
	}

	s.mu.Lock()
	s.transcript.Append(Turn{Role: RoleModel, Text: text})
	s.mu.Unlock()

	s.emitter.EmitResponse(text)
}

// clears the admission flag; deferred from HandleTurn so every exit path
// releases it
func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
