package session

import "context"

// roles a transcript turn can have
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// one message in a conversation transcript, immutable once appended
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// default number of turns a transcript retains as prompt context
const DefaultTranscriptCap = 10

// static user-facing notices. Raw upstream error text is never forwarded to
// the client; these are the only strings a connection ever sees on failure.
const (
	// a request arrived while a previous one was still outstanding
	BusyNotice = "Please wait, still processing your previous request."

	// the upstream provider stayed rate-limited through all retries
	UpstreamBusyNotice = "The system is busy. Please try again in a moment."

	// any other upstream failure, including empty responses
	UpstreamFailureNotice = "Something went wrong while generating a response. Please try again."
)

// produces a completion for a transcript snapshot
type Completer interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}

// receives session output events destined for the owning connection
type Emitter interface {
	EmitResponse(text string)
	EmitError(message string)
}
