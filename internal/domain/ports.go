package domain

import "context"

// Assistant defines how the core application talks to the generative
// backend. The contract is total: implementations map every failure
// (network, credentials, malformed payload) to a fallback Reply instead
// of returning an error, so the transcript always gains exactly one
// model message per user message.
type Assistant interface {
	GenerateResponse(ctx context.Context, history []*Message, userMessage string) Reply
}

// SessionRepository defines durable persistence for the session list.
// The durable copy is a best-effort mirror: rewritten wholesale on every
// mutation and read back only once, at startup.
type SessionRepository interface {
	Load() ([]*ChatSession, error)
	Save(sessions []*ChatSession) error
}
