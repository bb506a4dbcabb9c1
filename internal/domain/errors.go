package domain

import "errors"

var (
	// ErrSessionNotFound signals an operation on a session id that no
	// longer resolves. Callers are expected to treat it as a no-op.
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyMessage rejects whitespace-only user input.
	ErrEmptyMessage = errors.New("empty message")

	// ErrRequestInFlight rejects a send attempted while another request
	// is still pending.
	ErrRequestInFlight = errors.New("request already in flight")

	// ErrNoSavedSessions signals an empty durable store on load.
	ErrNoSavedSessions = errors.New("no saved sessions")

	// ErrCorruptState signals persisted data that failed schema
	// validation on load.
	ErrCorruptState = errors.New("corrupt persisted state")
)
