package domain

// Message represents one turn in a conversation, authored by the user or
// by the model. Content is immutable after creation.
type Message struct {
	ID        MessageID
	SessionID SessionID
	Role      Role
	Content   string
	CreatedAt Timestamp

	// Suggestions holds short follow-up questions offered by the model.
	// Only ever set on model-authored messages.
	Suggestions []string
}

// ChatSession is one independent conversation thread. Messages are
// append-only and insertion-ordered; the first message is always a
// model-authored greeting created with the session.
type ChatSession struct {
	ID        SessionID
	Title     string
	Messages  []*Message
	UpdatedAt Timestamp
}

// Reply is the structured result of one assistant call.
type Reply struct {
	Answer      string
	Suggestions []string
}
