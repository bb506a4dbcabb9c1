package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/finbot/internal/domain"
)

// MockAssistant answers without a network. Useful for development and
// tests.
type MockAssistant struct{}

func NewMockAssistant() *MockAssistant {
	return &MockAssistant{}
}

func (m *MockAssistant) GenerateResponse(_ context.Context, history []*domain.Message, userMessage string) domain.Reply {
	return domain.Reply{
		Answer: fmt.Sprintf(
			"You asked: %q.\n\n**Mock mode** is on, so here is a canned answer instead of a real one.\n- The conversation has %d earlier messages.\n- Set GEMINI_API_KEY to talk to the real model.",
			userMessage, len(history),
		),
		Suggestions: []string{"What is a budget?", "How do taxes work?"},
	}
}
