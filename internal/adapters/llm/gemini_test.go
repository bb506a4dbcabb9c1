package llm

import (
	"strings"
	"testing"
)

func TestDecodeReplyValidPayload(t *testing.T) {
	reply := decodeReply(`{"answer":"ITR is the Income Tax Return.","suggestions":["How to file it?","What documents do I need?"]}`)

	if reply.Answer != "ITR is the Income Tax Return." {
		t.Errorf("unexpected answer: %q", reply.Answer)
	}
	if len(reply.Suggestions) != 2 {
		t.Errorf("unexpected suggestions: %v", reply.Suggestions)
	}
}

func TestDecodeReplyMissingAnswer(t *testing.T) {
	reply := decodeReply(`{"suggestions":["A"]}`)

	if !strings.Contains(reply.Answer, "rephrasing") {
		t.Errorf("expected rephrase apology, got %q", reply.Answer)
	}
	if len(reply.Suggestions) != 1 {
		t.Errorf("suggestions must survive a missing answer, got %v", reply.Suggestions)
	}
}

func TestDecodeReplyMissingSuggestions(t *testing.T) {
	reply := decodeReply(`{"answer":"ok"}`)

	if reply.Suggestions == nil || len(reply.Suggestions) != 0 {
		t.Errorf("expected empty suggestion list, got %#v", reply.Suggestions)
	}
}

func TestDecodeReplyUnparseablePayload(t *testing.T) {
	reply := decodeReply(`not json at all`)

	if !strings.Contains(reply.Answer, "knowledge base") {
		t.Errorf("expected connectivity fallback, got %q", reply.Answer)
	}
	want := []string{"Try asking again", "What can you help with?"}
	if len(reply.Suggestions) != 2 || reply.Suggestions[0] != want[0] || reply.Suggestions[1] != want[1] {
		t.Errorf("expected fixed fallback suggestions, got %v", reply.Suggestions)
	}
}
