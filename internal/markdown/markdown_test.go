package markdown_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PabloGalante/finbot/internal/markdown"
)

func TestParseHeadings(t *testing.T) {
	blocks := markdown.Parse("## Taxes\n### ITR Basics")

	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Kind != markdown.KindHeading2 || blocks[0].Text != "Taxes" {
		t.Errorf("unexpected h2 block: %+v", blocks[0])
	}
	if blocks[1].Kind != markdown.KindHeading3 || blocks[1].Text != "ITR Basics" {
		t.Errorf("unexpected h3 block: %+v", blocks[1])
	}
}

func TestParseListItems(t *testing.T) {
	blocks := markdown.Parse("- PAN card\n  * Aadhaar\n1. Visit the portal\n  2. Log in")

	wantKinds := []markdown.BlockKind{
		markdown.KindBulletItem,
		markdown.KindBulletItem,
		markdown.KindNumberedItem,
		markdown.KindNumberedItem,
	}
	if len(blocks) != len(wantKinds) {
		t.Fatalf("expected %d blocks, got %d", len(wantKinds), len(blocks))
	}
	for i, kind := range wantKinds {
		if blocks[i].Kind != kind {
			t.Errorf("block %d: expected kind %v, got %v", i, kind, blocks[i].Kind)
		}
	}

	if blocks[0].Text != "PAN card" || blocks[1].Text != "Aadhaar" {
		t.Errorf("bullet text must drop the 2-char marker: %q, %q", blocks[0].Text, blocks[1].Text)
	}
	// Numbered items keep the whole trimmed line.
	if blocks[2].Text != "1. Visit the portal" || blocks[3].Text != "2. Log in" {
		t.Errorf("unexpected numbered text: %q, %q", blocks[2].Text, blocks[3].Text)
	}
}

func TestParseBoldSpans(t *testing.T) {
	blocks := markdown.Parse("Save **20%** of income, spend **50%** on needs.")

	if len(blocks) != 1 || blocks[0].Kind != markdown.KindParagraph {
		t.Fatalf("expected one paragraph, got %+v", blocks)
	}

	want := []markdown.Span{
		{Text: "Save "},
		{Text: "20%", Bold: true},
		{Text: " of income, spend "},
		{Text: "50%", Bold: true},
		{Text: " on needs."},
	}
	if !reflect.DeepEqual(blocks[0].Spans, want) {
		t.Errorf("spans mismatch:\n got %+v\nwant %+v", blocks[0].Spans, want)
	}
}

func TestParseEmptyLineKeepsSpacing(t *testing.T) {
	blocks := markdown.Parse("first\n\nsecond")

	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	mid := blocks[1]
	if mid.Kind != markdown.KindParagraph || len(mid.Spans) != 0 {
		t.Errorf("expected empty paragraph, got %+v", mid)
	}
}

func TestParseIdempotent(t *testing.T) {
	content := "## Budget\n- Track **fixed** costs\n1. List expenses\n\nDone."

	first := markdown.Parse(content)
	second := markdown.Parse(content)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Parse is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestRenderKeepsAllText(t *testing.T) {
	content := "## Budget\n- Track **fixed** costs\n1. List expenses"
	out := markdown.Render(content, 0)

	for _, fragment := range []string{"Budget", "Track", "fixed", "costs", "1. List expenses"} {
		if !strings.Contains(out, fragment) {
			t.Errorf("rendered output missing %q:\n%s", fragment, out)
		}
	}
}
