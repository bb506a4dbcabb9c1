// Package markdown maps the restricted markdown subset used in model
// replies (headings, flat lists, bold spans) to typed display blocks.
package markdown

import (
	"regexp"
	"strings"
)

type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading2
	KindHeading3
	KindBulletItem
	KindNumberedItem
)

// Span is a run of paragraph text, optionally emphasized.
type Span struct {
	Text string
	Bold bool
}

// Block is one display unit. Headings and list items carry Text;
// paragraphs carry Spans. An empty paragraph preserves vertical spacing.
type Block struct {
	Kind  BlockKind
	Text  string
	Spans []Span
}

var (
	numberedRe = regexp.MustCompile(`^\d+\.`)
	boldRe     = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// Parse evaluates content line by line. It is pure and deterministic:
// the same input always yields a structurally identical block sequence.
func Parse(content string) []Block {
	lines := strings.Split(content, "\n")
	blocks := make([]Block, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, Block{Kind: KindHeading3, Text: strings.TrimPrefix(line, "### ")})
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, Block{Kind: KindHeading2, Text: strings.TrimPrefix(line, "## ")})
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			blocks = append(blocks, Block{Kind: KindBulletItem, Text: trimmed[2:]})
		case numberedRe.MatchString(trimmed):
			// Numbering is kept inline, not tracked separately.
			blocks = append(blocks, Block{Kind: KindNumberedItem, Text: trimmed})
		default:
			blocks = append(blocks, Block{Kind: KindParagraph, Spans: parseSpans(line)})
		}
	}
	return blocks
}

// parseSpans splits a line into plain and **bold** runs. An empty line
// yields no spans.
func parseSpans(line string) []Span {
	var spans []Span
	rest := line
	for {
		loc := boldRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		if loc[0] > 0 {
			spans = append(spans, Span{Text: rest[:loc[0]]})
		}
		spans = append(spans, Span{Text: rest[loc[2]:loc[3]], Bold: true})
		rest = rest[loc[1]:]
	}
	if rest != "" {
		spans = append(spans, Span{Text: rest})
	}
	return spans
}
