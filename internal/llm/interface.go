package llm

import (
	"context"

	"github.com/nguyentantai21042004/smartcut/internal/transcript"
)

// Analyst answers the two editorial questions the cutting pipeline
// asks: which paragraphs are repeated takes of the same content, and
// which words in a subtitle deserve visual emphasis. Both degrade to
// empty answers on failure; an LLM outage downgrades the edit instead
// of blocking it.
type Analyst interface {
	DetectDuplicates(ctx context.Context, paragraphs []transcript.Paragraph) []transcript.DuplicateGroup
	AccentWords(ctx context.Context, text string) []string
}
