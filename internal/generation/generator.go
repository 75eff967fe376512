package generation

import (
	"context"

	"github.com/kioku-app/kioku/internal/domain"
)

// Source identifies which tier produced a sentence.
type Source string

const (
	// SourceCache means the sentence was served from previously stored examples.
	SourceCache Source = "cache"
	// SourceAI means the sentence came from the language model.
	SourceAI Source = "ai"
	// SourceTemplate means the sentence was built by grammatical templates.
	SourceTemplate Source = "template"
	// SourceFallback means the simplest pattern was used as a last resort.
	SourceFallback Source = "fallback"
)

// Sentence is one generated example sentence for a vocabulary word.
// Text carries the full display form: the Japanese sentence, its
// reading in parentheses, then a dash and the English translation.
type Sentence struct {
	Text   string
	Source Source
}

// Options tunes a single generation request.
type Options struct {
	// Fresh skips any cached examples and forces new generation.
	Fresh bool
}

// SentenceProvider defines the interface for producing example
// sentences from a vocabulary word. This interface is the boundary
// between the application core and external AI/LLM services.
type SentenceProvider interface {
	// Generate creates one example sentence using the given word. It
	// returns the sentence or an error if generation fails for any
	// reason (see errors.go for specific types).
	Generate(ctx context.Context, word *domain.Word, opts Options) (*Sentence, error)
}
