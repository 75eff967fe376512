package sentence

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/generation"
)

// Provider implements generation.SentenceProvider with grammatical
// templates instead of a language model. Template choice is driven by
// the word's English meaning keywords first, then by the part of
// speech kagome assigns to the word. It needs no network and never
// fails.
type Provider struct {
	logger *slog.Logger
	t      *tokenizer.Tokenizer

	mu  sync.Mutex
	rng *rand.Rand
}

var _ generation.SentenceProvider = (*Provider)(nil)

// NewProvider creates a template provider. Building the IPA dictionary
// tokenizer is the only fallible step.
func NewProvider(logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("failed to build tokenizer: %w", err)
	}

	return &Provider{
		logger: logger.With(slog.String("component", "template_provider")),
		t:      t,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Generate renders a template sentence for the word. The error return
// satisfies the interface; it is always nil.
func (p *Provider) Generate(
	ctx context.Context,
	word *domain.Word,
	_ generation.Options,
) (*generation.Sentence, error) {
	if word == nil {
		return nil, fmt.Errorf("%w: word cannot be nil", generation.ErrGenerationFailed)
	}

	patterns := p.patternsFor(word)
	text := p.render(p.pick(patterns), word)

	p.logger.DebugContext(ctx, "template sentence generated",
		"word_id", word.ID.String(),
		"kanji", word.Kanji)

	return &generation.Sentence{Text: text, Source: generation.SourceTemplate}, nil
}

// Basic renders one of the last-resort shapes. Used when both the AI
// and template tiers are unavailable; it cannot fail.
func (p *Provider) Basic(word *domain.Word) *generation.Sentence {
	text := p.render(p.pick(basicPatterns), word)
	return &generation.Sentence{Text: text, Source: generation.SourceFallback}
}

// patternsFor selects the template family: meaning keywords take
// precedence over part of speech.
func (p *Provider) patternsFor(word *domain.Word) []pattern {
	meaning := strings.ToLower(word.Meaning)
	for _, group := range keywordGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(meaning, keyword) {
				return group.patterns
			}
		}
	}

	switch p.primaryPOS(word.Kanji) {
	case "動詞":
		return verbPatterns
	case "形容詞":
		return adjectivePatterns
	default:
		return generalPatterns
	}
}

// primaryPOS returns the IPA part-of-speech label of the word's first
// real token, or "" when analysis yields nothing.
func (p *Provider) primaryPOS(text string) string {
	for _, token := range p.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if features := token.Features(); len(features) > 0 {
			return features[0]
		}
	}
	return ""
}

func (p *Provider) pick(patterns []pattern) pattern {
	p.mu.Lock()
	defer p.mu.Unlock()
	return patterns[p.rng.Intn(len(patterns))]
}

func (p *Provider) render(pat pattern, word *domain.Word) string {
	return fmt.Sprintf("%s (%s) - %s",
		fmt.Sprintf(pat.ja, word.Kanji),
		fmt.Sprintf(pat.roman, word.Reading),
		fmt.Sprintf(pat.en, word.Meaning),
	)
}
