package examples

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/generation"
)

// ErrWordNotFound is returned when the requested word is not in the
// vocabulary.
var ErrWordNotFound = errors.New("word not found")

// WordAccess is the slice of the store the service needs: lookup by id
// and appending a new example sentence.
type WordAccess interface {
	Get(id uuid.UUID) (*domain.Word, bool)
	AppendExample(ctx context.Context, id uuid.UUID, sentence string) error
}

// BasicProvider renders a sentence that cannot fail. The template
// provider satisfies this alongside generation.SentenceProvider.
type BasicProvider interface {
	Basic(word *domain.Word) *generation.Sentence
}

// Service produces example sentences for vocabulary words through a
// tiered strategy: cached examples first, then the AI provider, then
// grammatical templates, then the basic fallback. Whatever tier
// produces a new sentence, it is appended to the word's stored
// examples so later requests can serve it from cache.
//
// The AI provider is optional; without one the service goes straight
// to templates.
type Service struct {
	words    WordAccess
	ai       generation.SentenceProvider
	template generation.SentenceProvider
	basic    BasicProvider
	logger   *slog.Logger
	rng      *rand.Rand
}

// NewService creates the example sentence service. ai may be nil when
// no API key is configured; template and basic must be the offline
// provider.
func NewService(
	words WordAccess,
	ai generation.SentenceProvider,
	template generation.SentenceProvider,
	basic BasicProvider,
	logger *slog.Logger,
) *Service {
	if words == nil {
		panic("words cannot be nil")
	}
	if template == nil {
		panic("template provider cannot be nil")
	}
	if basic == nil {
		panic("basic provider cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		words:    words,
		ai:       ai,
		template: template,
		basic:    basic,
		logger:   logger.With(slog.String("component", "example_service")),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ForWord returns an example sentence for the given word.
//
// Unless opts.Fresh is set, a word that already has stored examples
// gets a random one of those back without touching any generator. A
// newly generated sentence is appended to the word's examples; an
// append failure is logged but does not discard the sentence.
func (s *Service) ForWord(
	ctx context.Context,
	id uuid.UUID,
	opts generation.Options,
) (*generation.Sentence, error) {
	word, ok := s.words.Get(id)
	if !ok {
		return nil, ErrWordNotFound
	}

	if !opts.Fresh && len(word.Examples) > 0 {
		cached := word.Examples[s.rng.Intn(len(word.Examples))]
		return &generation.Sentence{Text: cached, Source: generation.SourceCache}, nil
	}

	result := s.generate(ctx, word, opts)

	if err := s.words.AppendExample(ctx, id, result.Text); err != nil {
		s.logger.WarnContext(ctx, "failed to store generated example",
			"word_id", id.String(),
			"error", err)
	}
	return result, nil
}

// generate walks the provider tiers. Each tier's failure is logged and
// the next tier tried; the basic fallback terminates the chain.
func (s *Service) generate(
	ctx context.Context,
	word *domain.Word,
	opts generation.Options,
) *generation.Sentence {
	if s.ai != nil {
		sentence, err := s.ai.Generate(ctx, word, opts)
		if err == nil {
			return sentence
		}
		s.logger.WarnContext(ctx, "ai generation failed, falling back to templates",
			"word_id", word.ID.String(),
			"error", err)
	}

	sentence, err := s.template.Generate(ctx, word, opts)
	if err == nil {
		return sentence
	}
	s.logger.WarnContext(ctx, "template generation failed, using basic fallback",
		"word_id", word.ID.String(),
		"error", err)

	return s.basic.Basic(word)
}
