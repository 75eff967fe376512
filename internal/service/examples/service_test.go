package examples_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/generation"
	"github.com/kioku-app/kioku/internal/service/examples"
)

// MockProvider is a mock implementation of the generation.SentenceProvider interface
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Generate(
	ctx context.Context,
	word *domain.Word,
	opts generation.Options,
) (*generation.Sentence, error) {
	args := m.Called(ctx, word, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generation.Sentence), args.Error(1)
}

// fakeWords is an in-memory WordAccess capturing appended examples.
type fakeWords struct {
	word      *domain.Word
	appended  []string
	appendErr error
}

func (f *fakeWords) Get(id uuid.UUID) (*domain.Word, bool) {
	if f.word == nil || f.word.ID != id {
		return nil, false
	}
	return f.word.Clone(), true
}

func (f *fakeWords) AppendExample(_ context.Context, _ uuid.UUID, sentence string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, sentence)
	return nil
}

// staticBasic returns a fixed fallback sentence.
type staticBasic struct{}

func (staticBasic) Basic(word *domain.Word) *generation.Sentence {
	return &generation.Sentence{
		Text:   word.Kanji + "は大切です。",
		Source: generation.SourceFallback,
	}
}

func newWord(t *testing.T) *domain.Word {
	t.Helper()
	word, err := domain.NewWord("学校", "がっこう", "school")
	require.NoError(t, err)
	return word
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestForWordServesCachedExample(t *testing.T) {
	t.Parallel()

	word := newWord(t)
	word.Examples = []string{"学校に行きます。 (がっこうにいきます。) - I go to school."}
	words := &fakeWords{word: word}

	ai := &MockProvider{}
	template := &MockProvider{}
	svc := examples.NewService(words, ai, template, staticBasic{}, discard())

	got, err := svc.ForWord(context.Background(), word.ID, generation.Options{})
	require.NoError(t, err)
	assert.Equal(t, generation.SourceCache, got.Source)
	assert.Equal(t, word.Examples[0], got.Text)

	// No generator was consulted and nothing new was stored.
	ai.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	template.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, words.appended)
}

func TestForWordFreshBypassesCache(t *testing.T) {
	t.Parallel()

	word := newWord(t)
	word.Examples = []string{"cached"}
	words := &fakeWords{word: word}

	ai := &MockProvider{}
	ai.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(&generation.Sentence{Text: "new sentence", Source: generation.SourceAI}, nil)

	svc := examples.NewService(words, ai, &MockProvider{}, staticBasic{}, discard())

	got, err := svc.ForWord(context.Background(), word.ID, generation.Options{Fresh: true})
	require.NoError(t, err)
	assert.Equal(t, generation.SourceAI, got.Source)
	assert.Equal(t, []string{"new sentence"}, words.appended)
}

func TestForWordFallsBackToTemplates(t *testing.T) {
	t.Parallel()

	word := newWord(t)
	words := &fakeWords{word: word}

	ai := &MockProvider{}
	ai.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, generation.ErrTransientFailure)
	template := &MockProvider{}
	template.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(&generation.Sentence{Text: "template sentence", Source: generation.SourceTemplate}, nil)

	svc := examples.NewService(words, ai, template, staticBasic{}, discard())

	got, err := svc.ForWord(context.Background(), word.ID, generation.Options{})
	require.NoError(t, err)
	assert.Equal(t, generation.SourceTemplate, got.Source)
	assert.Equal(t, []string{"template sentence"}, words.appended)
}

func TestForWordSkipsAIWhenAbsent(t *testing.T) {
	t.Parallel()

	word := newWord(t)
	words := &fakeWords{word: word}

	template := &MockProvider{}
	template.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(&generation.Sentence{Text: "template sentence", Source: generation.SourceTemplate}, nil)

	svc := examples.NewService(words, nil, template, staticBasic{}, discard())

	got, err := svc.ForWord(context.Background(), word.ID, generation.Options{})
	require.NoError(t, err)
	assert.Equal(t, generation.SourceTemplate, got.Source)
}

func TestForWordBasicFallbackTerminates(t *testing.T) {
	t.Parallel()

	word := newWord(t)
	words := &fakeWords{word: word}

	failing := &MockProvider{}
	failing.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, generation.ErrGenerationFailed)

	svc := examples.NewService(words, failing, failing, staticBasic{}, discard())

	got, err := svc.ForWord(context.Background(), word.ID, generation.Options{})
	require.NoError(t, err)
	assert.Equal(t, generation.SourceFallback, got.Source)
	assert.Contains(t, got.Text, "学校")
}

func TestForWordUnknownID(t *testing.T) {
	t.Parallel()

	svc := examples.NewService(&fakeWords{}, nil, &MockProvider{}, staticBasic{}, discard())
	_, err := svc.ForWord(context.Background(), uuid.New(), generation.Options{})
	assert.ErrorIs(t, err, examples.ErrWordNotFound)
}

func TestForWordAppendFailureKeepsSentence(t *testing.T) {
	t.Parallel()

	word := newWord(t)
	words := &fakeWords{word: word, appendErr: errors.New("disk full")}

	template := &MockProvider{}
	template.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(&generation.Sentence{Text: "template sentence", Source: generation.SourceTemplate}, nil)

	svc := examples.NewService(words, nil, template, staticBasic{}, discard())

	got, err := svc.ForWord(context.Background(), word.ID, generation.Options{})
	require.NoError(t, err)
	assert.Equal(t, "template sentence", got.Text)
}
