package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/events"
	"github.com/kioku-app/kioku/internal/platform/sqlitekv"
)

// VocabularyKey is the key-value entry holding the serialized collection.
const VocabularyKey = "vocabulary"

// Vocabulary holds the canonical in-memory word collection. Insertion
// order is preserved and is the display order. Every mutation persists
// the full collection to the key-value collaborator and announces a
// VocabularyChangedEvent so observers (the sync reconciler) can react.
//
// Mutations are serialized by an internal mutex: the operations
// read-modify-write the whole collection and are not designed to
// interleave.
type Vocabulary struct {
	mu      sync.Mutex
	words   []*domain.Word
	kv      sqlitekv.KV
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewVocabulary creates an empty Vocabulary backed by the given
// key-value store. The emitter may be nil, in which case mutations are
// not announced.
func NewVocabulary(kv sqlitekv.KV, emitter events.EventEmitter, logger *slog.Logger) *Vocabulary {
	if kv == nil {
		panic("kv cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Vocabulary{
		words:   make([]*domain.Word, 0),
		kv:      kv,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "vocabulary_store")),
	}
}

// Load restores the collection from the key-value store. An absent key
// leaves the collection empty. Load does not emit a change event.
func (v *Vocabulary) Load(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	raw, ok, err := v.kv.Get(ctx, VocabularyKey)
	if err != nil {
		return NewStoreError("word", "load", "failed to read persisted vocabulary", err)
	}
	if !ok {
		v.words = make([]*domain.Word, 0)
		return nil
	}

	var words []*domain.Word
	if err := json.Unmarshal([]byte(raw), &words); err != nil {
		return NewStoreError("word", "load", "failed to decode persisted vocabulary", err)
	}

	v.words = words
	v.logger.Debug("vocabulary restored", "count", len(words))
	return nil
}

// Add validates and appends a new word to the end of the collection.
// The new word starts in StatusLearning with no examples.
func (v *Vocabulary) Add(ctx context.Context, kanji, reading, meaning string) (*domain.Word, error) {
	word, err := domain.NewWord(kanji, reading, meaning)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	v.mu.Lock()
	v.words = append(v.words, word)
	v.mu.Unlock()

	if err := v.persistAndNotify(ctx, events.OpAdd, word.ID.String()); err != nil {
		return nil, err
	}

	v.logger.Debug("word added", "word_id", word.ID, "status", word.Status)
	return word.Clone(), nil
}

// UpdateStatus replaces the status of the word with the given id.
// Unknown ids are a silent no-op, not an error: session judgments may
// target words deleted mid-session.
func (v *Vocabulary) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidEntity, domain.ErrInvalidStatus, status)
	}

	v.mu.Lock()
	word := v.findLocked(id)
	if word == nil {
		v.mu.Unlock()
		return nil
	}
	word.Status = status
	v.mu.Unlock()

	return v.persistAndNotify(ctx, events.OpUpdateStatus, id.String())
}

// Remove deletes the word with the given id. Unknown ids are a no-op.
func (v *Vocabulary) Remove(ctx context.Context, id uuid.UUID) error {
	v.mu.Lock()
	found := false
	for i, word := range v.words {
		if word.ID == id {
			v.words = append(v.words[:i], v.words[i+1:]...)
			found = true
			break
		}
	}
	v.mu.Unlock()

	if !found {
		return nil
	}

	return v.persistAndNotify(ctx, events.OpRemove, id.String())
}

// AppendExample appends a cached example sentence to the word with the
// given id. Unknown ids are a no-op. Duplicates are permitted.
func (v *Vocabulary) AppendExample(ctx context.Context, id uuid.UUID, sentence string) error {
	v.mu.Lock()
	word := v.findLocked(id)
	if word == nil {
		v.mu.Unlock()
		return nil
	}
	word.AppendExample(sentence)
	v.mu.Unlock()

	return v.persistAndNotify(ctx, events.OpAppendExample, id.String())
}

// Replace swaps the entire collection. Used by the sync load path when
// the remote explicitly provides a non-empty replacement.
func (v *Vocabulary) Replace(ctx context.Context, words []*domain.Word) error {
	clones := make([]*domain.Word, len(words))
	for i, word := range words {
		if err := word.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
		}
		clones[i] = word.Clone()
	}

	v.mu.Lock()
	v.words = clones
	v.mu.Unlock()

	return v.persistAndNotify(ctx, events.OpReplace, "")
}

// Words returns a deep-copied snapshot of the collection in insertion
// order. Callers may mutate the result freely.
func (v *Vocabulary) Words() []*domain.Word {
	v.mu.Lock()
	defer v.mu.Unlock()

	snapshot := make([]*domain.Word, len(v.words))
	for i, word := range v.words {
		snapshot[i] = word.Clone()
	}
	return snapshot
}

// Get returns a copy of the word with the given id.
func (v *Vocabulary) Get(id uuid.UUID) (*domain.Word, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if word := v.findLocked(id); word != nil {
		return word.Clone(), true
	}
	return nil, false
}

// Len returns the number of words in the collection.
func (v *Vocabulary) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.words)
}

// StatusCounts returns the number of words per status. Every status is
// present in the result, with zero for statuses that have no words.
func (v *Vocabulary) StatusCounts() map[domain.Status]int {
	v.mu.Lock()
	defer v.mu.Unlock()

	counts := make(map[domain.Status]int, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		counts[status] = 0
	}
	for _, word := range v.words {
		counts[word.Status]++
	}
	return counts
}

func (v *Vocabulary) findLocked(id uuid.UUID) *domain.Word {
	for _, word := range v.words {
		if word.ID == id {
			return word
		}
	}
	return nil
}

// persistAndNotify serializes the collection to the key-value store and
// announces the mutation. The in-memory collection stays authoritative
// when persistence fails.
func (v *Vocabulary) persistAndNotify(ctx context.Context, op, wordID string) error {
	v.mu.Lock()
	raw, err := json.Marshal(v.words)
	v.mu.Unlock()
	if err != nil {
		return NewStoreError("word", "persist", "failed to encode vocabulary", err)
	}

	if err := v.kv.Set(ctx, VocabularyKey, string(raw)); err != nil {
		return NewStoreError("word", "persist", "failed to write vocabulary", err)
	}

	if v.emitter != nil {
		if err := v.emitter.EmitEvent(ctx, events.NewVocabularyChangedEvent(op, wordID)); err != nil {
			v.logger.Warn("change notification failed", "error", err, "op", op)
		}
	}
	return nil
}
