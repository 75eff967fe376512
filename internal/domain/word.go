package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Word-specific validation errors
var (
	// ErrWordIDEmpty is returned when a word ID is empty or nil.
	ErrWordIDEmpty = fmt.Errorf("%w: word ID cannot be empty", ErrValidation)

	// ErrKanjiEmpty is returned when a word's kanji field is empty or whitespace.
	ErrKanjiEmpty = fmt.Errorf("%w: kanji cannot be empty", ErrValidation)

	// ErrReadingEmpty is returned when a word's reading field is empty or whitespace.
	ErrReadingEmpty = fmt.Errorf("%w: reading cannot be empty", ErrValidation)

	// ErrMeaningEmpty is returned when a word's meaning field is empty or whitespace.
	ErrMeaningEmpty = fmt.Errorf("%w: meaning cannot be empty", ErrValidation)
)

// Word represents a single vocabulary entry: a kanji/reading/meaning
// triple with a learning status and any cached example sentences.
type Word struct {
	ID       uuid.UUID `json:"id"`
	Kanji    string    `json:"kanji"`
	Reading  string    `json:"reading"`
	Meaning  string    `json:"meaning"`
	Status   Status    `json:"status"`
	AddedAt  time.Time `json:"added_at"`
	Examples []string  `json:"examples"`
}

// NewWord creates a new Word from a kanji/reading/meaning triple.
// It generates a fresh UUID, defaults the status to StatusLearning,
// and stamps the creation time. Returns an error if any of the three
// fields is empty or whitespace-only.
func NewWord(kanji, reading, meaning string) (*Word, error) {
	word := &Word{
		ID:       uuid.New(),
		Kanji:    kanji,
		Reading:  reading,
		Meaning:  meaning,
		Status:   StatusLearning,
		AddedAt:  time.Now().UTC(),
		Examples: []string{},
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Validate checks if the Word has valid data.
// Returns an error if any field fails validation.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return ErrWordIDEmpty
	}

	if strings.TrimSpace(w.Kanji) == "" {
		return ErrKanjiEmpty
	}

	if strings.TrimSpace(w.Reading) == "" {
		return ErrReadingEmpty
	}

	if strings.TrimSpace(w.Meaning) == "" {
		return ErrMeaningEmpty
	}

	if !w.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, w.Status)
	}

	return nil
}

// Clone returns a deep copy of the Word. Session decks hold clones so
// that later store mutations cannot alter a deck in flight.
func (w *Word) Clone() *Word {
	clone := *w
	clone.Examples = make([]string, len(w.Examples))
	copy(clone.Examples, w.Examples)
	return &clone
}

// AppendExample adds a sentence to the word's cached examples.
// Duplicates are permitted; the list is append-only.
func (w *Word) AppendExample(sentence string) {
	w.Examples = append(w.Examples, sentence)
}
