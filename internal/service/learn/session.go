package learn

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/kioku-app/kioku/internal/domain"
)

// Phase is the session state machine phase.
type Phase string

// Session phases. The legal transitions are
// SelectingFilters -> InSession (Start), InSession -> SessionComplete
// (deck exhausted), InSession/SessionComplete -> InSession (Restart),
// and InSession/SessionComplete -> SelectingFilters (BackToFilters).
const (
	PhaseSelectingFilters Phase = "selecting_filters"
	PhaseInSession        Phase = "in_session"
	PhaseSessionComplete  Phase = "session_complete"
)

// WordSource provides the word snapshot a session deck is built from.
// *store.Vocabulary satisfies it.
type WordSource interface {
	Words() []*domain.Word
}

// WordStatusUpdater receives the status-transition side effect of each
// judgment. *store.Vocabulary satisfies it; unknown ids must be a
// no-op, since a judged word may have been deleted mid-session.
type WordStatusUpdater interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error
}

// Stats counts the judgments recorded during one session. Counts are
// monotonically non-decreasing within a session.
type Stats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Skipped   int `json:"skipped"`
	Total     int `json:"total"`
}

// Session runs one review pass over a filtered, shuffled snapshot of
// the vocabulary. The deck is fixed at Start: later store mutations do
// not alter deck membership or order.
type Session struct {
	source  WordSource
	updater WordStatusUpdater
	logger  *slog.Logger
	rng     *rand.Rand

	phase     Phase
	filters   map[domain.Status]bool
	deck      []*domain.Word
	cursor    int
	revealed  bool
	completed map[uuid.UUID]struct{}
	stats     Stats
}

// NewSession creates a session in PhaseSelectingFilters with the
// default filter selection: often_forget and learning included,
// know_well excluded.
func NewSession(source WordSource, updater WordStatusUpdater, logger *slog.Logger) *Session {
	if source == nil {
		panic("source cannot be nil")
	}
	if updater == nil {
		panic("updater cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		source:  source,
		updater: updater,
		logger:  logger.With(slog.String("component", "learning_session")),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		phase:   PhaseSelectingFilters,
		filters: map[domain.Status]bool{
			domain.StatusOftenForget: true,
			domain.StatusLearning:    true,
			domain.StatusKnowWell:    false,
		},
	}
}

// Phase returns the current state machine phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Filters returns a copy of the current filter selection.
func (s *Session) Filters() map[domain.Status]bool {
	selection := make(map[domain.Status]bool, len(s.filters))
	for status, on := range s.filters {
		selection[status] = on
	}
	return selection
}

// ToggleFilter flips inclusion of the given status in the pending
// filter set. It has no effect on an active session: outside
// PhaseSelectingFilters the call is ignored.
func (s *Session) ToggleFilter(status domain.Status) {
	if s.phase != PhaseSelectingFilters {
		return
	}
	if !status.Valid() {
		return
	}
	s.filters[status] = !s.filters[status]
}

// FilteredCount returns how many words the current filter selection
// matches. Callers check this before Start.
func (s *Session) FilteredCount() int {
	return len(s.filteredSnapshot())
}

// Start builds the deck and enters PhaseInSession. Only legal in
// PhaseSelectingFilters; returns ErrEmptySelection when the filter
// selection matches no words.
func (s *Session) Start() error {
	s.mustBeIn("Start", PhaseSelectingFilters)
	return s.begin()
}

// Restart abandons the current pass and re-snapshots the filtered
// vocabulary with a fresh shuffle. Legal from PhaseInSession and
// PhaseSessionComplete.
func (s *Session) Restart() error {
	s.mustBeIn("Restart", PhaseInSession, PhaseSessionComplete)
	return s.begin()
}

// BackToFilters discards the session state and returns to
// PhaseSelectingFilters, preserving the current filter selection.
// Legal from PhaseInSession and PhaseSessionComplete.
func (s *Session) BackToFilters() {
	s.mustBeIn("BackToFilters", PhaseInSession, PhaseSessionComplete)
	s.deck = nil
	s.cursor = 0
	s.revealed = false
	s.completed = nil
	s.stats = Stats{}
	s.phase = PhaseSelectingFilters
}

// Reveal shows the current card's answer. Idempotent. Only legal in
// PhaseInSession.
func (s *Session) Reveal() {
	s.mustBeIn("Reveal", PhaseInSession)
	s.revealed = true
}

// Revealed reports whether the current card's answer is shown.
func (s *Session) Revealed() bool {
	return s.revealed
}

// Judge records the user's judgment of the current card and advances.
// Only legal in PhaseInSession. Effects, in order: the judgment is
// counted once per card id; the word's status is unconditionally
// overwritten per the outcome mapping; the cursor advances or the
// session completes.
//
// The status write is tolerated to fail (the word may have been
// deleted mid-session); the session still advances, and the failure is
// reported as a wrapped ServiceError.
func (s *Session) Judge(ctx context.Context, outcome domain.Outcome) error {
	s.mustBeIn("Judge", PhaseInSession)

	if !outcome.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidOutcome, outcome)
	}

	card := s.deck[s.cursor]

	if _, done := s.completed[card.ID]; !done {
		s.completed[card.ID] = struct{}{}
		switch outcome {
		case domain.OutcomeCorrect:
			s.stats.Correct++
		case domain.OutcomeIncorrect:
			s.stats.Incorrect++
		case domain.OutcomeSkip:
			s.stats.Skipped++
		}
		s.stats.Total++
	}

	var judgeErr error
	if err := s.updater.UpdateStatus(ctx, card.ID, outcome.Status()); err != nil {
		s.logger.Warn("status transition failed",
			"word_id", card.ID,
			"outcome", outcome,
			"error", err)
		judgeErr = NewJudgeError("status transition failed", err)
	}

	if s.cursor < len(s.deck)-1 {
		s.cursor++
		s.revealed = false
	} else {
		s.revealed = false
		s.phase = PhaseSessionComplete
		s.logger.Debug("session complete",
			"total", s.stats.Total,
			"correct", s.stats.Correct,
			"incorrect", s.stats.Incorrect,
			"skipped", s.stats.Skipped)
	}

	return judgeErr
}

// Current returns the card under the cursor. The boolean is false in
// PhaseSelectingFilters.
func (s *Session) Current() (*domain.Word, bool) {
	if s.phase == PhaseSelectingFilters || len(s.deck) == 0 {
		return nil, false
	}
	return s.deck[s.cursor].Clone(), true
}

// CursorPos returns the zero-based cursor position.
func (s *Session) CursorPos() int {
	return s.cursor
}

// DeckSize returns the number of cards in the current deck.
func (s *Session) DeckSize() int {
	return len(s.deck)
}

// Stats returns a copy of the session statistics.
func (s *Session) Stats() Stats {
	return s.stats
}

// Progress returns how far through the deck the session is, as a
// percentage. It is computed pre-advance: the card under the cursor is
// not yet counted.
func (s *Session) Progress() float64 {
	if len(s.deck) == 0 {
		return 0
	}
	return float64(s.cursor) / float64(len(s.deck)) * 100
}

// begin snapshots the filtered vocabulary, shuffles it uniformly, and
// resets the per-pass state.
func (s *Session) begin() error {
	deck := s.filteredSnapshot()
	if len(deck) == 0 {
		return ErrEmptySelection
	}

	// rand.Shuffle is Fisher-Yates, a uniform permutation.
	s.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	s.deck = deck
	s.cursor = 0
	s.revealed = false
	s.completed = make(map[uuid.UUID]struct{}, len(deck))
	s.stats = Stats{}
	s.phase = PhaseInSession

	s.logger.Debug("session started", "deck_size", len(deck))
	return nil
}

// filteredSnapshot deep-copies the words whose status is in the
// selected set.
func (s *Session) filteredSnapshot() []*domain.Word {
	var deck []*domain.Word
	for _, word := range s.source.Words() {
		if s.filters[word.Status] {
			deck = append(deck, word.Clone())
		}
	}
	return deck
}

// mustBeIn panics when the session is not in one of the allowed
// phases. The UI must never drive these combinations.
func (s *Session) mustBeIn(op string, allowed ...Phase) {
	for _, phase := range allowed {
		if s.phase == phase {
			return
		}
	}
	panic(fmt.Sprintf("learn: %s called in phase %q", op, s.phase))
}
