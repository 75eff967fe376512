package learn_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/service/learn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves a fixed word list as the session's snapshot source.
type fakeSource struct {
	words []*domain.Word
}

func (f *fakeSource) Words() []*domain.Word {
	snapshot := make([]*domain.Word, len(f.words))
	for i, w := range f.words {
		snapshot[i] = w.Clone()
	}
	return snapshot
}

// fakeUpdater records status transitions; unknown ids are a no-op like
// the real store.
type fakeUpdater struct {
	transitions map[uuid.UUID]domain.Status
	err         error
}

func (f *fakeUpdater) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) error {
	if f.err != nil {
		return f.err
	}
	if f.transitions == nil {
		f.transitions = make(map[uuid.UUID]domain.Status)
	}
	f.transitions[id] = status
	return nil
}

func testWord(t *testing.T, kanji string, status domain.Status) *domain.Word {
	t.Helper()
	word, err := domain.NewWord(kanji, kanji+"-reading", kanji+"-meaning")
	require.NoError(t, err)
	word.Status = status
	return word
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T, words ...*domain.Word) (*learn.Session, *fakeUpdater) {
	t.Helper()
	updater := &fakeUpdater{}
	session := learn.NewSession(&fakeSource{words: words}, updater, testLogger())
	return session, updater
}

func TestNewSessionDefaults(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t)

	assert.Equal(t, learn.PhaseSelectingFilters, session.Phase())
	assert.Equal(t, map[domain.Status]bool{
		domain.StatusOftenForget: true,
		domain.StatusLearning:    true,
		domain.StatusKnowWell:    false,
	}, session.Filters())
}

func TestToggleFilter(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t, testWord(t, "一", domain.StatusKnowWell))

	assert.Equal(t, 0, session.FilteredCount())
	session.ToggleFilter(domain.StatusKnowWell)
	assert.True(t, session.Filters()[domain.StatusKnowWell])
	assert.Equal(t, 1, session.FilteredCount())
}

func TestToggleFilterIgnoredDuringSession(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t, testWord(t, "一", domain.StatusLearning))
	require.NoError(t, session.Start())

	session.ToggleFilter(domain.StatusLearning)
	assert.True(t, session.Filters()[domain.StatusLearning], "active session must not see filter changes")
}

func TestStartBuildsFilteredDeck(t *testing.T) {
	t.Parallel()

	known := []*domain.Word{
		testWord(t, "一", domain.StatusKnowWell),
		testWord(t, "二", domain.StatusKnowWell),
		testWord(t, "三", domain.StatusKnowWell),
	}
	learning := []*domain.Word{
		testWord(t, "四", domain.StatusLearning),
		testWord(t, "五", domain.StatusLearning),
	}

	updater := &fakeUpdater{}
	session := learn.NewSession(&fakeSource{words: append(known, learning...)}, updater, testLogger())

	// Select exactly {know_well}.
	session.ToggleFilter(domain.StatusOftenForget)
	session.ToggleFilter(domain.StatusLearning)
	session.ToggleFilter(domain.StatusKnowWell)
	require.Equal(t, 3, session.FilteredCount())

	require.NoError(t, session.Start())
	assert.Equal(t, learn.PhaseInSession, session.Phase())
	assert.Equal(t, 3, session.DeckSize())

	// Walk the whole deck and collect card ids: each know_well word
	// appears exactly once, in some order.
	seen := make(map[uuid.UUID]int)
	for session.Phase() == learn.PhaseInSession {
		card, ok := session.Current()
		require.True(t, ok)
		seen[card.ID]++
		session.Reveal()
		require.NoError(t, session.Judge(context.Background(), domain.OutcomeCorrect))
	}

	require.Len(t, seen, 3)
	for _, word := range known {
		assert.Equal(t, 1, seen[word.ID])
	}
}

func TestStartEmptySelection(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t, testWord(t, "一", domain.StatusKnowWell))
	assert.ErrorIs(t, session.Start(), learn.ErrEmptySelection)
	assert.Equal(t, learn.PhaseSelectingFilters, session.Phase())
}

func TestRevealIsIdempotent(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t, testWord(t, "一", domain.StatusLearning))
	require.NoError(t, session.Start())

	assert.False(t, session.Revealed())
	session.Reveal()
	session.Reveal()
	assert.True(t, session.Revealed())
}

func TestJudgeStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prior   domain.Status
		outcome domain.Outcome
		want    domain.Status
	}{
		{"correct overwrites often_forget", domain.StatusOftenForget, domain.OutcomeCorrect, domain.StatusKnowWell},
		{"correct overwrites learning", domain.StatusLearning, domain.OutcomeCorrect, domain.StatusKnowWell},
		{"incorrect demotes know_well", domain.StatusKnowWell, domain.OutcomeIncorrect, domain.StatusOftenForget},
		{"skip resets to learning", domain.StatusOftenForget, domain.OutcomeSkip, domain.StatusLearning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			word := testWord(t, "語", tt.prior)
			updater := &fakeUpdater{}
			session := learn.NewSession(&fakeSource{words: []*domain.Word{word}}, updater, testLogger())
			for _, status := range domain.AllStatuses {
				if session.Filters()[status] != (status == tt.prior) {
					session.ToggleFilter(status)
				}
			}
			require.NoError(t, session.Start())

			session.Reveal()
			require.NoError(t, session.Judge(context.Background(), tt.outcome))
			assert.Equal(t, tt.want, updater.transitions[word.ID])
		})
	}
}

func TestFullSessionStatsAccounting(t *testing.T) {
	t.Parallel()

	words := []*domain.Word{
		testWord(t, "一", domain.StatusLearning),
		testWord(t, "二", domain.StatusLearning),
		testWord(t, "三", domain.StatusOftenForget),
		testWord(t, "四", domain.StatusOftenForget),
		testWord(t, "五", domain.StatusLearning),
	}
	session, _ := newTestSession(t, words...)
	require.NoError(t, session.Start())

	outcomes := []domain.Outcome{
		domain.OutcomeCorrect,
		domain.OutcomeIncorrect,
		domain.OutcomeSkip,
		domain.OutcomeCorrect,
		domain.OutcomeIncorrect,
	}
	for _, outcome := range outcomes {
		session.Reveal()
		require.NoError(t, session.Judge(context.Background(), outcome))
	}

	assert.Equal(t, learn.PhaseSessionComplete, session.Phase())
	stats := session.Stats()
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Correct)
	assert.Equal(t, 2, stats.Incorrect)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, stats.Total, stats.Correct+stats.Incorrect+stats.Skipped)
}

func TestJudgeCountsCardOnlyOnce(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t,
		testWord(t, "一", domain.StatusLearning),
		testWord(t, "二", domain.StatusLearning),
	)
	require.NoError(t, session.Start())

	// Judge the first card, then restart and judge everything: the
	// completed set resets with the pass, never double-counting within
	// one pass.
	session.Reveal()
	require.NoError(t, session.Judge(context.Background(), domain.OutcomeCorrect))
	require.NoError(t, session.Restart())

	for session.Phase() == learn.PhaseInSession {
		session.Reveal()
		require.NoError(t, session.Judge(context.Background(), domain.OutcomeSkip))
	}
	assert.Equal(t, 2, session.Stats().Total)
}

func TestSkipReachableBeforeReveal(t *testing.T) {
	t.Parallel()

	session, updater := newTestSession(t, testWord(t, "一", domain.StatusOftenForget))
	require.NoError(t, session.Start())

	card, ok := session.Current()
	require.True(t, ok)

	// Skip is an explicit escape that does not require reveal.
	require.NoError(t, session.Judge(context.Background(), domain.OutcomeSkip))
	assert.Equal(t, domain.StatusLearning, updater.transitions[card.ID])
	assert.Equal(t, 1, session.Stats().Skipped)
}

func TestProgressComputedPreAdvance(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t,
		testWord(t, "一", domain.StatusLearning),
		testWord(t, "二", domain.StatusLearning),
		testWord(t, "三", domain.StatusLearning),
		testWord(t, "四", domain.StatusLearning),
	)
	require.NoError(t, session.Start())

	assert.InDelta(t, 0.0, session.Progress(), 0.001)
	require.NoError(t, session.Judge(context.Background(), domain.OutcomeSkip))
	assert.InDelta(t, 25.0, session.Progress(), 0.001)
	require.NoError(t, session.Judge(context.Background(), domain.OutcomeSkip))
	assert.InDelta(t, 50.0, session.Progress(), 0.001)
}

func TestRestartResnapshots(t *testing.T) {
	t.Parallel()

	source := &fakeSource{words: []*domain.Word{testWord(t, "一", domain.StatusLearning)}}
	updater := &fakeUpdater{}
	session := learn.NewSession(source, updater, testLogger())
	require.NoError(t, session.Start())
	require.Equal(t, 1, session.DeckSize())

	// The store grows mid-session; the active deck must not change,
	// but a restart re-snapshots.
	source.words = append(source.words, testWord(t, "二", domain.StatusLearning))
	assert.Equal(t, 1, session.DeckSize())

	require.NoError(t, session.Restart())
	assert.Equal(t, learn.PhaseInSession, session.Phase())
	assert.Equal(t, 2, session.DeckSize())
	assert.Equal(t, learn.Stats{}, session.Stats())
}

func TestBackToFiltersPreservesSelection(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t, testWord(t, "一", domain.StatusLearning))
	session.ToggleFilter(domain.StatusKnowWell)
	require.NoError(t, session.Start())

	session.BackToFilters()
	assert.Equal(t, learn.PhaseSelectingFilters, session.Phase())
	assert.True(t, session.Filters()[domain.StatusKnowWell])
	assert.Equal(t, 0, session.DeckSize())
	assert.Equal(t, learn.Stats{}, session.Stats())
}

func TestJudgeToleratesUpdaterFailure(t *testing.T) {
	t.Parallel()

	word := testWord(t, "一", domain.StatusLearning)
	updater := &fakeUpdater{err: assert.AnError}
	session := learn.NewSession(&fakeSource{words: []*domain.Word{word}}, updater, testLogger())
	require.NoError(t, session.Start())

	session.Reveal()
	err := session.Judge(context.Background(), domain.OutcomeCorrect)

	var svcErr *learn.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.ErrorIs(t, err, assert.AnError)

	// The session still advanced and the judgment was recorded.
	assert.Equal(t, learn.PhaseSessionComplete, session.Phase())
	assert.Equal(t, 1, session.Stats().Correct)
}

func TestJudgeRejectsInvalidOutcome(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t, testWord(t, "一", domain.StatusLearning))
	require.NoError(t, session.Start())

	err := session.Judge(context.Background(), domain.Outcome("almost"))
	assert.ErrorIs(t, err, domain.ErrInvalidOutcome)
	assert.Equal(t, 0, session.Stats().Total)
}

func TestIllegalPhaseCallsPanic(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t, testWord(t, "一", domain.StatusLearning))

	assert.Panics(t, func() { session.Reveal() })
	assert.Panics(t, func() { _ = session.Judge(context.Background(), domain.OutcomeSkip) })
	assert.Panics(t, func() { _ = session.Restart() })
	assert.Panics(t, func() { session.BackToFilters() })

	require.NoError(t, session.Start())
	assert.Panics(t, func() { _ = session.Start() })
}
