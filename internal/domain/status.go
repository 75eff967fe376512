package domain

import "fmt"

// Status represents how well the user currently knows a word.
type Status string

// Valid word statuses.
const (
	StatusOftenForget Status = "often_forget"
	StatusLearning    Status = "learning"
	StatusKnowWell    Status = "know_well"
)

// AllStatuses lists every valid status in display order.
var AllStatuses = []Status{StatusOftenForget, StatusLearning, StatusKnowWell}

// Valid reports whether the status is one of the three known values.
func (s Status) Valid() bool {
	switch s {
	case StatusOftenForget, StatusLearning, StatusKnowWell:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a Status.
// Returns ErrInvalidStatus for anything outside the three known values.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Outcome represents the user's judgment of a card during a learning
// session.
type Outcome string

// Valid session judgments.
const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeSkip      Outcome = "skip"
)

// Valid reports whether the outcome is one of the three known values.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeCorrect, OutcomeIncorrect, OutcomeSkip:
		return true
	}
	return false
}

// Status returns the word status a judgment drives the word into.
// The mapping is an unconditional overwrite: a single correct answer
// marks the word known well, a single miss demotes it to often_forget,
// and a skip resets it to learning. Prior status is never consulted.
func (o Outcome) Status() Status {
	switch o {
	case OutcomeCorrect:
		return StatusKnowWell
	case OutcomeIncorrect:
		return StatusOftenForget
	default:
		return StatusLearning
	}
}
