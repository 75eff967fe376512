package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Mutation operations announced by the vocabulary store.
const (
	OpAdd           = "add"
	OpUpdateStatus  = "update_status"
	OpRemove        = "remove"
	OpAppendExample = "append_example"
	OpReplace       = "replace"
)

// VocabularyChangedEvent announces a single mutation of the vocabulary
// collection. It carries enough information for observers to decide
// whether and how to react without a direct dependency on the store.
type VocabularyChangedEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Op is the mutation operation, one of the Op* constants
	Op string `json:"op"`

	// WordID identifies the affected word; empty for collection-wide
	// operations such as OpReplace
	WordID string `json:"word_id,omitempty"`

	// OccurredAt is the timestamp when the mutation happened
	OccurredAt time.Time `json:"occurred_at"`
}

// NewVocabularyChangedEvent creates a new event for the given operation
// and affected word.
func NewVocabularyChangedEvent(op, wordID string) *VocabularyChangedEvent {
	return &VocabularyChangedEvent{
		ID:         uuid.New(),
		Op:         op,
		WordID:     wordID,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *VocabularyChangedEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows the store to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *VocabularyChangedEvent) error
}
