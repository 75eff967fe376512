// Package events provides types and interfaces for an event-driven architecture.
//
// This package defines event types and handler interfaces that allow for loose coupling
// between components in the system. The vocabulary store can announce mutations without
// knowing which handlers will process them, which is how the sync reconciler observes
// local changes without the store depending on it.
//
// The primary components are:
// - VocabularyChangedEvent: Announces a mutation of the vocabulary collection
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
