// Package generation defines the boundary between the application core
// and the example-sentence producers: the SentenceProvider interface,
// the Sentence value it yields, and the error taxonomy shared by all
// provider implementations.
package generation
