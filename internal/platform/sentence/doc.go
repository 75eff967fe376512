// Package sentence provides an offline generation.SentenceProvider
// built on grammatical templates. kagome's morphological analysis
// picks the template family for a word when its English meaning gives
// no topical hint.
package sentence
