// Package examples orchestrates example-sentence production for
// vocabulary words across the provider tiers: stored examples, the AI
// provider, grammatical templates, and the basic fallback.
package examples
