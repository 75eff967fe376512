// Package gemini provides a generation.SentenceProvider backed by
// Google's Gemini API. Calls are retried with exponential backoff and
// jitter; responses are requested in a fixed SENTENCE/READING/ENGLISH
// layout and parsed into the display form used across the app.
package gemini
