// Package sheetsync reconciles the local vocabulary collection against
// a user-owned spreadsheet. Divergence is classified with a cheap
// content fingerprint (offline/pending/synced) rather than remote
// queries; the write path is OAuth-gated with a CSV export fallback,
// and the read path never destroys local data on an empty remote.
package sheetsync
