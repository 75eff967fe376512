// Package store holds the canonical vocabulary collection and its
// persistence path. The collection lives in memory; every mutation is
// serialized in full to the key-value collaborator and announced to
// registered observers through the events package.
package store
