// Package docstore defines the interface for the content-addressed document store holding deeds and supporting
// documents. Only digests returned by Put are recorded on the ledger; callers must never fabricate one.
package docstore

import (
	"errors"
)

// Store is a content-addressed blob store. Put returns the digest the content is retrievable under; the digest is
// a function of the bytes alone, stable across calls and restarts. Get verifies the returned content against the
// requested digest and fails rather than return wrong bytes. Implementations are safe for concurrent use.
type Store interface {
	Put(b []byte) (string, error)
	Get(digest string) ([]byte, error)
	Close() error
}

// Errors returned
var (
	ErrNotFound    = errors.New("document was not found in store")
	ErrUnavailable = errors.New("document store not available")
	ErrIntegrity   = errors.New("document content does not match its digest")
)
