// Package store defines the interface for database implementations of the anchor outbox used by the registry and
// anchorer microservices.
package store

import (
	"errors"
)

// DB persists anchor records: the durable outbox of proofs awaiting submission to the public chains. Anchor
// records are derived state; losing them never invalidates the authoritative ledger records they describe.
// PendingAnchors returns records in the order they were saved so per-asset anchor ordering is preserved.
type DB interface {
	SaveAnchor(r AnchorRecord) (string, error)
	PendingAnchors(net string, max int) ([]AnchorRecord, error)
	SetAttempts(id string, attempts int) error
	MarkAnchored(id, txRef string) error
	MarkFailed(id string) error
	GetAnchors(assetID string) ([]AnchorRecord, error)
}

// Errors returned
var (
	ErrDataNotFound = errors.New("data was not found in store")
)
