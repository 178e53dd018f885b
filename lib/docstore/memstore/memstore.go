// Package memstore implements the document store interface in memory, keyed by sha256. It backs development
// setups and tests.
package memstore

import (
	"fmt"
	"sync"

	"github.com/bhoomi/landreg/lib/digest"
	"github.com/bhoomi/landreg/lib/docstore"
)

// Mem is an in-memory content-addressed store. Safe for concurrent use.
type Mem struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// New returns an empty in-memory store.
func New() *Mem {
	return &Mem{docs: make(map[string][]byte)}
}

// Put stores b under its sha256 digest. Storing the same bytes twice is a no-op returning the same digest.
func (m *Mem) Put(b []byte) (string, error) {
	d := digest.Bytes(b)
	cp := make([]byte, len(b))
	copy(cp, b)
	m.mu.Lock()
	m.docs[d] = cp
	m.mu.Unlock()
	return d, nil
}

// Get returns the bytes stored under the given digest, re-deriving the digest on read to catch corrupted or
// substituted content.
func (m *Mem) Get(d string) ([]byte, error) {
	m.mu.RLock()
	b, ok := m.docs[d]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", docstore.ErrNotFound, d)
	}
	if digest.Bytes(b) != d {
		return nil, fmt.Errorf("%w: %s", docstore.ErrIntegrity, d)
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

// Close is a no-op.
func (m *Mem) Close() error {
	return nil
}

// Corrupt overwrites the content stored under digest without re-keying it. Only used by tests to exercise the
// integrity check.
func (m *Mem) Corrupt(d string, b []byte) {
	m.mu.Lock()
	m.docs[d] = b
	m.mu.Unlock()
}
