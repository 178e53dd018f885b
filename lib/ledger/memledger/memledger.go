// Package memledger runs the land-registry contract against in-memory state. A single write lock makes every
// submitted operation linearizable, mirroring the per-key ordering guarantee the real ledger's consensus provides.
// It backs development setups and tests; it is not durable.
package memledger

import (
	"fmt"
	"sync"

	"github.com/bhoomi/landreg/lib/ledger/contract"
	"github.com/bhoomi/landreg/lib/ledger/types"
)

// MemLedger is an in-process ledger. Safe for concurrent use.
type MemLedger struct {
	mu sync.RWMutex
	st *memState
}

// memState is the contract.State over a plain map. Values are copied on read and write so callers can never alias
// committed state.
type memState struct {
	kv map[string][]byte
}

func (s *memState) Get(key string) ([]byte, error) {
	b, ok := s.kv[key]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (s *memState) Put(key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	s.kv[key] = cp
	return nil
}

func (s *memState) Del(key string) error {
	delete(s.kv, key)
	return nil
}

// New returns an empty in-process ledger.
func New() *MemLedger {
	return &MemLedger{st: &memState{kv: make(map[string][]byte)}}
}

// Submit runs a state-changing operation under the write lock.
func (l *MemLedger) Submit(op string, args ...string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return contract.Invoke(l.st, op, args)
}

// Evaluate runs a read-only operation. Mutating operations are rejected so reads can share the lock.
func (l *MemLedger) Evaluate(op string, args ...string) ([]byte, error) {
	if !contract.IsQuery(op) {
		return nil, fmt.Errorf("%w: %s is not a read-only operation", types.ErrValidation, op)
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return contract.Invoke(l.st, op, args)
}

// Close is a no-op; memory state simply goes away with the process.
func (l *MemLedger) Close() error {
	return nil
}
