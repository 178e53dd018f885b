// Package memory implements the anchor outbox in memory. It backs development setups and tests; records do not
// survive the process.
package memory

import (
	"strconv"
	"sync"
	"time"

	"github.com/bhoomi/landreg/lib/store"
)

// Memory is an in-memory outbox. Safe for concurrent use.
type Memory struct {
	mu   sync.Mutex
	seq  int64
	recs []store.AnchorRecord
}

// New returns an empty in-memory outbox.
func New() *Memory {
	return &Memory{}
}

// SaveAnchor appends the record in PENDING state, assigning its id and sequence.
func (m *Memory) SaveAnchor(r store.AnchorRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	r.ID = strconv.FormatInt(m.seq, 10)
	r.Seq = m.seq
	r.Status = store.AnchorPending
	r.SubmittedAt = time.Now().Unix()
	m.recs = append(m.recs, r)
	return r.ID, nil
}

// PendingAnchors returns up to max pending records for net, oldest first.
func (m *Memory) PendingAnchors(net string, max int) ([]store.AnchorRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.AnchorRecord{}
	for _, r := range m.recs {
		if r.Net == net && r.Status == store.AnchorPending {
			out = append(out, r)
			if len(out) == max {
				break
			}
		}
	}
	return out, nil
}

// SetAttempts records the attempt count of a pending record.
func (m *Memory) SetAttempts(id string, attempts int) error {
	return m.update(id, func(r *store.AnchorRecord) {
		r.Attempts = attempts
	})
}

// MarkAnchored confirms the record with its public chain transaction reference.
func (m *Memory) MarkAnchored(id, txRef string) error {
	return m.update(id, func(r *store.AnchorRecord) {
		r.Status = store.AnchorConfirmed
		r.TxRef = txRef
		r.ConfirmedAt = time.Now().Unix()
	})
}

// MarkFailed marks the record as failed for good.
func (m *Memory) MarkFailed(id string) error {
	return m.update(id, func(r *store.AnchorRecord) {
		r.Status = store.AnchorFailed
	})
}

// GetAnchors returns all records for the given asset, oldest first.
func (m *Memory) GetAnchors(assetID string) ([]store.AnchorRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.AnchorRecord{}
	for _, r := range m.recs {
		if r.AssetID == assetID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) update(id string, f func(*store.AnchorRecord)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recs {
		if m.recs[i].ID == id {
			f(&m.recs[i])
			return nil
		}
	}
	return store.ErrDataNotFound
}
