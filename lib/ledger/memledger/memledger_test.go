package memledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bhoomi/landreg/lib/ledger/types"
)

func TestSubmitEvaluate(t *testing.T) {
	l := New()

	if _, err := l.Submit(types.OpCreateParcel, "ULPIN-0001", "120", "loc", "OWNER-A", ""); err != nil {
		t.Fatalf("Submit: %e", err)
	}

	doc, err := l.Evaluate(types.OpQueryParcel, "ULPIN-0001")
	if err != nil {
		t.Fatalf("Evaluate: %e", err)
	}

	var p types.Parcel
	if err = json.Unmarshal(doc, &p); err != nil || p.ULPIN != "ULPIN-0001" {
		t.Errorf("unexpected parcel: %+v err:%e", p, err)
	}

	// mutating operations are rejected on the read path
	if _, err = l.Evaluate(types.OpCreateParcel, "ULPIN-0002", "10", "loc", "OWNER-A", ""); !errors.Is(err, types.ErrValidation) {
		t.Errorf("Evaluate of mutating op should fail validation, got %e", err)
	}

	if err = l.Close(); err != nil {
		t.Errorf("Close: %e", err)
	}
}

// TestConcurrentSubmits hammers the one-pending-transfer rule from many goroutines; exactly one initiate per
// round may win.
func TestConcurrentSubmits(t *testing.T) {
	l := New()

	if _, err := l.Submit(types.OpCreateParcel, "ULPIN-0001", "120", "loc", "OWNER-A", ""); err != nil {
		t.Fatalf("Submit: %e", err)
	}

	owners := `[{"ownerId":"OWNER-B","ownershipType":"FULL","sharePercentage":100}]`

	const n = 16

	var wg sync.WaitGroup

	var mu sync.Mutex

	var won int

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, err := l.Submit(types.OpInitiateTransfer, fmt.Sprintf("REQ-%02d", i), "ULPIN-0001", owners, "")
			if err == nil {
				mu.Lock()
				won++
				mu.Unlock()
			} else if !errors.Is(err, types.ErrInvalidState) {
				t.Errorf("unexpected error: %e", err)
			}
		}(i)
	}

	wg.Wait()

	if won != 1 {
		t.Errorf("%d initiates won, expected exactly 1", won)
	}
}

// TestStateIsolation checks committed state cannot be mutated through returned documents.
func TestStateIsolation(t *testing.T) {
	l := New()

	doc, err := l.Submit(types.OpCreateParcel, "ULPIN-0001", "120", "loc", "OWNER-A", "")
	if err != nil {
		t.Fatalf("Submit: %e", err)
	}

	for i := range doc {
		doc[i] = 'x'
	}

	doc2, err := l.Evaluate(types.OpQueryParcel, "ULPIN-0001")
	if err != nil {
		t.Fatalf("Evaluate: %e", err)
	}

	var p types.Parcel
	if err = json.Unmarshal(doc2, &p); err != nil || p.ULPIN != "ULPIN-0001" {
		t.Errorf("committed state was aliased: %+v err:%e", p, err)
	}
}
