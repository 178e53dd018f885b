package memory

import (
	"errors"
	"testing"

	"github.com/bhoomi/landreg/lib/store"
)

func TestAnchorLifecycle(t *testing.T) {
	m := New()

	id1, err := m.SaveAnchor(store.AnchorRecord{Net: "sepolia", AssetID: "ULPIN-0001", EventType: "CREATE", Digest: "d1"})
	if err != nil {
		t.Fatalf("SaveAnchor: %e", err)
	}

	id2, err := m.SaveAnchor(store.AnchorRecord{Net: "sepolia", AssetID: "ULPIN-0001", EventType: "TRANSFER", Digest: "d2"})
	if err != nil {
		t.Fatalf("SaveAnchor: %e", err)
	}

	if _, err = m.SaveAnchor(store.AnchorRecord{Net: "goerli", AssetID: "ULPIN-0002", EventType: "CREATE", Digest: "d3"}); err != nil {
		t.Fatalf("SaveAnchor: %e", err)
	}

	// pending records come back oldest first and filtered by network
	recs, err := m.PendingAnchors("sepolia", 10)
	if err != nil {
		t.Fatalf("PendingAnchors: %e", err)
	}

	if len(recs) != 2 || recs[0].ID != id1 || recs[1].ID != id2 {
		t.Errorf("pending records out of order: %+v", recs)
	}

	if recs[0].Status != store.AnchorPending || recs[0].SubmittedAt == 0 {
		t.Errorf("record not saved as pending: %+v", recs[0])
	}

	// max limits the batch
	if recs, err = m.PendingAnchors("sepolia", 1); err != nil || len(recs) != 1 {
		t.Errorf("PendingAnchors with max 1 returned %d records, error %e", len(recs), err)
	}

	if err = m.SetAttempts(id1, 3); err != nil {
		t.Errorf("SetAttempts: %e", err)
	}

	if err = m.MarkAnchored(id1, "0xabc"); err != nil {
		t.Errorf("MarkAnchored: %e", err)
	}

	if err = m.MarkFailed(id2); err != nil {
		t.Errorf("MarkFailed: %e", err)
	}

	if recs, err = m.PendingAnchors("sepolia", 10); err != nil || len(recs) != 0 {
		t.Errorf("expected no pending records, got %d, error %e", len(recs), err)
	}

	// asset history keeps decided records
	recs, err = m.GetAnchors("ULPIN-0001")
	if err != nil || len(recs) != 2 {
		t.Fatalf("GetAnchors returned %d records, error %e", len(recs), err)
	}

	if recs[0].Status != store.AnchorConfirmed || recs[0].TxRef != "0xabc" || recs[0].Attempts != 3 ||
		recs[0].ConfirmedAt == 0 {
		t.Errorf("confirmed record not updated: %+v", recs[0])
	}

	if recs[1].Status != store.AnchorFailed {
		t.Errorf("failed record not updated: %+v", recs[1])
	}
}

func TestNotFound(t *testing.T) {
	m := New()

	if err := m.MarkAnchored("nope", "0x0"); !errors.Is(err, store.ErrDataNotFound) {
		t.Errorf("expected ErrDataNotFound, got %e", err)
	}

	if err := m.SetAttempts("nope", 1); !errors.Is(err, store.ErrDataNotFound) {
		t.Errorf("expected ErrDataNotFound, got %e", err)
	}
}
