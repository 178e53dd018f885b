package memstore

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bhoomi/landreg/lib/digest"
	"github.com/bhoomi/landreg/lib/docstore"
)

func TestPutGet(t *testing.T) {
	m := New()

	deed := []byte("registered sale deed")

	d, err := m.Put(deed)
	if err != nil {
		t.Fatalf("Put: %e", err)
	}

	if d != digest.Bytes(deed) {
		t.Errorf("digest mismatch: %s", d)
	}

	// same bytes, same digest
	if d2, _ := m.Put(deed); d2 != d {
		t.Errorf("second put returned %s, expected %s", d2, d)
	}

	got, err := m.Get(d)
	if err != nil || !bytes.Equal(got, deed) {
		t.Errorf("Get returned %q err:%e", got, err)
	}

	if _, err = m.Get("deadbeef"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("missing digest: %e", err)
	}
}

func TestIntegrity(t *testing.T) {
	m := New()

	d, err := m.Put([]byte("original"))
	if err != nil {
		t.Fatalf("Put: %e", err)
	}

	m.Corrupt(d, []byte("tampered"))

	if _, err = m.Get(d); !errors.Is(err, docstore.ErrIntegrity) {
		t.Errorf("corrupted content should fail integrity, got %e", err)
	}
}
