package ipfs

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bhoomi/landreg/lib/docstore"
)

// mockNode is a minimal IPFS node: add hashes (and optionally stores) the uploaded file, cat serves stored
// content. When tamper is set, cat serves different bytes than were stored.
type mockNode struct {
	docs   map[string][]byte
	tamper bool
}

func (n *mockNode) handler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v0/add":
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		b, _ := io.ReadAll(f)
		sum := sha256.Sum256(b)
		cid := "Qm" + hex.EncodeToString(sum[:8])

		if r.URL.Query().Get("only-hash") != "true" {
			n.docs[cid] = b
		}

		fmt.Fprintf(w, `{"Name":"doc","Hash":"%s","Size":"%d"}`, cid, len(b))
	case "/api/v0/cat":
		b, ok := n.docs[r.URL.Query().Get("arg")]
		if !ok {
			http.Error(w, "not found", http.StatusInternalServerError)

			return
		}

		if n.tamper {
			b = append([]byte("evil "), b...)
		}
		_, _ = w.Write(b)
	default:
		http.Error(w, "bad path", http.StatusNotFound)
	}
}

func TestPutGet(t *testing.T) {
	node := &mockNode{docs: make(map[string][]byte)}
	mock := httptest.NewServer(http.HandlerFunc(node.handler))
	defer mock.Close()

	s, err := New(mock.URL)
	if err != nil {
		t.Fatalf("New: %e", err)
	}
	defer s.Close()

	deed := []byte("registered sale deed")

	cid, err := s.Put(deed)
	if err != nil || cid == "" {
		t.Fatalf("Put returned %q err:%e", cid, err)
	}

	// content-addressed: same bytes, same digest
	if cid2, _ := s.Put(deed); cid2 != cid {
		t.Errorf("second put returned %s, expected %s", cid2, cid)
	}

	got, err := s.Get(cid)
	if err != nil || !bytes.Equal(got, deed) {
		t.Errorf("Get returned %q err:%e", got, err)
	}

	if _, err = s.Get("QmMissing"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("missing cid: %e", err)
	}
}

func TestIntegrity(t *testing.T) {
	node := &mockNode{docs: make(map[string][]byte)}
	mock := httptest.NewServer(http.HandlerFunc(node.handler))
	defer mock.Close()

	s, err := New(mock.URL)
	if err != nil {
		t.Fatalf("New: %e", err)
	}

	cid, err := s.Put([]byte("original"))
	if err != nil {
		t.Fatalf("Put: %e", err)
	}

	node.tamper = true

	if _, err = s.Get(cid); !errors.Is(err, docstore.ErrIntegrity) {
		t.Errorf("tampered content should fail integrity, got %e", err)
	}
}

func TestUnavailable(t *testing.T) {
	if _, err := New(""); !errors.Is(err, docstore.ErrUnavailable) {
		t.Errorf("New without node: %e", err)
	}

	s, err := New("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("New: %e", err)
	}

	if _, err = s.Put([]byte("x")); !errors.Is(err, docstore.ErrUnavailable) {
		t.Errorf("unreachable node on Put: %e", err)
	}

	if _, err = s.Get("QmX"); !errors.Is(err, docstore.ErrUnavailable) {
		t.Errorf("unreachable node on Get: %e", err)
	}
}
