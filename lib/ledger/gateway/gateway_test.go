package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bhoomi/landreg/lib/ledger/types"
)

// mockHandler replays canned gateway responses keyed by the requested operation.
var mockHandler = func(w http.ResponseWriter, r *http.Request) {
	var req invokeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch req.Fn {
	case types.OpQueryParcel:
		_, _ = w.Write([]byte(`{"result":{"docType":"parcel","ulpin":"ULPIN-0001"}}`))
	case types.OpCreateParcel:
		_, _ = w.Write([]byte(`{"error":{"code":"ALREADY_EXISTS","message":"the parcel ULPIN-0001 already exists"}}`))
	case types.OpQueryUnit:
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"the unit UNIT-01 does not exist"}}`))
	case types.OpApproveTransfer:
		_, _ = w.Write([]byte(`{"error":{"code":"INVALID_STATE","message":"the transfer request REQ-1 is already APPROVED"}}`))
	default:
		_, _ = w.Write([]byte(`{"error":{"code":"BOOM","message":"peer exploded"}}`))
	}
}

func TestInvoke(t *testing.T) {
	mock := httptest.NewServer(http.HandlerFunc(mockHandler))
	defer mock.Close()

	g, err := New(mock.URL, "landregistry", "parcel")
	if err != nil {
		t.Fatalf("New: %e", err)
	}
	defer g.Close()

	// result path
	doc, err := g.Evaluate(types.OpQueryParcel, "ULPIN-0001")
	if err != nil {
		t.Fatalf("Evaluate: %e", err)
	}

	var p types.Parcel
	if err = json.Unmarshal(doc, &p); err != nil || p.ULPIN != "ULPIN-0001" {
		t.Errorf("unexpected parcel: %+v err:%e", p, err)
	}

	// wire errors map onto the closed error set
	cases := []struct {
		name string
		op   string
		err  error
	}{
		{"already exists", types.OpCreateParcel, types.ErrAlreadyExists},
		{"not found", types.OpQueryUnit, types.ErrNotFound},
		{"invalid state", types.OpApproveTransfer, types.ErrInvalidState},
		{"unknown code", "Garbage", types.ErrUnavailable},
	}

	for _, c := range cases {
		if _, err = g.Submit(c.op, "x"); !errors.Is(err, c.err) {
			t.Errorf("[%s] got %e, expected %e", c.name, err, c.err)
		}
	}
}

func TestUnreachable(t *testing.T) {
	if _, err := New("", "ch", "cc"); !errors.Is(err, types.ErrUnavailable) {
		t.Errorf("New without node: %e", err)
	}

	g, err := New("http://127.0.0.1:1", "ch", "cc")
	if err != nil {
		t.Fatalf("New: %e", err)
	}

	if _, err = g.Evaluate(types.OpQueryParcel, "ULPIN-0001"); !errors.Is(err, types.ErrUnavailable) {
		t.Errorf("unreachable gateway: %e", err)
	}
}
