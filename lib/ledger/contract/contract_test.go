package contract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/bhoomi/landreg/lib/ledger/types"
)

// mapState is the simplest possible State for exercising the rules.
type mapState map[string][]byte

func (s mapState) Get(key string) ([]byte, error) { return s[key], nil }

func (s mapState) Put(key string, value []byte) error {
	s[key] = value

	return nil
}

func (s mapState) Del(key string) error {
	delete(s, key)

	return nil
}

func mustInvoke(t *testing.T, st State, op string, args ...string) []byte {
	t.Helper()

	doc, err := Invoke(st, op, args)
	if err != nil {
		t.Fatalf("%s%v: %e", op, args, err)
	}

	return doc
}

func TestParcelLifecycle(t *testing.T) {
	st := mapState{}

	doc := mustInvoke(t, st, types.OpCreateParcel, "ULPIN-0001", "120.5", `{"type":"Point"}`, "OWNER-A", "h1")

	var p types.Parcel
	if err := json.Unmarshal(doc, &p); err != nil {
		t.Fatalf("cannot decode parcel: %e", err)
	}

	if p.DocType != types.DocTypeParcel || p.Status != types.StatusActive || p.DocHash != "h1" ||
		len(p.Owners) != 1 || p.Owners[0].OwnershipType != types.OwnerFull || p.Owners[0].SharePercentage != 100 {
		t.Errorf("unexpected parcel: %+v", p)
	}

	if p.Encumbrances == nil || p.Disputes == nil || p.LastUpdated == 0 {
		t.Errorf("sets not initialised: %+v", p)
	}

	// duplicate ULPIN
	_, err := Invoke(st, types.OpCreateParcel, []string{"ULPIN-0001", "10", "x", "OWNER-B", ""})
	if !errors.Is(err, types.ErrAlreadyExists) {
		t.Errorf("duplicate create: %e", err)
	}

	// query round trip
	doc = mustInvoke(t, st, types.OpQueryParcel, "ULPIN-0001")
	if err = json.Unmarshal(doc, &p); err != nil || p.ULPIN != "ULPIN-0001" {
		t.Errorf("query parcel: %+v err:%e", p, err)
	}

	if b := mustInvoke(t, st, types.OpParcelExists, "ULPIN-0001"); string(b) != "true" {
		t.Errorf("exists should be true, got %s", b)
	}

	if b := mustInvoke(t, st, types.OpParcelExists, "ULPIN-9999"); string(b) != "false" {
		t.Errorf("exists should be false, got %s", b)
	}

	// status transitions move freely between valid states
	for _, s := range []string{types.StatusFrozen, types.StatusGovernment, types.StatusActive} {
		doc = mustInvoke(t, st, types.OpUpdateStatus, "ULPIN-0001", s)
		if err = json.Unmarshal(doc, &p); err != nil || p.Status != s {
			t.Errorf("status update to %s: %+v err:%e", s, p, err)
		}
	}

	if _, err = Invoke(st, types.OpUpdateStatus, []string{"ULPIN-0001", "MELTED"}); !errors.Is(err, types.ErrValidation) {
		t.Errorf("invalid status: %e", err)
	}
}

func TestCreateParcelValidation(t *testing.T) {
	cases := []struct {
		name string
		args []string
		err  error
	}{
		{"empty id", []string{"", "10", "x", "O", ""}, types.ErrValidation},
		{"bad id chars", []string{"ULPIN 01", "10", "x", "O", ""}, types.ErrValidation},
		{"zero area", []string{"ULPIN-01", "0", "x", "O", ""}, types.ErrValidation},
		{"negative area", []string{"ULPIN-01", "-3", "x", "O", ""}, types.ErrValidation},
		{"area not a number", []string{"ULPIN-01", "ten", "x", "O", ""}, types.ErrValidation},
		{"empty owner", []string{"ULPIN-01", "10", "x", "", ""}, types.ErrValidation},
		{"bad argc", []string{"ULPIN-01"}, types.ErrValidation},
	}

	for _, c := range cases {
		st := mapState{}
		if _, err := Invoke(st, types.OpCreateParcel, c.args); !errors.Is(err, c.err) {
			t.Errorf("[%s] got %e, expected %e", c.name, err, c.err)
		}
	}
}

func TestUnits(t *testing.T) {
	st := mapState{}
	mustInvoke(t, st, types.OpCreateParcel, "ULPIN-0001", "120", "loc", "OWNER-A", "")

	// parent must exist
	_, err := Invoke(st, types.OpCreateUnit, []string{"UNIT-01", "ULPIN-9999", "25", "OWNER-B", ""})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unit under missing parcel: %e", err)
	}

	doc := mustInvoke(t, st, types.OpCreateUnit, "UNIT-01", "ULPIN-0001", "25", "OWNER-B", "h2")

	var u types.Unit
	if err = json.Unmarshal(doc, &u); err != nil {
		t.Fatalf("cannot decode unit: %e", err)
	}

	if u.DocType != types.DocTypeUnit || u.ParentULPIN != "ULPIN-0001" || u.UDS != 25 ||
		u.Status != types.StatusActive {
		t.Errorf("unexpected unit: %+v", u)
	}

	mustInvoke(t, st, types.OpCreateUnit, "UNIT-02", "ULPIN-0001", "30", "OWNER-C", "")

	// parcel index returns both units
	doc = mustInvoke(t, st, types.OpQueryUnitsByParcel, "ULPIN-0001")

	var units []types.Unit
	if err = json.Unmarshal(doc, &units); err != nil || len(units) != 2 {
		t.Errorf("expected 2 units, got %+v err:%e", units, err)
	}

	// units only freeze and reactivate
	mustInvoke(t, st, types.OpUpdateUnitStatus, "UNIT-01", types.StatusFrozen)

	if _, err = Invoke(st, types.OpUpdateUnitStatus, []string{"UNIT-01", types.StatusGovernment}); !errors.Is(err, types.ErrValidation) {
		t.Errorf("unit status GOVERNMENT should fail validation, got %e", err)
	}

	// a unit id is not a parcel
	if _, err = Invoke(st, types.OpQueryParcel, []string{"UNIT-01"}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unit queried as parcel: %e", err)
	}
}

func TestTransferRules(t *testing.T) {
	st := mapState{}
	mustInvoke(t, st, types.OpCreateParcel, "ULPIN-0001", "120", "loc", "OWNER-A", "")

	joint := `[{"ownerId":"OWNER-B","ownershipType":"JOINT","sharePercentage":60},
		{"ownerId":"OWNER-C","ownershipType":"JOINT","sharePercentage":40}]`

	// proposed owners must sum to exactly 100
	_, err := Invoke(st, types.OpInitiateTransfer, []string{"REQ-1", "ULPIN-0001",
		`[{"ownerId":"OWNER-B","ownershipType":"JOINT","sharePercentage":55}]`, ""})
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("shares not summing to 100: %e", err)
	}

	// FULL means one owner at 100
	_, err = Invoke(st, types.OpInitiateTransfer, []string{"REQ-1", "ULPIN-0001",
		`[{"ownerId":"OWNER-B","ownershipType":"FULL","sharePercentage":60},
		{"ownerId":"OWNER-C","ownershipType":"FULL","sharePercentage":40}]`, ""})
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("two FULL owners: %e", err)
	}

	mustInvoke(t, st, types.OpInitiateTransfer, "REQ-1", "ULPIN-0001", joint, `["doc1"]`)

	// only one pending transfer per asset
	_, err = Invoke(st, types.OpInitiateTransfer, []string{"REQ-2", "ULPIN-0001", joint, ""})
	if !errors.Is(err, types.ErrInvalidState) {
		t.Errorf("second pending transfer: %e", err)
	}

	// approval replaces owners and decides the request together
	doc := mustInvoke(t, st, types.OpApproveTransfer, "REQ-1", "registrar-1")

	var req types.TransferRequest
	if err = json.Unmarshal(doc, &req); err != nil {
		t.Fatalf("cannot decode request: %e", err)
	}

	if req.Status != types.TransferApproved || req.Approver != "registrar-1" || req.DecidedAt == 0 {
		t.Errorf("request not decided: %+v", req)
	}

	doc = mustInvoke(t, st, types.OpQueryParcel, "ULPIN-0001")

	var p types.Parcel
	if err = json.Unmarshal(doc, &p); err != nil || len(p.Owners) != 2 || p.Owners[0].OwnerID != "OWNER-B" {
		t.Errorf("owners not replaced: %+v err:%e", p, err)
	}

	// request ids are single use
	if _, err = Invoke(st, types.OpApproveTransfer, []string{"REQ-1", "registrar-2"}); !errors.Is(err, types.ErrInvalidState) {
		t.Errorf("re-approve: %e", err)
	}

	// a new transfer may start, and rejection leaves owners alone
	mustInvoke(t, st, types.OpInitiateTransfer, "REQ-2", "ULPIN-0001",
		`[{"ownerId":"OWNER-D","ownershipType":"FULL","sharePercentage":100}]`, "")
	mustInvoke(t, st, types.OpRejectTransfer, "REQ-2", "registrar-1")

	doc = mustInvoke(t, st, types.OpQueryParcel, "ULPIN-0001")
	if err = json.Unmarshal(doc, &p); err != nil || len(p.Owners) != 2 {
		t.Errorf("owners changed on rejection: %+v err:%e", p, err)
	}
}

func TestDisputes(t *testing.T) {
	st := mapState{}
	mustInvoke(t, st, types.OpCreateParcel, "ULPIN-0001", "120", "loc", "OWNER-A", "")
	mustInvoke(t, st, types.OpCreateUnit, "UNIT-01", "ULPIN-0001", "25", "OWNER-B", "")

	// dispute on a missing asset
	_, err := Invoke(st, types.OpRaiseDispute, []string{"DISP-1", "ULPIN-9999", "overlap"})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("dispute on missing asset: %e", err)
	}

	// a unit dispute lands on the parent parcel
	mustInvoke(t, st, types.OpRaiseDispute, "DISP-1", "UNIT-01", "boundary mismatch")

	doc := mustInvoke(t, st, types.OpQueryParcel, "ULPIN-0001")

	var p types.Parcel
	if err = json.Unmarshal(doc, &p); err != nil || len(p.Disputes) != 1 || p.Disputes[0] != "DISP-1" {
		t.Errorf("dispute not on parent parcel: %+v err:%e", p, err)
	}

	// resolve twice: second call returns the record unchanged
	doc = mustInvoke(t, st, types.OpResolveDispute, "DISP-1")

	var d1, d2 types.Dispute
	if err = json.Unmarshal(doc, &d1); err != nil || d1.Status != types.DisputeResolved || d1.ResolvedAt == 0 {
		t.Fatalf("resolve: %+v err:%e", d1, err)
	}

	doc = mustInvoke(t, st, types.OpResolveDispute, "DISP-1")
	if err = json.Unmarshal(doc, &d2); err != nil || d2.ResolvedAt != d1.ResolvedAt {
		t.Errorf("second resolve changed the record: %+v err:%e", d2, err)
	}
}

func TestEncumbrances(t *testing.T) {
	st := mapState{}
	mustInvoke(t, st, types.OpCreateParcel, "ULPIN-0001", "120", "loc", "OWNER-A", "")

	_, err := Invoke(st, types.OpAddEncumbrance, []string{"ENC-1", "ULPIN-0001", "PLEDGE", ""})
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("unknown encumbrance kind: %e", err)
	}

	doc := mustInvoke(t, st, types.OpAddEncumbrance, "ENC-1", "ULPIN-0001", types.EncumbranceMortgage, "h3")

	var e types.Encumbrance
	if err = json.Unmarshal(doc, &e); err != nil || e.Status != types.EncumbranceActive || e.Kind != types.EncumbranceMortgage {
		t.Fatalf("add encumbrance: %+v err:%e", e, err)
	}

	doc = mustInvoke(t, st, types.OpQueryParcel, "ULPIN-0001")

	var p types.Parcel
	if err = json.Unmarshal(doc, &p); err != nil || len(p.Encumbrances) != 1 {
		t.Errorf("encumbrance not on parcel: %+v err:%e", p, err)
	}

	mustInvoke(t, st, types.OpReleaseEncumbrance, "ENC-1")

	// released is terminal
	if _, err = Invoke(st, types.OpReleaseEncumbrance, []string{"ENC-1"}); !errors.Is(err, types.ErrInvalidState) {
		t.Errorf("second release: %e", err)
	}
}

func TestDispatch(t *testing.T) {
	st := mapState{}

	if _, err := Invoke(st, "MintGold", nil); !errors.Is(err, types.ErrValidation) {
		t.Errorf("unknown op: %e", err)
	}

	if !IsQuery(types.OpQueryParcel) || !IsQuery(types.OpUnitExists) {
		t.Error("query ops not recognised")
	}

	if IsQuery(types.OpCreateParcel) || IsQuery(types.OpApproveTransfer) {
		t.Error("mutating ops reported as queries")
	}
}
