// Package contract implements the land-registry transition rules executed inside a ledger transaction. The rules
// are written over a minimal State key/value interface so the very same body runs against the in-process ledger
// (package memledger) and on a permissioned peer. Records are JSON documents tagged with a docType discriminator,
// sharing a single keyspace keyed by asset, request, dispute or encumbrance id.
package contract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/bhoomi/landreg/lib/ledger/types"
)

// State is the per-transaction view of ledger state. Get returns nil bytes without error when the key is absent.
type State interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Del(key string) error
}

// shareEpsilon absorbs float noise when checking that ownership shares sum to exactly 100.
const shareEpsilon = 1e-9

const maxIDLen = 64

// index keys live beside the records in the same keyspace, prefixed so they can never collide with asset ids
// (asset ids do not allow '!').
func unitIndexKey(ulpin string) string {
	return "idx!units!" + ulpin
}

func pendingTransferKey(assetID string) string {
	return "idx!transfer!" + assetID
}

// Invoke dispatches a named operation. It is the single entry point for both state-changing and read-only
// operations; callers routing through Evaluate should gate on IsQuery first.
func Invoke(st State, op string, args []string) ([]byte, error) {
	switch op {
	case types.OpCreateParcel:
		if err := argc(op, args, 5); err != nil {
			return nil, err
		}
		return createParcel(st, args[0], args[1], args[2], args[3], args[4])
	case types.OpQueryParcel:
		if err := argc(op, args, 1); err != nil {
			return nil, err
		}
		return queryParcel(st, args[0])
	case types.OpParcelExists:
		if err := argc(op, args, 1); err != nil {
			return nil, err
		}
		return exists(st, args[0], types.DocTypeParcel)
	case types.OpUpdateStatus:
		if err := argc(op, args, 2); err != nil {
			return nil, err
		}
		return updateStatus(st, args[0], args[1])
	case types.OpCreateUnit:
		if err := argc(op, args, 5); err != nil {
			return nil, err
		}
		return createUnit(st, args[0], args[1], args[2], args[3], args[4])
	case types.OpQueryUnit:
		if err := argc(op, args, 1); err != nil {
			return nil, err
		}
		return queryUnit(st, args[0])
	case types.OpUnitExists:
		if err := argc(op, args, 1); err != nil {
			return nil, err
		}
		return exists(st, args[0], types.DocTypeUnit)
	case types.OpUpdateUnitStatus:
		if err := argc(op, args, 2); err != nil {
			return nil, err
		}
		return updateUnitStatus(st, args[0], args[1])
	case types.OpQueryUnitsByParcel:
		if err := argc(op, args, 1); err != nil {
			return nil, err
		}
		return queryUnitsByParcel(st, args[0])
	case types.OpInitiateTransfer:
		if err := argc(op, args, 4); err != nil {
			return nil, err
		}
		return initiateTransfer(st, args[0], args[1], args[2], args[3])
	case types.OpApproveTransfer:
		if err := argc(op, args, 2); err != nil {
			return nil, err
		}
		return decideTransfer(st, args[0], args[1], types.TransferApproved)
	case types.OpRejectTransfer:
		if err := argc(op, args, 2); err != nil {
			return nil, err
		}
		return decideTransfer(st, args[0], args[1], types.TransferRejected)
	case types.OpQueryTransfer:
		if err := argc(op, args, 1); err != nil {
			return nil, err
		}
		return queryTransfer(st, args[0])
	case types.OpRaiseDispute:
		if err := argc(op, args, 3); err != nil {
			return nil, err
		}
		return raiseDispute(st, args[0], args[1], args[2])
	case types.OpResolveDispute:
		if err := argc(op, args, 1); err != nil {
			return nil, err
		}
		return resolveDispute(st, args[0])
	case types.OpQueryDispute:
		if err := argc(op, args, 1); err != nil {
			return nil, err
		}
		return queryDispute(st, args[0])
	case types.OpAddEncumbrance:
		if err := argc(op, args, 4); err != nil {
			return nil, err
		}
		return addEncumbrance(st, args[0], args[1], args[2], args[3])
	case types.OpReleaseEncumbrance:
		if err := argc(op, args, 1); err != nil {
			return nil, err
		}
		return releaseEncumbrance(st, args[0])
	case types.OpQueryEncumbrance:
		if err := argc(op, args, 1); err != nil {
			return nil, err
		}
		return queryEncumbrance(st, args[0])
	}
	return nil, fmt.Errorf("%w: unknown operation %s", types.ErrValidation, op)
}

// IsQuery reports whether op is read-only.
func IsQuery(op string) bool {
	switch op {
	case types.OpQueryParcel, types.OpParcelExists, types.OpQueryUnit, types.OpUnitExists,
		types.OpQueryUnitsByParcel, types.OpQueryTransfer, types.OpQueryDispute, types.OpQueryEncumbrance:
		return true
	}
	return false
}

func argc(op string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s expects %d arguments, got %d", types.ErrValidation, op, n, len(args))
	}
	return nil
}

func validateID(id string) error {
	if id == "" || len(id) > maxIDLen {
		return fmt.Errorf("%w: id must be 1 to %d characters", types.ErrValidation, maxIDLen)
	}
	for _, r := range id {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return fmt.Errorf("%w: id %s contains invalid characters", types.ErrValidation, id)
		}
	}
	return nil
}

func validateOwners(owners []types.OwnershipRecord) error {
	if len(owners) == 0 {
		return fmt.Errorf("%w: at least one owner is required", types.ErrValidation)
	}
	var sum float64
	for _, o := range owners {
		if o.OwnerID == "" {
			return fmt.Errorf("%w: ownerId must not be empty", types.ErrValidation)
		}
		switch o.OwnershipType {
		case types.OwnerFull:
			if len(owners) != 1 || o.SharePercentage != 100 {
				return fmt.Errorf("%w: FULL ownership implies a single owner at 100", types.ErrValidation)
			}
		case types.OwnerJoint, types.OwnerInherited:
		default:
			return fmt.Errorf("%w: unknown ownership type %s", types.ErrValidation, o.OwnershipType)
		}
		if o.SharePercentage <= 0 || o.SharePercentage > 100 {
			return fmt.Errorf("%w: sharePercentage must be in (0,100]", types.ErrValidation)
		}
		sum += o.SharePercentage
	}
	if sum < 100-shareEpsilon || sum > 100+shareEpsilon {
		return fmt.Errorf("%w: ownership shares sum to %v, must be exactly 100", types.ErrValidation, sum)
	}
	return nil
}

func validParcelStatus(s string) bool {
	switch s {
	case types.StatusActive, types.StatusFrozen, types.StatusRestricted, types.StatusGovernment:
		return true
	}
	return false
}

func validUnitStatus(s string) bool {
	return s == types.StatusActive || s == types.StatusFrozen
}

func getJSON(st State, key string, v interface{}) (bool, error) {
	b, err := st.Get(key)
	if err != nil {
		return false, fmt.Errorf("%w: %s", types.ErrUnavailable, err)
	}
	if len(b) == 0 {
		return false, nil
	}
	if err = json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("cannot decode record %s: %w", key, err)
	}
	return true, nil
}

func putJSON(st State, key string, v interface{}) ([]byte, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if err = st.Put(key, doc); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnavailable, err)
	}
	return doc, nil
}

// getAsset loads assetID as either a parcel or a unit. Exactly one of the returned pointers is non-nil on success.
func getAsset(st State, assetID string) (*types.Parcel, *types.Unit, error) {
	b, err := st.Get(assetID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", types.ErrUnavailable, err)
	}
	if len(b) == 0 {
		return nil, nil, fmt.Errorf("%w: the asset %s does not exist", types.ErrNotFound, assetID)
	}
	var tag struct {
		DocType string `json:"docType"`
	}
	if err = json.Unmarshal(b, &tag); err != nil {
		return nil, nil, fmt.Errorf("cannot decode record %s: %w", assetID, err)
	}
	switch tag.DocType {
	case types.DocTypeParcel:
		p := new(types.Parcel)
		if err = json.Unmarshal(b, p); err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case types.DocTypeUnit:
		u := new(types.Unit)
		if err = json.Unmarshal(b, u); err != nil {
			return nil, nil, err
		}
		return nil, u, nil
	}
	return nil, nil, fmt.Errorf("%w: the asset %s does not exist", types.ErrNotFound, assetID)
}

// recordParcel returns the parcel that carries the dispute and encumbrance sets for assetID: the parcel itself, or
// a unit's parent parcel.
func recordParcel(st State, p *types.Parcel, u *types.Unit) (*types.Parcel, error) {
	if p != nil {
		return p, nil
	}
	parent := new(types.Parcel)
	found, err := getJSON(st, u.ParentULPIN, parent)
	if err != nil {
		return nil, err
	}
	if !found || parent.DocType != types.DocTypeParcel {
		return nil, fmt.Errorf("%w: the parcel %s does not exist", types.ErrNotFound, u.ParentULPIN)
	}
	return parent, nil
}

func createParcel(st State, ulpin, areaStr, location, ownerID, docHash string) ([]byte, error) {
	if err := validateID(ulpin); err != nil {
		return nil, err
	}
	area, err := strconv.ParseFloat(areaStr, 64)
	if err != nil || area <= 0 {
		return nil, fmt.Errorf("%w: area must be a number greater than 0", types.ErrValidation)
	}
	if ownerID == "" {
		return nil, fmt.Errorf("%w: ownerId must not be empty", types.ErrValidation)
	}
	b, err := st.Get(ulpin)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnavailable, err)
	}
	if len(b) != 0 {
		return nil, fmt.Errorf("%w: the parcel %s already exists", types.ErrAlreadyExists, ulpin)
	}
	parcel := types.Parcel{
		DocType:  types.DocTypeParcel,
		ULPIN:    ulpin,
		Area:     area,
		Location: location,
		Owners: []types.OwnershipRecord{
			{OwnerID: ownerID, OwnershipType: types.OwnerFull, SharePercentage: 100},
		},
		Status:       types.StatusActive,
		Encumbrances: []string{},
		Disputes:     []string{},
		LastUpdated:  time.Now().Unix(),
		DocHash:      docHash,
	}
	return putJSON(st, ulpin, &parcel)
}

func queryParcel(st State, ulpin string) ([]byte, error) {
	var p types.Parcel
	found, err := getJSON(st, ulpin, &p)
	if err != nil {
		return nil, err
	}
	if !found || p.DocType != types.DocTypeParcel {
		return nil, fmt.Errorf("%w: the parcel %s does not exist", types.ErrNotFound, ulpin)
	}
	return json.Marshal(&p)
}

func exists(st State, id, docType string) ([]byte, error) {
	var tag struct {
		DocType string `json:"docType"`
	}
	found, err := getJSON(st, id, &tag)
	if err != nil {
		return nil, err
	}
	if found && tag.DocType == docType {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// updateStatus sets any valid parcel status from any other. Transitions are deliberately unconstrained between
// valid states; policy owners wanting a transition table enforce it above the ledger.
func updateStatus(st State, ulpin, newStatus string) ([]byte, error) {
	if !validParcelStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown parcel status %s", types.ErrValidation, newStatus)
	}
	var p types.Parcel
	found, err := getJSON(st, ulpin, &p)
	if err != nil {
		return nil, err
	}
	if !found || p.DocType != types.DocTypeParcel {
		return nil, fmt.Errorf("%w: the parcel %s does not exist", types.ErrNotFound, ulpin)
	}
	p.Status = newStatus
	p.LastUpdated = time.Now().Unix()
	return putJSON(st, ulpin, &p)
}

func createUnit(st State, unitID, parentUlpin, udsStr, ownerID, docHash string) ([]byte, error) {
	if err := validateID(unitID); err != nil {
		return nil, err
	}
	uds, err := strconv.ParseFloat(udsStr, 64)
	if err != nil || uds <= 0 {
		return nil, fmt.Errorf("%w: uds must be a number greater than 0", types.ErrValidation)
	}
	if ownerID == "" {
		return nil, fmt.Errorf("%w: ownerId must not be empty", types.ErrValidation)
	}
	var parent types.Parcel
	found, err := getJSON(st, parentUlpin, &parent)
	if err != nil {
		return nil, err
	}
	if !found || parent.DocType != types.DocTypeParcel {
		return nil, fmt.Errorf("%w: the parcel %s does not exist", types.ErrNotFound, parentUlpin)
	}
	b, err := st.Get(unitID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnavailable, err)
	}
	if len(b) != 0 {
		return nil, fmt.Errorf("%w: the unit %s already exists", types.ErrAlreadyExists, unitID)
	}
	unit := types.Unit{
		DocType:     types.DocTypeUnit,
		UnitID:      unitID,
		ParentULPIN: parentUlpin,
		UDS:         uds,
		Owners: []types.OwnershipRecord{
			{OwnerID: ownerID, OwnershipType: types.OwnerFull, SharePercentage: 100},
		},
		Status:      types.StatusActive,
		LastUpdated: time.Now().Unix(),
		DocHash:     docHash,
	}
	doc, err := putJSON(st, unitID, &unit)
	if err != nil {
		return nil, err
	}
	// maintain the parcel -> units index
	var ids []string
	if _, err = getJSON(st, unitIndexKey(parentUlpin), &ids); err != nil {
		return nil, err
	}
	ids = append(ids, unitID)
	if _, err = putJSON(st, unitIndexKey(parentUlpin), ids); err != nil {
		return nil, err
	}
	return doc, nil
}

func queryUnit(st State, unitID string) ([]byte, error) {
	var u types.Unit
	found, err := getJSON(st, unitID, &u)
	if err != nil {
		return nil, err
	}
	if !found || u.DocType != types.DocTypeUnit {
		return nil, fmt.Errorf("%w: the unit %s does not exist", types.ErrNotFound, unitID)
	}
	return json.Marshal(&u)
}

func updateUnitStatus(st State, unitID, newStatus string) ([]byte, error) {
	if !validUnitStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown unit status %s", types.ErrValidation, newStatus)
	}
	var u types.Unit
	found, err := getJSON(st, unitID, &u)
	if err != nil {
		return nil, err
	}
	if !found || u.DocType != types.DocTypeUnit {
		return nil, fmt.Errorf("%w: the unit %s does not exist", types.ErrNotFound, unitID)
	}
	u.Status = newStatus
	u.LastUpdated = time.Now().Unix()
	return putJSON(st, unitID, &u)
}

func queryUnitsByParcel(st State, parentUlpin string) ([]byte, error) {
	var parent types.Parcel
	found, err := getJSON(st, parentUlpin, &parent)
	if err != nil {
		return nil, err
	}
	if !found || parent.DocType != types.DocTypeParcel {
		return nil, fmt.Errorf("%w: the parcel %s does not exist", types.ErrNotFound, parentUlpin)
	}
	var ids []string
	if _, err = getJSON(st, unitIndexKey(parentUlpin), &ids); err != nil {
		return nil, err
	}
	units := make([]types.Unit, 0, len(ids))
	for _, id := range ids {
		var u types.Unit
		if found, err = getJSON(st, id, &u); err != nil {
			return nil, err
		} else if found {
			units = append(units, u)
		}
	}
	return json.Marshal(units)
}

func initiateTransfer(st State, requestID, assetID, ownersJSON, docsJSON string) ([]byte, error) {
	if err := validateID(requestID); err != nil {
		return nil, err
	}
	if _, _, err := getAsset(st, assetID); err != nil {
		return nil, err
	}
	var owners []types.OwnershipRecord
	if err := json.Unmarshal([]byte(ownersJSON), &owners); err != nil {
		return nil, fmt.Errorf("%w: cannot decode proposed owners: %s", types.ErrValidation, err)
	}
	if err := validateOwners(owners); err != nil {
		return nil, err
	}
	var docs []string
	if docsJSON != "" {
		if err := json.Unmarshal([]byte(docsJSON), &docs); err != nil {
			return nil, fmt.Errorf("%w: cannot decode supporting documents: %s", types.ErrValidation, err)
		}
	}
	b, err := st.Get(requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnavailable, err)
	}
	if len(b) != 0 {
		return nil, fmt.Errorf("%w: the transfer request %s already exists", types.ErrAlreadyExists, requestID)
	}
	// one PENDING transfer per asset: a second initiate must fail until the first is decided
	if b, err = st.Get(pendingTransferKey(assetID)); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnavailable, err)
	}
	if len(b) != 0 {
		return nil, fmt.Errorf("%w: a transfer for asset %s is already pending (request %s)",
			types.ErrInvalidState, assetID, string(b))
	}
	req := types.TransferRequest{
		DocType:        types.DocTypeTransfer,
		RequestID:      requestID,
		AssetID:        assetID,
		ProposedOwners: owners,
		SupportingDocs: docs,
		Status:         types.TransferPending,
		CreatedAt:      time.Now().Unix(),
	}
	doc, err := putJSON(st, requestID, &req)
	if err != nil {
		return nil, err
	}
	if err = st.Put(pendingTransferKey(assetID), []byte(requestID)); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnavailable, err)
	}
	return doc, nil
}

// decideTransfer approves or rejects a PENDING request. Approval replaces the asset's owners and marks the request
// decided within this single transaction: one cannot commit without the other.
func decideTransfer(st State, requestID, approver, decision string) ([]byte, error) {
	var req types.TransferRequest
	found, err := getJSON(st, requestID, &req)
	if err != nil {
		return nil, err
	}
	if !found || req.DocType != types.DocTypeTransfer {
		return nil, fmt.Errorf("%w: the transfer request %s does not exist", types.ErrNotFound, requestID)
	}
	if req.Status != types.TransferPending {
		return nil, fmt.Errorf("%w: the transfer request %s is already %s", types.ErrInvalidState, requestID, req.Status)
	}
	if decision == types.TransferApproved {
		p, u, err := getAsset(st, req.AssetID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			p.Owners = req.ProposedOwners
			p.LastUpdated = time.Now().Unix()
			if _, err = putJSON(st, p.ULPIN, p); err != nil {
				return nil, err
			}
		} else {
			u.Owners = req.ProposedOwners
			u.LastUpdated = time.Now().Unix()
			if _, err = putJSON(st, u.UnitID, u); err != nil {
				return nil, err
			}
		}
	}
	req.Status = decision
	req.DecidedAt = time.Now().Unix()
	req.Approver = approver
	doc, err := putJSON(st, requestID, &req)
	if err != nil {
		return nil, err
	}
	if err = st.Del(pendingTransferKey(req.AssetID)); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnavailable, err)
	}
	return doc, nil
}

func queryTransfer(st State, requestID string) ([]byte, error) {
	var req types.TransferRequest
	found, err := getJSON(st, requestID, &req)
	if err != nil {
		return nil, err
	}
	if !found || req.DocType != types.DocTypeTransfer {
		return nil, fmt.Errorf("%w: the transfer request %s does not exist", types.ErrNotFound, requestID)
	}
	return json.Marshal(&req)
}

func raiseDispute(st State, disputeID, assetID, reason string) ([]byte, error) {
	if err := validateID(disputeID); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: reason must not be empty", types.ErrValidation)
	}
	p, u, err := getAsset(st, assetID)
	if err != nil {
		return nil, err
	}
	b, err := st.Get(disputeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnavailable, err)
	}
	if len(b) != 0 {
		return nil, fmt.Errorf("%w: the dispute %s already exists", types.ErrAlreadyExists, disputeID)
	}
	d := types.Dispute{
		DocType:   types.DocTypeDispute,
		DisputeID: disputeID,
		AssetID:   assetID,
		Reason:    reason,
		Status:    types.DisputeOpen,
		CreatedAt: time.Now().Unix(),
	}
	doc, err := putJSON(st, disputeID, &d)
	if err != nil {
		return nil, err
	}
	// the dispute set lives on the parcel record; unit disputes land on the parent parcel
	rec, err := recordParcel(st, p, u)
	if err != nil {
		return nil, err
	}
	rec.Disputes = append(rec.Disputes, disputeID)
	rec.LastUpdated = time.Now().Unix()
	if _, err = putJSON(st, rec.ULPIN, rec); err != nil {
		return nil, err
	}
	return doc, nil
}

// resolveDispute is idempotent: resolving an already resolved dispute succeeds without touching resolvedAt.
func resolveDispute(st State, disputeID string) ([]byte, error) {
	var d types.Dispute
	found, err := getJSON(st, disputeID, &d)
	if err != nil {
		return nil, err
	}
	if !found || d.DocType != types.DocTypeDispute {
		return nil, fmt.Errorf("%w: the dispute %s does not exist", types.ErrNotFound, disputeID)
	}
	if d.Status == types.DisputeResolved {
		return json.Marshal(&d)
	}
	d.Status = types.DisputeResolved
	d.ResolvedAt = time.Now().Unix()
	return putJSON(st, disputeID, &d)
}

func queryDispute(st State, disputeID string) ([]byte, error) {
	var d types.Dispute
	found, err := getJSON(st, disputeID, &d)
	if err != nil {
		return nil, err
	}
	if !found || d.DocType != types.DocTypeDispute {
		return nil, fmt.Errorf("%w: the dispute %s does not exist", types.ErrNotFound, disputeID)
	}
	return json.Marshal(&d)
}

func addEncumbrance(st State, encID, assetID, kind, docHash string) ([]byte, error) {
	if err := validateID(encID); err != nil {
		return nil, err
	}
	switch kind {
	case types.EncumbranceMortgage, types.EncumbranceLease, types.EncumbranceLien:
	default:
		return nil, fmt.Errorf("%w: unknown encumbrance type %s", types.ErrValidation, kind)
	}
	p, u, err := getAsset(st, assetID)
	if err != nil {
		return nil, err
	}
	b, err := st.Get(encID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnavailable, err)
	}
	if len(b) != 0 {
		return nil, fmt.Errorf("%w: the encumbrance %s already exists", types.ErrAlreadyExists, encID)
	}
	e := types.Encumbrance{
		DocType:       types.DocTypeEncumbrance,
		EncumbranceID: encID,
		AssetID:       assetID,
		Kind:          kind,
		Status:        types.EncumbranceActive,
		DocHash:       docHash,
		CreatedAt:     time.Now().Unix(),
	}
	doc, err := putJSON(st, encID, &e)
	if err != nil {
		return nil, err
	}
	rec, err := recordParcel(st, p, u)
	if err != nil {
		return nil, err
	}
	rec.Encumbrances = append(rec.Encumbrances, encID)
	rec.LastUpdated = time.Now().Unix()
	if _, err = putJSON(st, rec.ULPIN, rec); err != nil {
		return nil, err
	}
	return doc, nil
}

func releaseEncumbrance(st State, encID string) ([]byte, error) {
	var e types.Encumbrance
	found, err := getJSON(st, encID, &e)
	if err != nil {
		return nil, err
	}
	if !found || e.DocType != types.DocTypeEncumbrance {
		return nil, fmt.Errorf("%w: the encumbrance %s does not exist", types.ErrNotFound, encID)
	}
	if e.Status != types.EncumbranceActive {
		return nil, fmt.Errorf("%w: the encumbrance %s is already %s", types.ErrInvalidState, encID, e.Status)
	}
	e.Status = types.EncumbranceReleased
	e.ReleasedAt = time.Now().Unix()
	return putJSON(st, encID, &e)
}

func queryEncumbrance(st State, encID string) ([]byte, error) {
	var e types.Encumbrance
	found, err := getJSON(st, encID, &e)
	if err != nil {
		return nil, err
	}
	if !found || e.DocType != types.DocTypeEncumbrance {
		return nil, fmt.Errorf("%w: the encumbrance %s does not exist", types.ErrNotFound, encID)
	}
	return json.Marshal(&e)
}
