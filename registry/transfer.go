package registry

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/bhoomi/landreg/lib/digest"
	"github.com/bhoomi/landreg/lib/ledger/types"
)

// InitiateTransfer opens a two-phase ownership change for an asset. The proposed owners must form a complete
// ownership set; the asset's current owners stay untouched until the request is approved. Supporting documents
// are stored and their digests recorded on the request. Only one transfer per asset may be pending at a time.
func (rg *Registry) InitiateTransfer(assetID string, owners []types.OwnershipRecord, docs [][]byte) (*types.TransferRequest, error) {
	requestID := "REQ-" + uuid.NewString()

	ownersJSON, err := json.Marshal(owners)
	if err != nil {
		return nil, err
	}

	digs := make([]string, 0, len(docs))
	for _, d := range docs {
		digs = append(digs, rg.storeDeed(d))
	}

	digsJSON, err := json.Marshal(digs)
	if err != nil {
		return nil, err
	}

	doc, err := rg.ld.Submit(types.OpInitiateTransfer, requestID, assetID, string(ownersJSON), string(digsJSON))
	if err != nil {
		return nil, err
	}

	req := new(types.TransferRequest)
	if err = json.Unmarshal(doc, req); err != nil {
		return nil, err
	}

	return req, nil
}

// ApproveTransfer approves a pending request: the asset's owners are replaced by the proposed set and the
// request is decided, both in a single ledger transaction. The new ownership set is fingerprinted and a
// TRANSFER_APPROVED proof is queued.
func (rg *Registry) ApproveTransfer(requestID, approver string) (*types.TransferRequest, error) {
	return rg.decideTransfer(requestID, approver, types.OpApproveTransfer, EventTransferApproved)
}

// RejectTransfer rejects a pending request, leaving the asset's owners untouched.
func (rg *Registry) RejectTransfer(requestID, approver string) (*types.TransferRequest, error) {
	return rg.decideTransfer(requestID, approver, types.OpRejectTransfer, EventTransferRejected)
}

func (rg *Registry) decideTransfer(requestID, approver, op, eventType string) (*types.TransferRequest, error) {
	doc, err := rg.ld.Submit(op, requestID, approver)
	if err != nil {
		return nil, err
	}

	req := new(types.TransferRequest)
	if err = json.Unmarshal(doc, req); err != nil {
		return nil, err
	}

	dig, err := digest.Record(req.ProposedOwners)
	if err != nil {
		return nil, err
	}

	rg.anchor(req.AssetID, eventType, dig)

	return req, nil
}

// GetTransfer returns the transfer request for the given id.
func (rg *Registry) GetTransfer(requestID string) (*types.TransferRequest, error) {
	doc, err := rg.ld.Evaluate(types.OpQueryTransfer, requestID)
	if err != nil {
		return nil, err
	}

	req := new(types.TransferRequest)
	if err = json.Unmarshal(doc, req); err != nil {
		return nil, err
	}

	return req, nil
}
