package registry

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bhoomi/landreg/lib/digest"
	"github.com/bhoomi/landreg/lib/ledger/types"
)

// RaiseDispute opens a dispute against an asset. The dispute id is a fingerprint over the asset, reason and
// time of filing, so identical filings in the same instant collide instead of piling up. Queues a
// DISPUTE_RAISED proof.
func (rg *Registry) RaiseDispute(assetID, reason string) (*types.Dispute, error) {
	disputeID := digest.Bytes([]byte(fmt.Sprintf("DISPUTE-%s-%s-%d", assetID, reason, time.Now().Unix())))

	doc, err := rg.ld.Submit(types.OpRaiseDispute, disputeID, assetID, reason)
	if err != nil {
		return nil, err
	}

	d := new(types.Dispute)
	if err = json.Unmarshal(doc, d); err != nil {
		return nil, err
	}

	rg.anchor(assetID, EventDisputeRaised, digest.Bytes(doc))

	return d, nil
}

// ResolveDispute closes a dispute. Resolving an already resolved dispute succeeds and returns the record
// unchanged; only the first resolution queues a DISPUTE_RESOLVED proof.
func (rg *Registry) ResolveDispute(disputeID string) (*types.Dispute, error) {
	before, err := rg.GetDispute(disputeID)
	if err != nil {
		return nil, err
	}

	doc, err := rg.ld.Submit(types.OpResolveDispute, disputeID)
	if err != nil {
		return nil, err
	}

	d := new(types.Dispute)
	if err = json.Unmarshal(doc, d); err != nil {
		return nil, err
	}

	if before.Status != types.DisputeResolved {
		rg.anchor(d.AssetID, EventDisputeResolved, digest.Bytes(doc))
	}

	return d, nil
}

// GetDispute returns the dispute record for the given id.
func (rg *Registry) GetDispute(disputeID string) (*types.Dispute, error) {
	doc, err := rg.ld.Evaluate(types.OpQueryDispute, disputeID)
	if err != nil {
		return nil, err
	}

	d := new(types.Dispute)
	if err = json.Unmarshal(doc, d); err != nil {
		return nil, err
	}

	return d, nil
}
