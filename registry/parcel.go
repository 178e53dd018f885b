package registry

import (
	"encoding/json"
	"strconv"

	"github.com/bhoomi/landreg/lib/digest"
	"github.com/bhoomi/landreg/lib/ledger/types"
)

// CreateParcel registers a new land parcel with the caller as its single FULL owner. The deed document, when
// provided, is stored first so its digest travels with the ledger record. The committed record is fingerprinted
// and a CREATE proof is queued for anchoring.
func (rg *Registry) CreateParcel(ulpin string, area float64, location, ownerID string, deed []byte) (*types.Parcel, error) {
	docHash := rg.storeDeed(deed)

	doc, err := rg.ld.Submit(types.OpCreateParcel, ulpin,
		strconv.FormatFloat(area, 'f', -1, 64), location, ownerID, docHash)
	if err != nil {
		return nil, err
	}

	p := new(types.Parcel)
	if err = json.Unmarshal(doc, p); err != nil {
		return nil, err
	}

	rg.anchor(ulpin, EventCreate, digest.Bytes(doc))

	return p, nil
}

// GetParcel returns the parcel record for the given ULPIN.
func (rg *Registry) GetParcel(ulpin string) (*types.Parcel, error) {
	doc, err := rg.ld.Evaluate(types.OpQueryParcel, ulpin)
	if err != nil {
		return nil, err
	}

	p := new(types.Parcel)
	if err = json.Unmarshal(doc, p); err != nil {
		return nil, err
	}

	return p, nil
}

// ParcelExists reports whether a parcel record exists for the given ULPIN.
func (rg *Registry) ParcelExists(ulpin string) (bool, error) {
	doc, err := rg.ld.Evaluate(types.OpParcelExists, ulpin)
	if err != nil {
		return false, err
	}

	return string(doc) == "true", nil
}

// UpdateParcelStatus moves the parcel to the given status and queues a STATUS_UPDATE proof.
func (rg *Registry) UpdateParcelStatus(ulpin, status string) (*types.Parcel, error) {
	doc, err := rg.ld.Submit(types.OpUpdateStatus, ulpin, status)
	if err != nil {
		return nil, err
	}

	p := new(types.Parcel)
	if err = json.Unmarshal(doc, p); err != nil {
		return nil, err
	}

	rg.anchor(ulpin, EventStatusUpdate, digest.Bytes(doc))

	return p, nil
}
