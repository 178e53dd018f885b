package registry

import (
	"encoding/json"
	"strconv"

	"github.com/bhoomi/landreg/lib/digest"
	"github.com/bhoomi/landreg/lib/ledger/types"
)

// CreateUnit registers an apartment unit under an existing parcel, holding the given undivided share of it.
// Queues a UNIT_CREATE proof on success.
func (rg *Registry) CreateUnit(unitID, parentUlpin string, uds float64, ownerID string, deed []byte) (*types.Unit, error) {
	docHash := rg.storeDeed(deed)

	doc, err := rg.ld.Submit(types.OpCreateUnit, unitID, parentUlpin,
		strconv.FormatFloat(uds, 'f', -1, 64), ownerID, docHash)
	if err != nil {
		return nil, err
	}

	u := new(types.Unit)
	if err = json.Unmarshal(doc, u); err != nil {
		return nil, err
	}

	rg.anchor(unitID, EventUnitCreate, digest.Bytes(doc))

	return u, nil
}

// GetUnit returns the unit record for the given id.
func (rg *Registry) GetUnit(unitID string) (*types.Unit, error) {
	doc, err := rg.ld.Evaluate(types.OpQueryUnit, unitID)
	if err != nil {
		return nil, err
	}

	u := new(types.Unit)
	if err = json.Unmarshal(doc, u); err != nil {
		return nil, err
	}

	return u, nil
}

// UnitsByParcel returns all units registered under the given parcel.
func (rg *Registry) UnitsByParcel(parentUlpin string) ([]types.Unit, error) {
	doc, err := rg.ld.Evaluate(types.OpQueryUnitsByParcel, parentUlpin)
	if err != nil {
		return nil, err
	}

	units := []types.Unit{}
	if err = json.Unmarshal(doc, &units); err != nil {
		return nil, err
	}

	return units, nil
}

// UpdateUnitStatus moves the unit to the given status and queues a STATUS_UPDATE proof.
func (rg *Registry) UpdateUnitStatus(unitID, status string) (*types.Unit, error) {
	doc, err := rg.ld.Submit(types.OpUpdateUnitStatus, unitID, status)
	if err != nil {
		return nil, err
	}

	u := new(types.Unit)
	if err = json.Unmarshal(doc, u); err != nil {
		return nil, err
	}

	rg.anchor(unitID, EventStatusUpdate, digest.Bytes(doc))

	return u, nil
}
