package registry

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/bhoomi/landreg/lib/digest"
	"github.com/bhoomi/landreg/lib/ledger/types"
)

// AddEncumbrance registers a mortgage, lease or lien against an asset and queues an ENCUMBRANCE_ADDED proof.
func (rg *Registry) AddEncumbrance(assetID, kind string, deed []byte) (*types.Encumbrance, error) {
	encID := "ENC-" + uuid.NewString()
	docHash := rg.storeDeed(deed)

	doc, err := rg.ld.Submit(types.OpAddEncumbrance, encID, assetID, kind, docHash)
	if err != nil {
		return nil, err
	}

	e := new(types.Encumbrance)
	if err = json.Unmarshal(doc, e); err != nil {
		return nil, err
	}

	rg.anchor(assetID, EventEncumbranceAdded, digest.Bytes(doc))

	return e, nil
}

// ReleaseEncumbrance releases an active encumbrance and queues an ENCUMBRANCE_RELEASED proof.
func (rg *Registry) ReleaseEncumbrance(encID string) (*types.Encumbrance, error) {
	doc, err := rg.ld.Submit(types.OpReleaseEncumbrance, encID)
	if err != nil {
		return nil, err
	}

	e := new(types.Encumbrance)
	if err = json.Unmarshal(doc, e); err != nil {
		return nil, err
	}

	rg.anchor(e.AssetID, EventEncumbranceReleased, digest.Bytes(doc))

	return e, nil
}

// GetEncumbrance returns the encumbrance record for the given id.
func (rg *Registry) GetEncumbrance(encID string) (*types.Encumbrance, error) {
	doc, err := rg.ld.Evaluate(types.OpQueryEncumbrance, encID)
	if err != nil {
		return nil, err
	}

	e := new(types.Encumbrance)
	if err = json.Unmarshal(doc, e); err != nil {
		return nil, err
	}

	return e, nil
}
