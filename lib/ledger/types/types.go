// Package types contains the land-registry record types persisted on the authoritative ledger and the closed error
// set surfaced by ledger operations.
package types

import (
	"errors"
)

// docType discriminators. All records share one ledger keyspace, so each JSON document is tagged with its type.
const (
	DocTypeParcel      = "parcel"
	DocTypeUnit        = "unit"
	DocTypeDispute     = "dispute"
	DocTypeTransfer    = "transfer"
	DocTypeEncumbrance = "encumbrance"
)

// Ownership types.
const (
	OwnerFull      = "FULL"
	OwnerJoint     = "JOINT"
	OwnerInherited = "INHERITED"
)

// Parcel statuses. Units only use Active and Frozen.
const (
	StatusActive     = "ACTIVE"
	StatusFrozen     = "FROZEN"
	StatusRestricted = "RESTRICTED"
	StatusGovernment = "GOVERNMENT"
)

// Transfer request statuses.
const (
	TransferPending  = "PENDING"
	TransferApproved = "APPROVED"
	TransferRejected = "REJECTED"
)

// Dispute statuses.
const (
	DisputeOpen     = "OPEN"
	DisputeResolved = "RESOLVED"
)

// Encumbrance kinds and statuses.
const (
	EncumbranceMortgage = "MORTGAGE"
	EncumbranceLease    = "LEASE"
	EncumbranceLien     = "LIEN"

	EncumbranceActive   = "ACTIVE"
	EncumbranceReleased = "RELEASED"
)

// Operation names accepted by the ledger contract.
const (
	OpCreateParcel       = "CreateParcel"
	OpQueryParcel        = "QueryParcel"
	OpParcelExists       = "ParcelExists"
	OpUpdateStatus       = "UpdateStatus"
	OpCreateUnit         = "CreateUnit"
	OpQueryUnit          = "QueryUnit"
	OpUnitExists         = "UnitExists"
	OpUpdateUnitStatus   = "UpdateUnitStatus"
	OpQueryUnitsByParcel = "QueryUnitsByParcel"
	OpInitiateTransfer   = "InitiateTransfer"
	OpApproveTransfer    = "ApproveTransfer"
	OpRejectTransfer     = "RejectTransfer"
	OpQueryTransfer      = "QueryTransfer"
	OpRaiseDispute       = "RaiseDispute"
	OpResolveDispute     = "ResolveDispute"
	OpQueryDispute       = "QueryDispute"
	OpAddEncumbrance     = "AddEncumbrance"
	OpReleaseEncumbrance = "ReleaseEncumbrance"
	OpQueryEncumbrance   = "QueryEncumbrance"
)

// OwnershipRecord is one owner's stake in a parcel or unit. Shares of all current owners of an asset sum to
// exactly 100.
type OwnershipRecord struct {
	OwnerID         string  `json:"ownerId"`
	OwnershipType   string  `json:"ownershipType"`
	SharePercentage float64 `json:"sharePercentage"`
}

// Parcel is a land parcel identified by its ULPIN.
type Parcel struct {
	DocType      string            `json:"docType"`
	ULPIN        string            `json:"ulpin"`
	Area         float64           `json:"area"`
	Location     string            `json:"location"` // GeoJSON string or reference
	Owners       []OwnershipRecord `json:"owners"`
	Status       string            `json:"status"`
	Encumbrances []string          `json:"encumbrances"`
	Disputes     []string          `json:"disputes"`
	LastUpdated  int64             `json:"lastUpdated"`
	DocHash      string            `json:"docHash"`
}

// Unit is an apartment or sub-division of a parcel, holding an undivided share of it.
type Unit struct {
	DocType     string            `json:"docType"`
	UnitID      string            `json:"unitId"`
	ParentULPIN string            `json:"parentUlpin"`
	UDS         float64           `json:"uds"`
	Owners      []OwnershipRecord `json:"owners"`
	Status      string            `json:"status"`
	LastUpdated int64             `json:"lastUpdated"`
	DocHash     string            `json:"docHash"`
}

// Dispute is raised against an asset (parcel or unit). OPEN until resolved, RESOLVED is terminal.
type Dispute struct {
	DocType    string `json:"docType"`
	DisputeID  string `json:"disputeId"`
	AssetID    string `json:"assetId"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	CreatedAt  int64  `json:"createdAt"`
	ResolvedAt int64  `json:"resolvedAt,omitempty"`
}

// TransferRequest tracks a two-phase ownership change. A request id is single use: once decided, a request cannot
// be decided again.
type TransferRequest struct {
	DocType        string            `json:"docType"`
	RequestID      string            `json:"requestId"`
	AssetID        string            `json:"assetId"`
	ProposedOwners []OwnershipRecord `json:"proposedOwners"`
	SupportingDocs []string          `json:"supportingDocs"`
	Status         string            `json:"status"`
	CreatedAt      int64             `json:"createdAt"`
	DecidedAt      int64             `json:"decidedAt,omitempty"`
	Approver       string            `json:"approver,omitempty"`
}

// Encumbrance is a charge (mortgage, lease or lien) registered against an asset.
type Encumbrance struct {
	DocType       string `json:"docType"`
	EncumbranceID string `json:"encumbranceId"`
	AssetID       string `json:"assetId"`
	Kind          string `json:"type"`
	Status        string `json:"status"`
	DocHash       string `json:"docHash"`
	CreatedAt     int64  `json:"createdAt"`
	ReleasedAt    int64  `json:"releasedAt,omitempty"`
}

// Errors returned by ledger operations. Workflow callers only ever see these kinds, never raw backend errors.
var (
	ErrNotFound      = errors.New("record does not exist")
	ErrAlreadyExists = errors.New("record already exists")
	ErrValidation    = errors.New("validation failed")
	ErrInvalidState  = errors.New("operation not allowed in current state")
	ErrAccessDenied  = errors.New("access denied")
	ErrUnavailable   = errors.New("ledger not available")
)
