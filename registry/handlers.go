package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bhoomi/landreg/lib/ledger/types"
)

// Errors returned to client requests.
var (
	ErrBadRequest = errors.New("bad request")
)

// Response defines the data structure returned to the client making the http request.
type Response struct {
	Body  string `json:"body"`
	Error string `json:"error,omitempty"`
}

// ParcelReq is the payload to register a new parcel. Deed carries the optional deed document, base64 in JSON.
type ParcelReq struct {
	ULPIN    string  `json:"ulpin"`
	Area     float64 `json:"area"`
	Location string  `json:"location"`
	OwnerID  string  `json:"ownerId"`
	Deed     []byte  `json:"deed,omitempty"`
}

// UnitReq is the payload to register a new unit under a parcel.
type UnitReq struct {
	UnitID      string  `json:"unitId"`
	ParentULPIN string  `json:"parentUlpin"`
	UDS         float64 `json:"uds"`
	OwnerID     string  `json:"ownerId"`
	Deed        []byte  `json:"deed,omitempty"`
}

// TransferReq is the payload to open a transfer request.
type TransferReq struct {
	AssetID        string                  `json:"assetId"`
	ProposedOwners []types.OwnershipRecord `json:"proposedOwners"`
	SupportingDocs [][]byte                `json:"supportingDocs,omitempty"`
}

// DecisionReq is the payload to approve or reject a transfer request.
type DecisionReq struct {
	Approver string `json:"approver"`
}

// DisputeReq is the payload to raise a dispute.
type DisputeReq struct {
	AssetID string `json:"assetId"`
	Reason  string `json:"reason"`
}

// EncumbranceReq is the payload to register an encumbrance.
type EncumbranceReq struct {
	AssetID string `json:"assetId"`
	Kind    string `json:"type"`
	Deed    []byte `json:"deed,omitempty"`
}

// StatusReq is the payload to update a parcel or unit status.
type StatusReq struct {
	Status string `json:"status"`
}

// status maps the ledger error set onto HTTP status codes.
func status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrAlreadyExists), errors.Is(err, types.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, types.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, types.ErrUnavailable):
		return http.StatusServiceUnavailable
	}

	return http.StatusBadRequest
}

// reply marshals v into the response body and writes it with the status derived from err. Every handler defers
// it so the log line and the reply always go out, whatever the path taken.
func reply(rw http.ResponseWriter, r *http.Request, v interface{}, err error) {
	var res Response

	code := status(err)
	if err != nil {
		res.Error = fmt.Sprintf("%s", err)
	} else if v != nil {
		tmp, _ := json.Marshal(v)
		res.Body = string(tmp)
	}

	rw.Header().Set("Content-Type", "application/json;charset=utf8")
	rw.WriteHeader(code)
	// log request and outcome
	log.Printf("httpreq from %v %s status:%d err:%e\n", r.RemoteAddr, r.RequestURI, code, err)
	// reply
	_ = json.NewEncoder(rw).Encode(&res)
}

// homeHandler just replies a welcome message to the client.
func (rg *Registry) homeHandler(rw http.ResponseWriter, r *http.Request) {
	var res Response
	// log request
	log.Printf("httpreq from %v %s\n", r.RemoteAddr, r.RequestURI)
	// just reply a welcome message
	res.Body = "Hello, this is your land registry!"
	// reply
	rw.Header().Set("Content-Type", "application/json;charset=utf8")
	_ = json.NewEncoder(rw).Encode(res)
}

func (rg *Registry) createParcelHandler(rw http.ResponseWriter, r *http.Request) {
	var req ParcelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reply(rw, r, nil, ErrBadRequest)

		return
	}

	p, err := rg.CreateParcel(req.ULPIN, req.Area, req.Location, req.OwnerID, req.Deed)
	reply(rw, r, p, err)
}

func (rg *Registry) getParcelHandler(rw http.ResponseWriter, r *http.Request) {
	p, err := rg.GetParcel(mux.Vars(r)["ulpin"])
	reply(rw, r, p, err)
}

func (rg *Registry) parcelStatusHandler(rw http.ResponseWriter, r *http.Request) {
	var req StatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reply(rw, r, nil, ErrBadRequest)

		return
	}

	p, err := rg.UpdateParcelStatus(mux.Vars(r)["ulpin"], req.Status)
	reply(rw, r, p, err)
}

func (rg *Registry) unitsByParcelHandler(rw http.ResponseWriter, r *http.Request) {
	units, err := rg.UnitsByParcel(mux.Vars(r)["ulpin"])
	reply(rw, r, units, err)
}

func (rg *Registry) createUnitHandler(rw http.ResponseWriter, r *http.Request) {
	var req UnitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reply(rw, r, nil, ErrBadRequest)

		return
	}

	u, err := rg.CreateUnit(req.UnitID, req.ParentULPIN, req.UDS, req.OwnerID, req.Deed)
	reply(rw, r, u, err)
}

func (rg *Registry) getUnitHandler(rw http.ResponseWriter, r *http.Request) {
	u, err := rg.GetUnit(mux.Vars(r)["unit"])
	reply(rw, r, u, err)
}

func (rg *Registry) unitStatusHandler(rw http.ResponseWriter, r *http.Request) {
	var req StatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reply(rw, r, nil, ErrBadRequest)

		return
	}

	u, err := rg.UpdateUnitStatus(mux.Vars(r)["unit"], req.Status)
	reply(rw, r, u, err)
}

func (rg *Registry) initiateTransferHandler(rw http.ResponseWriter, r *http.Request) {
	var req TransferReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reply(rw, r, nil, ErrBadRequest)

		return
	}

	tr, err := rg.InitiateTransfer(req.AssetID, req.ProposedOwners, req.SupportingDocs)
	reply(rw, r, tr, err)
}

func (rg *Registry) getTransferHandler(rw http.ResponseWriter, r *http.Request) {
	tr, err := rg.GetTransfer(mux.Vars(r)["request"])
	reply(rw, r, tr, err)
}

func (rg *Registry) approveHandler(rw http.ResponseWriter, r *http.Request) {
	var req DecisionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reply(rw, r, nil, ErrBadRequest)

		return
	}

	tr, err := rg.ApproveTransfer(mux.Vars(r)["request"], req.Approver)
	reply(rw, r, tr, err)
}

func (rg *Registry) rejectHandler(rw http.ResponseWriter, r *http.Request) {
	var req DecisionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reply(rw, r, nil, ErrBadRequest)

		return
	}

	tr, err := rg.RejectTransfer(mux.Vars(r)["request"], req.Approver)
	reply(rw, r, tr, err)
}

func (rg *Registry) raiseDisputeHandler(rw http.ResponseWriter, r *http.Request) {
	var req DisputeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reply(rw, r, nil, ErrBadRequest)

		return
	}

	d, err := rg.RaiseDispute(req.AssetID, req.Reason)
	reply(rw, r, d, err)
}

func (rg *Registry) getDisputeHandler(rw http.ResponseWriter, r *http.Request) {
	d, err := rg.GetDispute(mux.Vars(r)["dispute"])
	reply(rw, r, d, err)
}

func (rg *Registry) resolveHandler(rw http.ResponseWriter, r *http.Request) {
	d, err := rg.ResolveDispute(mux.Vars(r)["dispute"])
	reply(rw, r, d, err)
}

func (rg *Registry) addEncumbranceHandler(rw http.ResponseWriter, r *http.Request) {
	var req EncumbranceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reply(rw, r, nil, ErrBadRequest)

		return
	}

	e, err := rg.AddEncumbrance(req.AssetID, req.Kind, req.Deed)
	reply(rw, r, e, err)
}

func (rg *Registry) getEncumbranceHandler(rw http.ResponseWriter, r *http.Request) {
	e, err := rg.GetEncumbrance(mux.Vars(r)["enc"])
	reply(rw, r, e, err)
}

func (rg *Registry) releaseHandler(rw http.ResponseWriter, r *http.Request) {
	e, err := rg.ReleaseEncumbrance(mux.Vars(r)["enc"])
	reply(rw, r, e, err)
}

func (rg *Registry) anchorsHandler(rw http.ResponseWriter, r *http.Request) {
	recs, err := rg.Anchors(mux.Vars(r)["asset"])
	reply(rw, r, recs, err)
}
