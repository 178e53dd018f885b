// Package registry implements the land-registry microservice.
//
// This microservice exposes a RESTful API over the authoritative permissioned ledger holding parcel and unit
// records. It is the only writer to that ledger: every state change goes through it, and every successful change
// publishes a proof request so the anchorer service can commit a fingerprint of the new state to the public
// chains.
package registry

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/bhoomi/landreg/lib/docstore"
	"github.com/bhoomi/landreg/lib/ledger"
	"github.com/bhoomi/landreg/lib/msg"
	"github.com/bhoomi/landreg/lib/store"
	"github.com/bhoomi/landreg/lib/store/db"
)

// Lifecycle event types carried in anchored proofs.
const (
	EventCreate              = "CREATE"
	EventUnitCreate          = "UNIT_CREATE"
	EventStatusUpdate        = "STATUS_UPDATE"
	EventTransferApproved    = "TRANSFER_APPROVED"
	EventTransferRejected    = "TRANSFER_REJECTED"
	EventDisputeRaised       = "DISPUTE_RAISED"
	EventDisputeResolved     = "DISPUTE_RESOLVED"
	EventEncumbranceAdded    = "ENCUMBRANCE_ADDED"
	EventEncumbranceReleased = "ENCUMBRANCE_RELEASED"
)

// Registry contains the data necessary to deliver the service.
type Registry struct {
	dbtype string
	db     store.DB       // anchor outbox, read side
	ld     ledger.Ledger  // authoritative ledger client
	ds     docstore.Store // deed document store
	nets   []string       // public chains proofs are anchored to
	mb     msg.MsgBroker
	s      *http.Server  // http server
	ss     *http.Server  // https server
	sc     chan struct{} // http server channel used for graceful shutdowns
}

// New returns a pointer to a new Registry service.
func New(dbtype string, dbConn store.DB, ld ledger.Ledger, ds docstore.Store, mb msg.MsgBroker, nets []string) *Registry {
	return &Registry{
		dbtype: dbtype,
		db:     dbConn,
		ld:     ld,
		ds:     ds,
		mb:     mb,
		nets:   nets,
	}
}

// StopRegistry shuts down the http servers implementing the RESTful API and closes gracefully the connections to
// the message broker, ledger, document store and database.
func (rg *Registry) StopRegistry() {
	var err error
	// shutdown http server
	if rg.s != nil {
		if err = rg.s.Shutdown(context.Background()); err != nil {
			log.Printf("Error in http server shutdown:%e", err)
		}
	}

	if rg.ss != nil {
		if err = rg.ss.Shutdown(context.Background()); err != nil {
			log.Printf("Error in https server shutdown:%e", err)
		}
	}
	close(rg.sc) // close server channels to indicate shutdowns have finished
	// close message broker
	if err = rg.mb.Close(); err != nil {
		log.Printf("Error closing message broker:%e", err)
	}
	// close ledger client
	if err = rg.ld.Close(); err != nil {
		log.Printf("Error closing ledger client:%e", err)
	}
	// close document store
	if rg.ds != nil {
		if err = rg.ds.Close(); err != nil {
			log.Printf("Error closing document store:%e", err)
		}
	}
	// close database
	if rg.db != nil {
		err = db.Close(rg.dbtype, rg.db)
		log.Printf("Disconnecting %v database, err:%e\n", rg.dbtype, err)
	}
}

// ManageEvents starts go routines to consume the message broker queues for proof events sent by the anchorer
// service. For each public chain, two channels are opened, one for proof events and one for errors.
func (rg *Registry) ManageEvents() error {
	// for each chain establish a process to read events from the broker queues
	for _, net := range rg.nets {
		mut := new(sync.Mutex)
		mut.Lock()

		eveCh, errCh, err := rg.mb.GetEvents(net, mut)
		if err != nil {
			return err
		}

		// launch event channel reader
		go func(netName string) {
			log.Printf("[%s] Start listening to anchorer event channel", netName)
			for eve := range eveCh {
				log.Printf("[%s] Proof %s for asset %s is %s tx:%s", netName, eve.EventType, eve.AssetID,
					eve.Status, eve.TxRef)
				mut.Unlock()
			}
			log.Printf("[%s] Stop listening to anchorer event channel", netName)
		}(net)

		// launch error channel reader
		go func(netName string) {
			log.Printf("[%s] Start listening to err channel", netName)
			for e := range errCh {
				log.Printf("[%s] Received error %+v", netName, e)
			}
			log.Printf("[%s] Stop listening to err channel", netName)
		}(net)
	}

	return nil
}

// anchor publishes a proof request for each configured public chain. It is fire and forget: once the ledger
// write has committed the operation has succeeded, so publish errors are logged and never returned to the
// caller.
func (rg *Registry) anchor(assetID, eventType, dig string) {
	for _, net := range rg.nets {
		pr := msg.ProofReq{Net: net, AssetID: assetID, EventType: eventType, Digest: dig}
		if err := rg.mb.SendProof(net, pr); err != nil {
			log.Printf("[%s] Error publishing proof request for asset %s:%e", net, assetID, err)
		}
	}
}

// Anchors returns the anchor records for an asset, oldest first.
func (rg *Registry) Anchors(assetID string) ([]store.AnchorRecord, error) {
	return rg.db.GetAnchors(assetID)
}
