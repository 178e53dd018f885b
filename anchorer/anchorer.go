// Package anchorer implements the anchoring microservice. The anchorer consumes proof requests published by the
// registry, appends them to a durable outbox and submits each proof to its public chain in order, retrying with
// backoff until it confirms or the attempt budget runs out. Anchor records are derived state: whatever happens
// here, the authoritative ledger records they fingerprint stay untouched.
package anchorer

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bhoomi/landreg/lib/anchor"
	"github.com/bhoomi/landreg/lib/config"
	"github.com/bhoomi/landreg/lib/msg"
	"github.com/bhoomi/landreg/lib/store"
)

// batch is the number of pending records a worker drains per outbox read.
const batch = 16

// idlePoll bounds how long a worker sleeps when its queue is empty and no wake arrives.
const idlePoll = 5 * time.Second

// Anchorer implements an anchoring service.
type Anchorer struct {
	dbtype string
	db     store.DB
	ac     map[string]anchor.Chain        // map of public chain clients
	cfg    map[string]config.AnchorConfig // per-chain retry policy
	mb     msg.MsgBroker
	met    *Metrics
	wake   map[string]chan struct{} // one wake signal per chain worker
	quit   chan struct{}
}

// New instantiates a new anchorer service.
func New(dbtype string, db store.DB, mb msg.MsgBroker, ac map[string]anchor.Chain, cfgs []config.AnchorConfig, met *Metrics) *Anchorer {
	cfg := make(map[string]config.AnchorConfig, len(cfgs))
	wake := make(map[string]chan struct{}, len(cfgs))

	for _, c := range cfgs {
		cfg[c.Name] = c
		wake[c.Name] = make(chan struct{}, 1)
	}

	return &Anchorer{
		dbtype: dbtype,
		db:     db,
		ac:     ac,
		cfg:    cfg,
		mb:     mb,
		met:    met,
		wake:   wake,
		quit:   make(chan struct{}),
	}
}

// Anchor starts a go routine for each public chain available. Each chain gets a consumer feeding the outbox from
// the broker queue and a worker draining the outbox in sequence order. In case of graceful termination, the
// workers finish the record in flight; everything else stays PENDING in the outbox for the next run.
func (a *Anchorer) Anchor() chan string {
	ret := make(chan string, 1)
	// channel to wait for chain workers
	w := make(chan string, len(a.ac))

	for net := range a.ac {
		// consume proof requests, if there are pending requests in the broker queues, they will be persisted to
		// the outbox so the worker starts with all the data loaded
		if err := a.ManageProofReqs(net); err != nil {
			log.Printf("[%s] Cannot consume proof requests from broker, err:%e", net, err)

			continue
		}
		// drain the outbox
		a.AnchorChain(net, w)
	}
	// routine to wait for all chains to complete anchoring...
	go func() {
		for i := 1; i < len(a.ac)+1; i++ {
			log.Printf("Anchor, channel %d/%d returned: %s", i, len(a.ac), <-w)
		}
		ret <- "Done!"
	}()

	return ret
}

// StopAnchorer signals all chain workers to terminate.
func (a *Anchorer) StopAnchorer() {
	close(a.quit)
}

// ManageProofReqs starts a go routine to receive proof requests for the public chain named 'net' and append them
// to the outbox.
func (a *Anchorer) ManageProofReqs(net string) error {
	mut := new(sync.Mutex)

	mut.Lock()

	reqCh, errCh, err := a.mb.GetProofs(net, mut)
	if err != nil {
		return fmt.Errorf("anchorer: cannot get proof requests: %w", err)
	}

	// launch request channel reader
	go func() {
		log.Printf("[%s] Start listening to proof request channel", net)

		for {
			select {
			case req, ok := (<-reqCh):
				if !ok {
					log.Printf("[%s] Stop listening to proof request channel", net)

					return
				}

				log.Printf("[%s] Received proof request %+v", net, req)
				a.Enqueue(req)
				mut.Unlock()
			case e, ok := (<-errCh):
				if !ok {
					log.Printf("[%s] Stop listening to err channel", net)

					return
				}

				log.Printf("[%s] Received error %+v", net, e)
			}
		}
	}()

	return nil
}

// Enqueue appends the proof request to the durable outbox and wakes the chain worker. It reports nothing to the
// caller: a request that cannot be persisted right now is only logged and stays with the broker for redelivery.
func (a *Anchorer) Enqueue(req msg.ProofReq) {
	rec := store.AnchorRecord{
		Net:       req.Net,
		AssetID:   req.AssetID,
		EventType: req.EventType,
		Digest:    req.Digest,
	}

	if _, err := a.db.SaveAnchor(rec); err != nil {
		log.Printf("[%s] Error saving proof request for asset %s to outbox:%e", req.Net, req.AssetID, err)

		return
	}

	// wake the worker, if it is not awake already
	if ch, ok := a.wake[req.Net]; ok {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// AnchorChain starts a worker go routine for the public chain named 'net'. The worker drains pending outbox
// records strictly in sequence order, so per-asset anchor ordering follows. When the routine ends, it returns
// its status via the 'ret' channel so the calling routine can control graceful termination.
func (a *Anchorer) AnchorChain(net string, ret chan string) {
	log.Printf("[%s] Anchoring proofs... ", net)

	go func() {
		defer func() {
			ret <- "[" + net + "] Done!"
		}()

		for {
			recs, err := a.db.PendingAnchors(net, batch)
			if err != nil {
				log.Printf("[%s] Error reading pending anchors:%e", net, err)
			}

			if len(recs) == 0 {
				// wait until there is something to anchor
				select {
				case <-a.quit:
					return
				case <-a.wake[net]:
				case <-time.After(idlePoll):
				}

				continue
			}

			for _, rec := range recs {
				select {
				case <-a.quit:
					return
				default:
				}

				a.submit(net, rec)
			}
		}
	}()
}

// submit pushes one outbox record to its chain, retrying with exponential backoff. On success the record is
// confirmed and a proof event published; after maxAttempts the record is marked FAILED for operational tooling
// to pick up, and the failure never travels back to the registry.
func (a *Anchorer) submit(net string, rec store.AnchorRecord) {
	cfg := a.cfg[net]
	retry := time.Duration(cfg.RetryMs) * time.Millisecond
	attempts := rec.Attempts

	for {
		start := time.Now()
		txRef, err := a.ac[net].SubmitProof(rec.AssetID, rec.EventType, rec.Digest)
		a.met.Submitted.WithLabelValues(net).Inc()
		a.met.Latency.WithLabelValues(net).Observe(time.Since(start).Seconds())

		if err == nil {
			if err = a.db.MarkAnchored(rec.ID, txRef); err != nil {
				log.Printf("[%s] Error confirming anchor %s:%e", net, rec.ID, err)
			}
			a.met.Confirmed.WithLabelValues(net).Inc()
			a.event(rec, store.AnchorConfirmed, txRef)
			log.Printf("[%s] Anchored %s proof for asset %s tx:%s", net, rec.EventType, rec.AssetID, txRef)

			return
		}

		attempts++
		if errSet := a.db.SetAttempts(rec.ID, attempts); errSet != nil {
			log.Printf("[%s] Error updating attempts for anchor %s:%e", net, rec.ID, errSet)
		}

		if attempts >= cfg.MaxAttempts {
			if errMark := a.db.MarkFailed(rec.ID); errMark != nil {
				log.Printf("[%s] Error marking anchor %s failed:%e", net, rec.ID, errMark)
			}
			a.met.Failed.WithLabelValues(net).Inc()
			a.event(rec, store.AnchorFailed, "")
			log.Printf("[%s] Giving up on %s proof for asset %s after %d attempts:%e", net, rec.EventType,
				rec.AssetID, attempts, err)

			return
		}

		log.Printf("[%s] Submit attempt %d for asset %s failed:%e", net, attempts, rec.AssetID, err)

		select {
		case <-a.quit:
			return
		case <-time.After(retry << (attempts - 1)):
		}
	}
}

// event publishes the proof outcome. Publish errors are logged only; the outbox already holds the truth.
func (a *Anchorer) event(rec store.AnchorRecord, status, txRef string) {
	pe := msg.ProofEvent{
		Net:       rec.Net,
		AssetID:   rec.AssetID,
		EventType: rec.EventType,
		Digest:    rec.Digest,
		Status:    status,
		TxRef:     txRef,
	}
	if err := a.mb.SendEvent(rec.Net, pe); err != nil {
		log.Printf("[%s] Error publishing proof event for asset %s:%e", rec.Net, rec.AssetID, err)
	}
}
