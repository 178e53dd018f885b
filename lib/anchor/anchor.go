// Package anchor defines the interface to the public anchoring chains: separate, publicly readable chains used
// only to record tamper-evident proof digests, never full records. Read-side verification happens off this
// system, by anyone holding the chain.
package anchor

import (
	"errors"
	"log"

	"github.com/bhoomi/landreg/lib/anchor/ethereum"
	"github.com/bhoomi/landreg/lib/config"
	"github.com/tarancss/hd"
)

// Chain submits proof records to one public chain. SubmitProof returns the transaction reference of the submitted
// proof. Submitting the same (assetID, eventType, digest) twice is harmless: the AnchorRegistry contract appends,
// it never overwrites earlier proofs. Implementations are safe for concurrent use.
type Chain interface {
	SubmitProof(assetID, eventType, digest string) (txRef string, err error)
	Close()
}

// ErrUnavailable is returned when the public chain cannot be reached. It is only ever seen by the anchorer's
// retry loop, never by workflow callers.
var ErrUnavailable = errors.New("anchor chain not available")

// Init loads all the anchor chain clients read from the config into a map. The HD wallet provides the signing
// account for each chain as selected by its config.
func Init(ac []config.AnchorConfig, hdw *hd.HdWallet) (m map[string]Chain, err error) {
	m = make(map[string]Chain)

	for _, cfg := range ac {
		var tmp *ethereum.Ethereum

		if tmp, err = ethereum.Init(cfg, hdw); err != nil {
			log.Printf("[%s] Anchor chain client failed to initialise: %e\n", cfg.Name, err)
			return
		}

		m[cfg.Name] = tmp
	}

	return
}

// End closes gracefully all the anchor chain clients opened.
func End(ac map[string]Chain) {
	for _, c := range ac {
		c.Close()
	}
}
