// Package ledger defines the interface to the authoritative ledger: the permissioned, consensus-backed store of
// record for parcel and unit ownership. It has been designed to stay agnostic of the backing ledger product; the
// gateway implementation talks to a peer over HTTP while memledger runs the contract in-process for development
// and tests.
package ledger

import (
	"fmt"

	"github.com/bhoomi/landreg/lib/config"
	"github.com/bhoomi/landreg/lib/ledger/gateway"
	"github.com/bhoomi/landreg/lib/ledger/memledger"
)

// Ledger is the single writer of authoritative state. Submit sends a state-changing operation through consensus
// and returns the resulting record; Evaluate runs a read-only operation. Both are safe for concurrent use; the
// backing ledger serializes concurrent writes per key, which is why compound updates (like approving a transfer)
// are expressed as a single submitted operation and never as a client-side read-then-write.
type Ledger interface {
	Submit(op string, args ...string) ([]byte, error)
	Evaluate(op string, args ...string) ([]byte, error)
	Close() error
}

// Init returns a ledger connection according to the configured type.
func Init(cfg config.LedgerConfig) (Ledger, error) {
	switch cfg.Type {
	case "gateway":
		return gateway.New(cfg.Node, cfg.Channel, cfg.Chaincode)
	case "memory", "":
		return memledger.New(), nil
	}
	return nil, fmt.Errorf("ledger interface not defined for %s", cfg.Type)
}
