// Package gateway implements the ledger interface over an HTTP gateway proxy to a permissioned peer. The proxy
// exposes submit and evaluate endpoints per channel and chaincode, runs the transaction through consensus and
// relays the contract's result or a coded error.
package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bhoomi/landreg/lib/ledger/types"
)

const reqTimeout = 15 * time.Second

// Gateway holds a single long-lived HTTP client, reused across requests. Safe for concurrent use.
type Gateway struct {
	c         *http.Client
	node      string
	channel   string
	chaincode string
}

// wire formats of the gateway proxy
type invokeReq struct {
	Fn   string   `json:"fn"`
	Args []string `json:"args"`
}

type invokeRes struct {
	Result json.RawMessage `json:"result"`
	Error  *wireError      `json:"error"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// New returns a gateway client for the ledger proxy at node.
func New(node, channel, chaincode string) (*Gateway, error) {
	if node == "" {
		return nil, fmt.Errorf("%w: no gateway node configured", types.ErrUnavailable)
	}
	return &Gateway{
		c:         &http.Client{Timeout: reqTimeout},
		node:      node,
		channel:   channel,
		chaincode: chaincode,
	}, nil
}

// Submit sends a state-changing operation through the gateway.
func (g *Gateway) Submit(op string, args ...string) ([]byte, error) {
	return g.invoke("submit", op, args)
}

// Evaluate runs a read-only operation on the gateway's peer without ordering a transaction.
func (g *Gateway) Evaluate(op string, args ...string) ([]byte, error) {
	return g.invoke("evaluate", op, args)
}

// Close releases the client's idle connections.
func (g *Gateway) Close() error {
	g.c.CloseIdleConnections()
	return nil
}

func (g *Gateway) invoke(kind, op string, args []string) ([]byte, error) {
	if args == nil {
		args = []string{}
	}
	body, err := json.Marshal(invokeReq{Fn: op, Args: args})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/channels/%s/chaincodes/%s/%s", g.node, g.channel, g.chaincode, kind)
	resp, err := g.c.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var res invokeRes
	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: cannot decode gateway response: %s", types.ErrUnavailable, err)
	}
	if res.Error != nil {
		return nil, decodeError(res.Error)
	}
	return res.Result, nil
}

// decodeError maps the proxy's error codes onto the closed ledger error set. Anything unrecognized counts as the
// ledger being unavailable so callers never see a raw adapter error.
func decodeError(we *wireError) error {
	var kind error
	switch we.Code {
	case "NOT_FOUND":
		kind = types.ErrNotFound
	case "ALREADY_EXISTS":
		kind = types.ErrAlreadyExists
	case "VALIDATION":
		kind = types.ErrValidation
	case "INVALID_STATE":
		kind = types.ErrInvalidState
	case "ACCESS_DENIED":
		kind = types.ErrAccessDenied
	default:
		kind = types.ErrUnavailable
	}
	return fmt.Errorf("%w: %s", kind, we.Message)
}
