// Implements the anchor chain interface for ethereum networks, submitting proofs to the AnchorRegistry contract.
package ethereum

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/bhoomi/landreg/lib/config"
	"github.com/tarancss/ethcli"
	"github.com/tarancss/hd"
)

// AnchorRegistry methodID (keccak-256 of the function name and arguments)
const (
	anchorHash = "5f3a6b1c" // anchorHash(string,string,string)
)

const wordLen = 32

// Ethereum implements a connection to an ethereum-type chain with a signing account derived from the HD wallet.
type Ethereum struct {
	c        *ethcli.EthCli
	contract string // AnchorRegistry address
	from     string // signing account address
	key      string // signing account private key, hex
}

// Init returns a connection to an ethereum node using the chain config and the HD wallet for the signing account.
func Init(cfg config.AnchorConfig, hdw *hd.HdWallet) (*Ethereum, error) {
	addr, key, _, err := hdw.Address(cfg.Wallet, cfg.Change, cfg.ID)
	if err != nil {
		return nil, fmt.Errorf("cannot derive anchoring account for %s: %w", cfg.Name, err)
	}

	c := ethcli.Init(cfg.Node, cfg.Secret)
	if c == nil {
		return nil, errors.New("cannot connect to ethereum blockchain in " + cfg.Node)
	}

	return &Ethereum{
		c:        c,
		contract: cfg.Contract,
		from:     "0x" + hex.EncodeToString(addr),
		key:      hex.EncodeToString(key),
	}, nil
}

// Close ends the connection.
func (e *Ethereum) Close() {
	e.c.End()
}

// SubmitProof calls anchorHash(assetId, eventType, digest) on the AnchorRegistry contract and returns the
// transaction hash. The call carries no value; the proof lives in the call data and the contract's storage.
func (e *Ethereum) SubmitProof(assetID, eventType, digest string) (string, error) {
	data := encodeAnchorHash(assetID, eventType, digest)

	_, _, hash, err := e.c.SendTrx(e.from, e.contract, "", "0x0", data, e.key, 0, false)
	if err != nil {
		return "", fmt.Errorf("anchor submission to %s failed: %w", e.contract, err)
	}

	return "0x" + hex.EncodeToString(hash), nil
}

// encodeAnchorHash ABI-encodes the anchorHash(string,string,string) call: the 4-byte method id, three head words
// holding the tail offsets, then each string as a length word followed by its 32-byte padded bytes.
func encodeAnchorHash(a, b, c string) []byte {
	method, _ := hex.DecodeString(anchorHash)

	heads := make([]byte, 0, 3*wordLen)
	tails := make([]byte, 0, 3*2*wordLen)
	offset := 3 * wordLen
	for _, s := range []string{a, b, c} {
		heads = append(heads, word(uint64(offset))...)
		tail := append(word(uint64(len(s))), pad([]byte(s))...)
		tails = append(tails, tail...)
		offset += len(tail)
	}

	data := append(method, heads...)
	return append(data, tails...)
}

// word returns v as a 32-byte big-endian word.
func word(v uint64) []byte {
	w := make([]byte, wordLen)
	for i := 0; v > 0; i++ {
		w[wordLen-1-i] = byte(v)
		v >>= 8
	}
	return w
}

// pad right-pads b with zeroes to a multiple of 32 bytes.
func pad(b []byte) []byte {
	if rem := len(b) % wordLen; rem != 0 {
		b = append(b, make([]byte, wordLen-rem)...)
	}
	return b
}
