package ethereum

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// TestEncodeAnchorHash checks the ABI layout of the anchorHash call data: method id, head words with tail
// offsets, then length-prefixed padded strings.
func TestEncodeAnchorHash(t *testing.T) {
	data := encodeAnchorHash("ULPIN-0001", "CREATE", "abcd")

	method, _ := hex.DecodeString(anchorHash)
	if !bytes.Equal(data[:4], method) {
		t.Errorf("method id mismatch: got %x", data[:4])
	}

	args := data[4:]
	if len(args)%wordLen != 0 {
		t.Fatalf("argument data length %d is not word aligned", len(args))
	}

	// first head word points right after the three heads
	if off := args[wordLen-1]; off != 3*wordLen {
		t.Errorf("first offset is %d, expected %d", off, 3*wordLen)
	}

	// first tail: length 10 then "ULPIN-0001" padded to 32 bytes
	tail := args[3*wordLen:]
	if l := tail[wordLen-1]; l != 10 {
		t.Errorf("first string length is %d, expected 10", l)
	}
	if got := string(bytes.TrimRight(tail[wordLen:2*wordLen], "\x00")); got != "ULPIN-0001" {
		t.Errorf("first string payload is %q", got)
	}
}

func TestWordPad(t *testing.T) {
	if w := word(256); w[wordLen-2] != 1 || w[wordLen-1] != 0 {
		t.Errorf("word(256) encoded as %x", w)
	}
	if p := pad([]byte("abc")); len(p) != wordLen {
		t.Errorf("pad length %d, expected %d", len(p), wordLen)
	}
	if p := pad(make([]byte, wordLen)); len(p) != wordLen {
		t.Errorf("pad of aligned input grew to %d", len(p))
	}
}
