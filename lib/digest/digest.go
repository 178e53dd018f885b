// Package digest computes the deterministic fingerprints used across the registry: document digests for the
// content-addressed store and record digests for the proofs anchored on the public chain.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// LocalPrefix flags digests that were computed locally because the document store was unreachable. A digest with
// this prefix has not been verified against stored content and must never be treated as store-issued.
const LocalPrefix = "local:"

// Bytes returns the hex encoded sha256 of b.
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Record returns the hex encoded sha256 over the canonical JSON encoding of v. Go's encoding/json is
// deterministic for structs (field order) and maps (sorted keys), so the same record always yields the same digest
// across calls and restarts.
func Record(v interface{}) (string, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Bytes(doc), nil
}

// Local returns the flagged fallback digest for b.
func Local(b []byte) string {
	return LocalPrefix + Bytes(b)
}

// IsLocal reports whether d is a flagged local digest rather than a store-issued one.
func IsLocal(d string) bool {
	return len(d) > len(LocalPrefix) && d[:len(LocalPrefix)] == LocalPrefix
}
