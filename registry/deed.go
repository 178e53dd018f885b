package registry

import (
	"log"

	"github.com/bhoomi/landreg/lib/digest"
)

// storeDeed puts the deed document into the document store and returns its content digest. When the store is
// unreachable the ledger write still has to go through, so the digest is computed locally and flagged with the
// "local:" prefix; an operator can re-pin the document later and the fingerprint will match. An empty deed
// yields an empty digest.
func (rg *Registry) storeDeed(deed []byte) string {
	if len(deed) == 0 {
		return ""
	}

	dig, err := rg.ds.Put(deed)
	if err != nil {
		log.Printf("Error storing deed document, keeping local digest:%e", err)

		return digest.Local(deed)
	}

	return dig
}
