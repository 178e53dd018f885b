// Package ipfs implements the document store interface over the IPFS HTTP API (the same API the original
// ipfs-http-client speaks): /api/v0/add to store and pin, /api/v0/cat to retrieve. Retrieval verifies the content
// against the requested CID by re-hashing it through add with only-hash, so a corrupted or substituted node can
// never hand back wrong bytes.
package ipfs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/bhoomi/landreg/lib/docstore"
)

const reqTimeout = 15 * time.Second

// Ipfs is a client to one IPFS node. The underlying HTTP client is long-lived and reused; safe for concurrent use.
type Ipfs struct {
	c    *http.Client
	node string
}

// addRes is the JSON object the add endpoint replies per file.
type addRes struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

// New returns a client for the IPFS node API at node (ie. http://localhost:5001).
func New(node string) (*Ipfs, error) {
	if node == "" {
		return nil, fmt.Errorf("%w: no ipfs node configured", docstore.ErrUnavailable)
	}
	return &Ipfs{c: &http.Client{Timeout: reqTimeout}, node: node}, nil
}

// Put adds and pins b, returning its CID. The CID is derived from the content alone, so the same bytes always map
// to the same digest.
func (s *Ipfs) Put(b []byte) (string, error) {
	return s.add(b, false)
}

// Get retrieves the content stored under the given CID and verifies it hashes back to the same CID.
func (s *Ipfs) Get(cid string) ([]byte, error) {
	u := s.node + "/api/v0/cat?arg=" + url.QueryEscape(cid)
	resp, err := s.c.Post(u, "", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", docstore.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusInternalServerError || resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", docstore.ErrNotFound, cid)
		}
		return nil, fmt.Errorf("%w: ipfs cat returned status %d", docstore.ErrUnavailable, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", docstore.ErrUnavailable, err)
	}
	// defense against a corrupted or substituted store: the content must hash back to the CID we asked for
	check, err := s.add(b, true)
	if err != nil {
		return nil, err
	}
	if check != cid {
		return nil, fmt.Errorf("%w: %s hashes to %s", docstore.ErrIntegrity, cid, check)
	}
	return b, nil
}

// Close releases the client's idle connections.
func (s *Ipfs) Close() error {
	s.c.CloseIdleConnections()
	return nil
}

// add posts b to the add endpoint. With onlyHash the node computes the CID without storing anything.
func (s *Ipfs) add(b []byte, onlyHash bool) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "doc")
	if err != nil {
		return "", err
	}
	if _, err = fw.Write(b); err != nil {
		return "", err
	}
	if err = mw.Close(); err != nil {
		return "", err
	}

	u := s.node + "/api/v0/add?pin=true"
	if onlyHash {
		u = s.node + "/api/v0/add?only-hash=true"
	}
	resp, err := s.c.Post(u, mw.FormDataContentType(), &body)
	if err != nil {
		return "", fmt.Errorf("%w: %s", docstore.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: ipfs add returned status %d", docstore.ErrUnavailable, resp.StatusCode)
	}
	var res addRes
	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("%w: cannot decode ipfs response: %s", docstore.ErrUnavailable, err)
	}
	if res.Hash == "" {
		return "", fmt.Errorf("%w: ipfs add returned no hash", docstore.ErrUnavailable)
	}
	return res.Hash, nil
}
