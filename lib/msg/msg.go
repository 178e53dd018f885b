// Package msg defines the interface for different message brokers.
package msg

import (
	"sync"
)

// ProofReq defines the message the registry service publishes to ask the anchorer to anchor a lifecycle proof
// to a public chain.
type ProofReq struct {
	Net       string `json:"net"`
	AssetID   string `json:"assetId"`
	EventType string `json:"eventType"`
	Digest    string `json:"digest"`
}

// ProofEvent defines the message the anchorer publishes once a proof request has been decided.
type ProofEvent struct {
	Net       string `json:"net"`
	AssetID   string `json:"assetId"`
	EventType string `json:"eventType"`
	Digest    string `json:"digest"`
	Status    string `json:"status"`
	TxRef     string `json:"txRef,omitempty"`
}

type MsgBroker interface {
	Setup(interface{}) error
	Close() error

	// methods for registry service
	SendProof(net string, r ProofReq) error
	GetEvents(net string, mut *sync.Mutex) (<-chan ProofEvent, <-chan error, error)

	// methods for anchorer service
	GetProofs(net string, mut *sync.Mutex) (<-chan ProofReq, <-chan error, error)
	SendEvent(net string, e ProofEvent) error
}
