package store

// Anchor record statuses. Pending records are retried; Failed is terminal and observable through operational
// tooling, never through the workflow API.
const (
	AnchorPending   = "PENDING"
	AnchorConfirmed = "ANCHORED"
	AnchorFailed    = "FAILED"
)

// AnchorRecord is one queued proof submission. Seq orders records within a chain's outbox; ConfirmedAt and TxRef
// are set once the proof is on the public chain.
type AnchorRecord struct {
	ID          string `json:"id" bson:"id"`
	Seq         int64  `json:"seq" bson:"seq"`
	Net         string `json:"net" bson:"net"`
	AssetID     string `json:"assetId" bson:"assetId"`
	EventType   string `json:"eventType" bson:"eventType"`
	Digest      string `json:"digest" bson:"digest"`
	Status      string `json:"status" bson:"status"`
	Attempts    int    `json:"attempts" bson:"attempts"`
	SubmittedAt int64  `json:"submittedAt" bson:"submittedAt"`
	ConfirmedAt int64  `json:"confirmedAt,omitempty" bson:"confirmedAt,omitempty"`
	TxRef       string `json:"txRef,omitempty" bson:"txRef,omitempty"`
}
