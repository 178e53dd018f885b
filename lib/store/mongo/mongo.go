// Package mongo implements the anchor outbox for MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bhoomi/landreg/lib/store"
)

// Mongo implements a connection to a MongoDB database.
type Mongo struct {
	c   *mgo.Client
	seq int64
}

// New returns a Mongo client connection to the specified MongoDB database uri.
func New(uri string) (*Mongo, error) {
	// get a client
	c, err := mgo.NewClient(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongo DB in %s: %w", uri, err)
	}
	// connect client
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:gomnd // 5 seconds timeout
	defer cancel()

	err = c.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo DB: %w", err)
	}

	return &Mongo{c: c, seq: time.Now().UnixNano()}, nil
}

// CloseMongo will close a database connection. Must be called at termination time.
func (m *Mongo) CloseMongo() error {
	return m.c.Disconnect(context.Background())
}

func (m *Mongo) anchors() *mgo.Collection {
	return m.c.Database("outbox").Collection("anchors")
}

// SaveAnchor inserts the record in PENDING state and returns its id. Sequence numbers are nanosecond based so
// they stay monotonic across process restarts.
func (m *Mongo) SaveAnchor(r store.AnchorRecord) (string, error) {
	r.Seq = atomic.AddInt64(&m.seq, 1)
	r.Status = store.AnchorPending
	r.SubmittedAt = time.Now().Unix()

	res, err := m.anchors().InsertOne(context.Background(), bson.M{
		"seq":         r.Seq,
		"net":         r.Net,
		"assetId":     r.AssetID,
		"eventType":   r.EventType,
		"digest":      r.Digest,
		"status":      r.Status,
		"attempts":    r.Attempts,
		"submittedAt": r.SubmittedAt,
	})
	if err != nil {
		return "", fmt.Errorf("could not insert anchor record in db: %w", err)
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// PendingAnchors returns up to max pending records for the network, oldest first.
func (m *Mongo) PendingAnchors(net string, max int) ([]store.AnchorRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}).SetLimit(int64(max))

	docs, err := m.anchors().Find(context.Background(), bson.M{"net": net, "status": store.AnchorPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying pending anchors: %w", err)
	}

	return m.decode(docs)
}

// SetAttempts records the attempt count of a record.
func (m *Mongo) SetAttempts(id string, attempts int) error {
	return m.set(id, bson.D{{Key: "attempts", Value: attempts}})
}

// MarkAnchored confirms the record with its public chain transaction reference.
func (m *Mongo) MarkAnchored(id, txRef string) error {
	return m.set(id, bson.D{
		{Key: "status", Value: store.AnchorConfirmed},
		{Key: "txRef", Value: txRef},
		{Key: "confirmedAt", Value: time.Now().Unix()},
	})
}

// MarkFailed marks the record as failed for good.
func (m *Mongo) MarkFailed(id string) error {
	return m.set(id, bson.D{{Key: "status", Value: store.AnchorFailed}})
}

// GetAnchors returns all records for the given asset, oldest first.
func (m *Mongo) GetAnchors(assetID string) ([]store.AnchorRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})

	docs, err := m.anchors().Find(context.Background(), bson.M{"assetId": assetID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying anchors for asset: %w", err)
	}

	return m.decode(docs)
}

func (m *Mongo) set(id string, upd bson.D) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrDataNotFound
	}

	res, err := m.anchors().UpdateOne(context.Background(),
		bson.M{"_id": oid},
		bson.D{{Key: "$set", Value: upd}})
	if err == nil && res.MatchedCount != 1 {
		err = store.ErrDataNotFound
	}

	return err
}

func (m *Mongo) decode(docs *mgo.Cursor) ([]store.AnchorRecord, error) {
	recs := []store.AnchorRecord{}

	for docs.Next(context.Background()) {
		var doc struct {
			ID                 primitive.ObjectID `bson:"_id"`
			store.AnchorRecord `bson:",inline"`
		}
		if err := bson.Unmarshal(docs.Current, &doc); err != nil {
			if errors.Is(err, mgo.ErrNoDocuments) {
				break
			}

			return nil, fmt.Errorf("error decoding anchor record: %w", err)
		}

		r := doc.AnchorRecord
		r.ID = doc.ID.Hex()
		recs = append(recs, r)
	}

	return recs, nil
}
