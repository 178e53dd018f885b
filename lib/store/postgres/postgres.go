// Package postgres implements the anchor outbox for PostgreSQL.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/lib/pq" //nolint:gci // load the postgres driver that is used by the system

	"github.com/bhoomi/landreg/lib/store"
)

type Postgres struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS anchors (
	id BIGSERIAL PRIMARY KEY,
	net TEXT NOT NULL,
	asset_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	digest TEXT NOT NULL,
	status TEXT NOT NULL,
	attempts INTEGER NOT NULL DEFAULT 0,
	submitted_at BIGINT NOT NULL,
	confirmed_at BIGINT NOT NULL DEFAULT 0,
	tx_ref TEXT NOT NULL DEFAULT ''
)`

// New returns a postgres client connection to the specified database in 'connection', creating the anchors table
// when missing.
func New(connection string) (*Postgres, error) {
	db, err := sql.Open("postgres", connection)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to DB in %s: %w", connection, err)
	}

	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("cannot create anchors table: %w", err)
	}

	return &Postgres{db: db}, nil
}

// ClosePostgres will close any database connection. Must be called at termination time.
func (p *Postgres) ClosePostgres() error {
	return p.db.Close()
}

// SaveAnchor inserts the record in PENDING state and returns its id. The serial primary key doubles as the
// sequence number.
func (p *Postgres) SaveAnchor(r store.AnchorRecord) (string, error) {
	var id int64

	err := p.db.QueryRow(
		`INSERT INTO anchors (net, asset_id, event_type, digest, status, attempts, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		r.Net, r.AssetID, r.EventType, r.Digest, store.AnchorPending, r.Attempts, time.Now().Unix()).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("could not insert anchor record in db: %w", err)
	}

	return strconv.FormatInt(id, 10), nil
}

// PendingAnchors returns up to max pending records for the network, oldest first.
func (p *Postgres) PendingAnchors(net string, max int) ([]store.AnchorRecord, error) {
	rows, err := p.db.Query(
		`SELECT id, net, asset_id, event_type, digest, status, attempts, submitted_at, confirmed_at, tx_ref
		 FROM anchors WHERE net = $1 AND status = $2 ORDER BY id LIMIT $3`,
		net, store.AnchorPending, max)
	if err != nil {
		return nil, fmt.Errorf("error querying pending anchors: %w", err)
	}

	return scan(rows)
}

// SetAttempts records the attempt count of a record.
func (p *Postgres) SetAttempts(id string, attempts int) error {
	return p.exec(`UPDATE anchors SET attempts = $2 WHERE id = $1`, id, attempts)
}

// MarkAnchored confirms the record with its public chain transaction reference.
func (p *Postgres) MarkAnchored(id, txRef string) error {
	return p.exec(`UPDATE anchors SET status = $2, tx_ref = $3, confirmed_at = $4 WHERE id = $1`,
		id, store.AnchorConfirmed, txRef, time.Now().Unix())
}

// MarkFailed marks the record as failed for good.
func (p *Postgres) MarkFailed(id string) error {
	return p.exec(`UPDATE anchors SET status = $2 WHERE id = $1`, id, store.AnchorFailed)
}

// GetAnchors returns all records for the given asset, oldest first.
func (p *Postgres) GetAnchors(assetID string) ([]store.AnchorRecord, error) {
	rows, err := p.db.Query(
		`SELECT id, net, asset_id, event_type, digest, status, attempts, submitted_at, confirmed_at, tx_ref
		 FROM anchors WHERE asset_id = $1 ORDER BY id`, assetID)
	if err != nil {
		return nil, fmt.Errorf("error querying anchors for asset: %w", err)
	}

	return scan(rows)
}

func (p *Postgres) exec(query, id string, args ...interface{}) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return store.ErrDataNotFound
	}

	res, err := p.db.Exec(query, append([]interface{}{n}, args...)...)
	if err != nil {
		return fmt.Errorf("error updating anchor record: %w", err)
	}

	if rows, _ := res.RowsAffected(); rows != 1 {
		return store.ErrDataNotFound
	}

	return nil
}

func scan(rows *sql.Rows) ([]store.AnchorRecord, error) {
	defer rows.Close()

	recs := []store.AnchorRecord{}

	for rows.Next() {
		var (
			r  store.AnchorRecord
			id int64
		)

		err := rows.Scan(&id, &r.Net, &r.AssetID, &r.EventType, &r.Digest, &r.Status, &r.Attempts,
			&r.SubmittedAt, &r.ConfirmedAt, &r.TxRef)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				break
			}

			return nil, fmt.Errorf("error scanning anchor record: %w", err)
		}

		r.ID = strconv.FormatInt(id, 10)
		r.Seq = id
		recs = append(recs, r)
	}

	return recs, rows.Err()
}
