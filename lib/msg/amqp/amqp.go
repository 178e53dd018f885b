// Package amqp implements the message broker interface for AMQP compliant brokers (ie RabbitMQ)
package amqp

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/streadway/amqp"

	"github.com/bhoomi/landreg/lib/msg"
)

// Amqp implements a connection to a broker and a channel for reuse.
type Amqp struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// New instantiates a new amqp broker.
func New(uri string) (msg.MsgBroker, error) {
	r := Amqp{}
	var err error

	if r.conn, err = amqp.Dial(uri); err != nil {
		return &r, err
	}
	r.ch = nil
	log.Printf("Connected to %s", uri)

	return &r, err
}

// Setup obtains an amqp channel and declares the message broker exchanges:
//
// - pr ("proof requests"): the registry service publishes anchoring requests to this exchange
//
// - pe ("proof events"): the anchorer service publishes anchoring outcomes to this exchange
func (r *Amqp) Setup(x interface{}) error {
	// obtain a one-use channel
	channel, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer channel.Close()
	// declare exchanges
	if err = channel.ExchangeDeclare("pr", "topic", true, false, false, false, nil); err != nil {
		return err
	}
	err = channel.ExchangeDeclare("pe", "topic", true, false, false, false, nil)

	return err
}

// Close terminates gracefully the connection to the AMQP message broker.
func (r *Amqp) Close() error {
	if r.ch != nil {
		if err := r.ch.Close(); err != nil {
			log.Printf("Error closing amqp.Channel:%e", err)
		}
		r.ch = nil
		log.Printf("amqp.Channel closed!")
	}

	return r.conn.Close()
}

// SendProof publishes a proof request to the "pr" exchange. Messages are durable so queued requests survive a
// broker restart.
func (r *Amqp) SendProof(net string, pr msg.ProofReq) (err error) {
	// marshal to JSON
	var jsonDoc []byte
	if jsonDoc, err = json.Marshal(pr); err != nil {
		return
	}
	// obtain channel if not present
	if r.ch == nil {
		if r.ch, err = r.conn.Channel(); err != nil {
			return
		}
	}
	// build body
	m := amqp.Publishing{
		Headers:      amqp.Table{"x-proof-name": net + "." + pr.AssetID},
		Body:         jsonDoc,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
	}
	// publish
	if err = r.ch.Publish("pr", net+"."+pr.EventType+"."+pr.AssetID, false, false, m); err != nil {
		log.Printf("[%s] Error sending proof request to message broker %e", net, err)
	}

	return
}

// SendEvent publishes a proof outcome to the "pe" exchange.
func (r *Amqp) SendEvent(net string, pe msg.ProofEvent) (err error) {
	// marshal to JSON
	var jsonDoc []byte
	if jsonDoc, err = json.Marshal(pe); err != nil {
		return
	}
	// obtain channel if not present
	if r.ch == nil {
		if r.ch, err = r.conn.Channel(); err != nil {
			return
		}
	}
	// build body
	m := amqp.Publishing{
		Headers:      amqp.Table{"x-proof-name": net + "." + pe.AssetID},
		Body:         jsonDoc,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
	}
	// publish
	if err = r.ch.Publish("pe", net+"."+pe.Status+"."+pe.AssetID, false, false, m); err != nil {
		log.Printf("[%s] Error sending proof event to message broker %e", net, err)
	}

	return
}

// GetProofs consumes proof requests from the "pr" exchange for the specified network pushing them to the
// returned channel. The Mutex pointer is provided to ensure the consumed message has been fully dealt with by
// the management function, so the message consumed is only acknowledged when the mutex is unlocked.
func (r *Amqp) GetProofs(net string, mut *sync.Mutex) (<-chan msg.ProofReq, <-chan error, error) {
	msgs, err := r.consume("pr", net, "anchorer-"+net)
	if err != nil {
		return nil, nil, err
	}
	// define channels to return
	reqs := make(chan msg.ProofReq)
	errors := make(chan error)
	// start routine to consume messages from broker
	go func() {
		for m := range msgs {
			req := new(msg.ProofReq)
			err := json.Unmarshal(m.Body, req)
			if err != nil {
				errors <- err

				continue
			}
			reqs <- *req
			mut.Lock() // wait for anchorer to finish processing the request
			m.Ack(false)
		}
	}()

	return reqs, errors, nil
}

// GetEvents consumes proof events from the "pe" exchange pushing them to the returned channel. Acknowledgement
// follows the same mutex protocol as GetProofs.
func (r *Amqp) GetEvents(net string, mut *sync.Mutex) (<-chan msg.ProofEvent, <-chan error, error) {
	msgs, err := r.consume("pe", net, "registry-"+net)
	if err != nil {
		return nil, nil, err
	}
	// define channels to return
	eves := make(chan msg.ProofEvent)
	errors := make(chan error)
	// start routine to consume messages from broker
	go func() {
		for m := range msgs {
			pe := new(msg.ProofEvent)
			err := json.Unmarshal(m.Body, pe)
			if err != nil {
				errors <- err

				continue
			}
			eves <- *pe
			mut.Lock() // wait for registry to finish processing the event
			m.Ack(false)
		}
	}()

	return eves, errors, nil
}

// consume declares a durable queue bound to the exchange for the network and starts consuming from it.
func (r *Amqp) consume(exchange, net, consumer string) (<-chan amqp.Delivery, error) {
	var err error
	if r.ch == nil {
		if r.ch, err = r.conn.Channel(); err != nil {
			return nil, err
		}
	}
	// declare queue
	if _, err = r.ch.QueueDeclare(exchange+net, true, false, false, false, nil); err != nil {
		return nil, err
	}
	// bind queue to exchange
	if err = r.ch.QueueBind(exchange+net, net+".*.*", exchange, false, nil); err != nil {
		return nil, err
	}

	return r.ch.Consume(exchange+net, consumer, false, false, false, false, nil)
}
