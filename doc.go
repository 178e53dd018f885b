// Package landreg and its sub-packages implement the backend services of a dual-ledger land registry: an
// authoritative permissioned ledger holding ownership records and a set of public chains carrying tamper-evident
// proofs of every lifecycle event.
/*
landreg provides you with two microservices:

1) a registry microservice (package registry) that implements a RESTful API for land administration requests such
 as registering parcels and apartment units, running two-phase ownership transfers, raising and resolving
 disputes, and managing encumbrances.

2) an anchorer microservice (package anchorer) that submits a fingerprint of every committed lifecycle event to
 the configured public chains, giving third parties a way to detect tampering without access to the registry
 itself.

Architecture

The registry is the sole writer to the authoritative ledger (package lib/ledger). The ledger layer is product
agnostic: the transition rules live in lib/ledger/contract over a minimal key/value state, so the same rules run
in-process (lib/ledger/memledger) for development and tests, or on a permissioned peer reached through an HTTP
gateway (lib/ledger/gateway). Deed documents never touch the ledger; they go to a content-addressed document
store (package lib/docstore) and only their digests are recorded.

The registry and anchorer services communicate via a message broker (package lib/msg). After every committed
write the registry publishes a proof request; the anchorer consumes these into a durable outbox (package
lib/store) and submits each proof to its public chain in order, retrying with backoff. Anchoring is strictly
derived state: a public chain outage delays proofs but never blocks or rolls back the authoritative ledger.
Proof outcomes are published back as events which the registry logs.

The public chain layer (package lib/anchor) signs proof transactions with accounts derived from a hierarchical
deterministic wallet configured via the JSON config file provided at startup.

The microservices can also be monitored via a Prometheus API by setting the flag "-m" at startup.

Registry

The registry microservice (package registry) can be started running cmd/registry/main.go. It exposes an HTTP
RESTful API over parcels, units, transfers, disputes and encumbrances, plus the anchor history of any asset.
Ownership changes are two-phase: a transfer request is initiated with a proposed ownership set and only an
approval replaces the asset's owners, atomically with the request's decision.

Anchorer

The anchorer microservice (package anchorer) can be started running cmd/anchord/main.go. It drains the proof
outbox per chain in submission order, so the anchored history of any single asset always appears in the order
the registry committed it.

*/
package landreg
