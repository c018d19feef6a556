// Package crdt implements a Byzantine-fault-tolerant JSON CRDT.
//
// Mutually distrusting replicas can edit a shared, arbitrarily nested JSON
// document concurrently and converge to an identical value. Every mutation
// travels as a content-addressed, signed [SignedOp]; a [Document] verifies
// each envelope's hash and signature before applying it, rejects anything
// forged, replayed, or tampered with, and queues anything whose causal
// dependencies have not yet arrived.
//
// The three load-bearing pieces are the operation/envelope model ([Op],
// [SignedOp]), the list CRDT integration algorithm ([List]), and the
// compositional document engine ([Record], [Register], [Document]). None
// of it assumes a trusted network or a well-behaved peer.
package crdt
