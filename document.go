package crdt

import (
	"github.com/cshekharsharma/bft-json-crdt/internal/tracing"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Document is the BFT causal-delivery root (spec.md §4.5, "BaseCrdt"). It
// owns the root node (a [Record]), the received set of signed digests,
// and the pending queue keyed by signed digest. All work inside Apply
// runs to completion synchronously — the core is single-threaded per
// document (spec.md §5), so callers must serialize concurrent access to
// the same Document externally if they share one across goroutines.
type Document struct {
	keypair  *KeyPair
	root     *Record
	received map[SignedDigest]struct{}
	pending  map[SignedDigest][]SignedOp
}

// Option configures a [Document] at construction time. There is no other
// configuration surface: no CLI, no environment variables, no config
// files (spec.md §6).
type Option func(*Document)

// WithLogger installs a pre-configured zerolog sink as the package-wide
// tracing logger, in place of the package-default no-op logger. The
// setting is not scoped to the document being constructed: every
// Document and sub-CRDT in the process logs to the last sink installed.
func WithLogger(l zerolog.Logger) Option {
	return func(*Document) { tracing.SetLogger(l) }
}

// NewDocument creates a document whose root is a [Record] of the given
// schema, identified by keypair.
func NewDocument(keypair *KeyPair, schema RecordSchema, opts ...Option) *Document {
	d := &Document{
		keypair:  keypair,
		root:     NewRecord(schema, keypair.AuthorID(), nil),
		received: map[SignedDigest]struct{}{},
		pending:  map[SignedDigest][]SignedOp{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AuthorID returns this document's own identity.
func (d *Document) AuthorID() AuthorID { return d.keypair.AuthorID() }

// KeyPair returns this document's signing identity, for producing
// [SignedOp]s from mutations made directly against the root or its
// fields.
func (d *Document) KeyPair() *KeyPair { return d.keypair }

// Apply verifies and integrates a signed envelope (spec.md §4.5):
//  1. Recompute the envelope digest and verify the signature under the
//     claimed author's key. Failure -> ErrDigestMismatch.
//  2. For each causal dependency not yet in the received set, queue the
//     envelope and return MissingCausalDependencies.
//  3. Route the inner op through the node tree.
//  4. Record the envelope as received and release any queued dependents.
func (d *Document) Apply(op SignedOp) OpState {
	correlation := uuid.New().String()
	log := tracing.Logger.With().Str("apply_id", correlation).Logger()

	if !op.VerifySignature() {
		log.Debug().
			Str("path", op.Inner.Path.String()).
			Msg("document: rejecting envelope with invalid signature")
		return ErrDigestMismatch
	}

	digest := op.SignedDigest
	for _, dep := range op.DependsOn {
		if _, ok := d.received[dep]; !ok {
			log.Debug().Msg("document: queuing envelope on missing causal dependency")
			d.pending[dep] = append(d.pending[dep], op)
			return MissingCausalDependencies
		}
	}

	status := d.root.Apply(op.Inner)
	log.Debug().
		Str("path", op.Inner.Path.String()).
		Str("result", status.String()).
		Msg("document: applied envelope")

	// An integrity or routing failure leaves the received set and pending
	// queue untouched: the envelope was never delivered, so nothing that
	// depends on it may be released either (spec.md §7).
	if status.IsError() {
		return status
	}

	d.received[digest] = struct{}{}

	dependents := d.pending[digest]
	delete(d.pending, digest)
	for _, dependent := range dependents {
		d.Apply(dependent)
	}

	return status
}

// View returns the document's current value as JSON.
func (d *Document) View() Value { return d.root.View() }

// ReceivedCount reports how many envelopes have been durably applied.
// Introspection only; grounded on original_source/src/debug.rs's
// log_ops-style visibility into queue state, useful for tests and
// embedders without reaching into unexported fields.
func (d *Document) ReceivedCount() int { return len(d.received) }

// PendingCount reports how many envelopes are parked waiting on a causal
// dependency.
func (d *Document) PendingCount() int {
	n := 0
	for _, q := range d.pending {
		n += len(q)
	}
	return n
}
