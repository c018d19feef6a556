package crdt

import "github.com/cshekharsharma/bft-json-crdt/internal/tracing"

// Register is a Last-Writer-Wins scalar cell (spec.md §4.2). It holds
// exactly one operation as its current value; concurrent writers are
// resolved deterministically by comparing (seq, author).
type Register[T Canonical] struct {
	ourID         AuthorID
	path          Path
	value         Op[T]
	logicalClocks map[AuthorID]SequenceNumber
	highestSeq    SequenceNumber
}

// NewRegister creates an empty register at path, owned by id.
func NewRegister[T Canonical](id AuthorID, path Path) *Register[T] {
	return &Register[T]{
		ourID:         id,
		path:          path,
		value:         MakeRootOp[T](),
		logicalClocks: map[AuthorID]SequenceNumber{id: 0},
	}
}

func (r *Register[T]) ourSeq() SequenceNumber { return r.logicalClocks[r.ourID] }

// Set creates a new op whose predecessor is the current value's id,
// applies it locally (so the caller observes its own write immediately),
// and returns it for signing and broadcast.
func (r *Register[T]) Set(content T) Op[T] {
	c := content
	op := NewOp(r.value.ID, r.ourID, r.ourSeq()+1, false, &c, r.path)
	r.Apply(op)
	return op
}

// Apply integrates op into this register. After hash validation, whichever
// of the current or incoming op has the greater (seq, author)
// lexicographic pair wins — seq dominates, ties broken by the greater
// author id so every replica converges on the same winner (spec.md §4.2,
// resolved per the concrete tie-break direction in SPEC_FULL.md §1).
// Idempotent and commutative under that ordering.
func (r *Register[T]) Apply(op Op[T]) OpState {
	if !op.IsValidHash() {
		tracing.Logger.Debug().Str("path", r.path.String()).Msg("register: rejecting op with invalid hash")
		return ErrHashMismatch
	}

	if registerWins(op, r.value) {
		r.value = op
	}

	r.bookkeep(op.Author, op.Seq)
	return Ok
}

func (r *Register[T]) bookkeep(author AuthorID, seq SequenceNumber) {
	r.logicalClocks[author] = seq
	if seq > r.highestSeq {
		r.highestSeq = seq
	}
	r.logicalClocks[r.ourID] = r.highestSeq
}

// registerWins reports whether candidate should replace current.
func registerWins[T Canonical](candidate, current Op[T]) bool {
	if current.ID == RootID && current.Content == nil {
		return true
	}
	if candidate.Seq != current.Seq {
		return candidate.Seq > current.Seq
	}
	return candidate.Author.Greater(current.Author)
}

// Items returns the current content, or nil if never set.
func (r *Register[T]) Items() *T { return r.value.Content }

// View returns the register's current content as JSON, or [Null] if the
// register has never been set.
func (r *Register[T]) View() Value {
	if r.value.Content == nil {
		return Null
	}
	return (*r.value.Content).ToValue()
}
