package crdt

import "github.com/cshekharsharma/bft-json-crdt/internal/tracing"

// List is an RGA/YATA-style ordered-sequence CRDT (spec.md §4.3): a flat
// vector of operations ordered by an integration procedure that tolerates
// out-of-order delivery and byzantine interleavings.
//
// This is grounded on original_source/src/list_crdt.rs's vector-of-ops
// design (index-based scan-and-insert) rather than the teacher's
// linked-list RGA, since spec.md §4.3 explicitly specifies "a flat vector
// of operations ordered by an integration procedure".
//
// When elemFromValue is set, each live element also owns a [Node] built
// from its insertion content, addressable by a further path segment
// naming the element's creation id (spec.md §9: "a list of lists of
// registers is a tree … the node contract must be uniform across all
// levels"). Without it, a list holds opaque leaf values only.
type List[T Canonical] struct {
	ourID         AuthorID
	path          Path
	ops           []Op[T]
	index         map[OpID]int
	pending       map[OpID][]Op[T]
	logicalClocks map[AuthorID]SequenceNumber
	highestSeq    SequenceNumber

	elemFromValue NodeFromValue
	children      map[OpID]Node
}

// NewList creates an empty list at path, owned by id. ops[0] is always
// the sentinel root element every insertion eventually anchors to.
func NewList[T Canonical](id AuthorID, path Path) *List[T] {
	root := MakeRootOp[T]()
	return &List[T]{
		ourID:         id,
		path:          path,
		ops:           []Op[T]{root},
		index:         map[OpID]int{root.ID: 0},
		pending:       map[OpID][]Op[T]{},
		logicalClocks: map[AuthorID]SequenceNumber{id: 0},
	}
}

// NewNodeList creates an empty list whose elements are themselves
// routable sub-CRDTs: elemFromValue reconstructs an element's [Node] from
// its insertion content, the same way a [RecordSchema] field does.
func NewNodeList[T Canonical](id AuthorID, path Path, elemFromValue NodeFromValue) *List[T] {
	l := NewList[T](id, path)
	l.elemFromValue = elemFromValue
	l.children = map[OpID]Node{}
	return l
}

func (l *List[T]) ourSeq() SequenceNumber { return l.logicalClocks[l.ourID] }

// Insert creates a new element causally after the op identified by after,
// applies it locally, and returns it for signing and broadcast.
func (l *List[T]) Insert(after OpID, content T) Op[T] {
	c := content
	op := NewOp(after, l.ourID, l.ourSeq()+1, false, &c, l.path)
	l.Apply(op)
	return op
}

// InsertIdx resolves the i-th live (non-tombstoned) element and inserts
// content after it. An out-of-range index is a programmer error and
// panics, per spec.md §7's "Fatal conditions" policy — it can never be
// triggered by remote/byzantine input.
func (l *List[T]) InsertIdx(i int, content T) Op[T] {
	return l.Insert(l.IdAt(i), content)
}

// Delete marks the op identified by id as a tombstone, applies the delete
// locally, and returns it for signing and broadcast. Deleting an unknown
// id queues the delete exactly like any other operation with an
// as-yet-unseen causal parent.
func (l *List[T]) Delete(id OpID) Op[T] {
	op := NewOp[T](id, l.ourID, l.ourSeq()+1, true, nil, l.path)
	l.Apply(op)
	return op
}

// IdAt exposes the creation id of the i-th live element, for building
// external causal dependencies or follow-up Insert/Delete calls. Panics
// if i is out of range — a programmer error, per spec.md §7.
func (l *List[T]) IdAt(i int) OpID {
	count := 0
	for _, op := range l.ops[1:] {
		if op.IsDeleted {
			continue
		}
		if count == i {
			return op.ID
		}
		count++
	}
	panic("crdt: list index out of range")
}

// Child exposes the live [Node] owned by the element with the given
// creation id, for callers that want to mutate a nested sub-CRDT directly
// rather than through a received [Op]. Returns false if the list isn't a
// node-list or the id is unknown.
func (l *List[T]) Child(id OpID) (Node, bool) {
	child, ok := l.children[id]
	return child, ok
}

// find returns the vector index of the op with the given id, if known.
func (l *List[T]) find(id OpID) (int, bool) {
	idx, ok := l.index[id]
	return idx, ok
}

// Apply integrates op into this list (spec.md §4.3's "Integration"), or,
// if op's path descends past this list's own path, routes it to the
// child node addressed by the next Index segment (spec.md §9). Unknown
// origins at this level are parked on a queue keyed by that origin and
// re-applied once released; everything else at this level is a
// deterministic scan forward from the anchor's position.
func (l *List[T]) Apply(op Op[T]) OpState {
	if !op.IsValidHash() {
		tracing.Logger.Debug().Str("path", l.path.String()).Msg("list: rejecting op with invalid hash")
		return ErrHashMismatch
	}

	if len(op.Path) > len(l.path) {
		return l.applyToChild(op)
	}

	parentIdx, ok := l.find(op.Origin)
	if !ok {
		tracing.Logger.Debug().
			Str("path", l.path.String()).
			Msg("list: parking op on missing causal dependency")
		l.pending[op.Origin] = append(l.pending[op.Origin], op)
		return MissingCausalDependencies
	}

	if op.IsDeleted {
		if parentIdx == 0 {
			return ErrListApplyToEmpty
		}
		l.ops[parentIdx].IsDeleted = true
		l.bookkeep(op.Author, op.Seq)
		l.release(op.ID)
		return Ok
	}

	insertAt := len(l.ops)
	for i := parentIdx + 1; i < len(l.ops); i++ {
		existing := l.ops[i]
		if existing.ID == op.ID {
			// idempotent drop: already integrated.
			l.bookkeep(op.Author, op.Seq)
			return Ok
		}

		existingParentIdx, ok := l.find(existing.Origin)
		if !ok {
			continue
		}

		switch {
		case parentIdx > existingParentIdx:
			insertAt = i
		case parentIdx == existingParentIdx:
			if op.Seq > existing.Seq || (op.Seq == existing.Seq && op.Author.Greater(existing.Author)) {
				insertAt = i
			} else {
				continue
			}
		default:
			continue
		}
		break
	}

	var child Node
	if l.elemFromValue != nil {
		var err error
		child, err = l.elemFromValue((*op.Content).ToValue(), l.ourID, l.path.Extend(Index(op.ID)))
		if err != nil {
			return ErrMismatchedType
		}
	}

	l.insertAt(insertAt, op)
	l.bookkeep(op.Author, op.Seq)
	if child != nil {
		l.children[op.ID] = child
	}
	l.release(op.ID)
	return Ok
}

// applyToChild dispatches op to the live node addressed by the Index
// segment immediately below this list's own path. A list that isn't a
// node-list has a nil children map, so lookup always misses and any
// attempt to route past it correctly falls through to ErrPathMismatch.
func (l *List[T]) applyToChild(op Op[T]) OpState {
	next := op.Path[len(l.path)]
	if next.Kind != SegIndex {
		return ErrPathMismatch
	}
	child, ok := l.children[next.Index]
	if !ok {
		return ErrPathMismatch
	}
	valueOp, ok := any(op).(Op[Value])
	if !ok {
		return ErrMismatchedType
	}
	return child.Apply(valueOp)
}

func (l *List[T]) insertAt(i int, op Op[T]) {
	l.ops = append(l.ops, Op[T]{})
	copy(l.ops[i+1:], l.ops[i:])
	l.ops[i] = op
	for id, idx := range l.index {
		if idx >= i {
			l.index[id] = idx + 1
		}
	}
	l.index[op.ID] = i
}

func (l *List[T]) bookkeep(author AuthorID, seq SequenceNumber) {
	l.logicalClocks[author] = seq
	if seq > l.highestSeq {
		l.highestSeq = seq
	}
	l.logicalClocks[l.ourID] = l.highestSeq
}

// release re-applies every op that was parked waiting on opID, now that
// opID itself has been integrated. An op with multiple missing
// dependencies parks again on whichever it still lacks (spec.md §9,
// "Pending queue shape").
func (l *List[T]) release(opID OpID) {
	queued, ok := l.pending[opID]
	if !ok {
		return
	}
	delete(l.pending, opID)
	for _, dependent := range queued {
		l.Apply(dependent)
	}
}

// Items returns the sequence of live payloads in integration order,
// skipping tombstones. For a node-list this is each element's original
// insertion content, not its possibly-since-mutated live state — use
// [List.View] or [List.Child] for that.
func (l *List[T]) Items() []T {
	var out []T
	for _, op := range l.ops[1:] {
		if !op.IsDeleted && op.Content != nil {
			out = append(out, *op.Content)
		}
	}
	return out
}

// View returns the list's live contents as a JSON array. Node-list
// elements render their current (possibly mutated) state via their own
// [Node.View]; plain elements render their insertion content via
// [Canonical.ToValue].
func (l *List[T]) View() Value {
	arr := make([]Value, 0, len(l.ops)-1)
	for _, op := range l.ops[1:] {
		if op.IsDeleted {
			continue
		}
		if child, ok := l.children[op.ID]; ok {
			arr = append(arr, child.View())
			continue
		}
		if op.Content != nil {
			arr = append(arr, (*op.Content).ToValue())
		}
	}
	return Value{Kind: KindArray, Array: arr}
}

// Len returns the number of live (non-tombstoned) elements.
func (l *List[T]) Len() int { return len(l.Items()) }
