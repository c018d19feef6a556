package crdt

// Node is the uniform capability every composable CRDT in a document
// tree satisfies: [Record], [List][Value], [Register][Value], and the
// primitive leaf nodes all implement it. Nodes compose by owning their
// children exclusively — a child never consults its parent, and routing
// is driven entirely by an operation's [Path] (spec.md §9).
type Node interface {
	// Apply routes and integrates op, returning the resulting [OpState].
	Apply(op Op[Value]) OpState
	// View returns this node's current value as JSON.
	View() Value
}

// NodeFactory constructs a fresh Node rooted at path, owned by author id.
// It is the mechanism [RecordSchema] uses to recursively initialize a
// record's fields (spec.md §4.4).
type NodeFactory func(id AuthorID, path Path) Node

// NodeFromValue fallibly reconstructs a Node from a JSON value, used when
// destructuring an incoming object into a declared [RecordSchema]
// (spec.md §4.4 DESIGN NOTES item (b)). It must reject shapes that don't
// match the declared schema.
type NodeFromValue func(value Value, id AuthorID, path Path) (Node, error)

// OpState is the return-code taxonomy for applying an operation anywhere
// in the document tree. Byzantine and routing failures are values here,
// never Go errors or panics — panics are reserved for genuine programmer
// misuse (spec.md §7).
type OpState int

const (
	// Ok: the operation was delivered and observed.
	Ok OpState = iota
	// ErrApplyOnPrimitive: tried to apply an operation to an immutable
	// primitive. Wrap it in a [Register] for mutability.
	ErrApplyOnPrimitive
	// ErrApplyOnStruct: tried to apply an operation directly at a
	// [Record]'s own path. Records have no scalar identity.
	ErrApplyOnStruct
	// ErrMismatchedType: the operation's content cannot be coerced to
	// the CRDT type at the addressed path.
	ErrMismatchedType
	// ErrDigestMismatch: the envelope's signed digest does not verify
	// under the claimed author's public key.
	ErrDigestMismatch
	// ErrHashMismatch: the inner operation's id does not match a fresh
	// hash of its canonical fields — an equivocation or tampering
	// attempt.
	ErrHashMismatch
	// ErrPathMismatch: the operation's path does not resolve to any
	// known sub-CRDT.
	ErrPathMismatch
	// ErrListApplyToEmpty: tried to modify or delete the sentinel
	// (zeroth) list element used for bookkeeping.
	ErrListApplyToEmpty
	// MissingCausalDependencies: not an error. The envelope (or, inside
	// a single sub-CRDT, the operation) has been queued pending delivery
	// of a causal predecessor.
	MissingCausalDependencies
)

func (s OpState) String() string {
	switch s {
	case Ok:
		return "Ok"
	case ErrApplyOnPrimitive:
		return "ErrApplyOnPrimitive"
	case ErrApplyOnStruct:
		return "ErrApplyOnStruct"
	case ErrMismatchedType:
		return "ErrMismatchedType"
	case ErrDigestMismatch:
		return "ErrDigestMismatch"
	case ErrHashMismatch:
		return "ErrHashMismatch"
	case ErrPathMismatch:
		return "ErrPathMismatch"
	case ErrListApplyToEmpty:
		return "ErrListApplyToEmpty"
	case MissingCausalDependencies:
		return "MissingCausalDependencies"
	default:
		return "OpState(unknown)"
	}
}

// IsError reports whether s represents a rejected operation. Both Ok and
// MissingCausalDependencies are non-errors: a causally-deferred envelope
// is retained for retry, not discarded (spec.md §7).
func (s OpState) IsError() bool {
	return s != Ok && s != MissingCausalDependencies
}
