package crdt

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
)

// AuthorID is a 32-byte Ed25519 public key identifying an operation's
// creator. The all-zero id is the sentinel root/empty author.
type AuthorID [32]byte

// RootAuthor is the sentinel author of the sentinel root element shared by
// every sub-CRDT.
var RootAuthor AuthorID

// Less gives AuthorID a total, lexicographic order on its raw bytes. Used
// to break ties deterministically when two operations are otherwise
// indistinguishable (same anchor, same sequence number).
func (a AuthorID) Less(b AuthorID) bool { return bytes.Compare(a[:], b[:]) < 0 }

// Greater is the strict converse of Less: it reports whether a sorts
// after b. Equal ids are neither Less nor Greater.
func (a AuthorID) Greater(b AuthorID) bool { return bytes.Compare(a[:], b[:]) > 0 }

// SequenceNumber is an author-local Lamport counter: monotonically
// non-decreasing per author within any given sub-CRDT.
type SequenceNumber uint64

// OpID is the SHA-256 digest of an operation's canonical fields — see
// [Op.HashToID]. Equality of OpIDs is equality of operations: any change
// to a canonical field yields a different id.
type OpID [32]byte

// RootID is the sentinel id shared by every sub-CRDT's root element.
var RootID OpID

// Canonical is satisfied by any content type usable as an [Op] payload.
// CanonicalBytes feeds the operation-id hash (spec.md §4.1); ToValue lets
// generic [List]/[Register] instantiations satisfy the uniform [Node]
// contract, whose View always returns a [Value].
type Canonical interface {
	CanonicalBytes() []byte
	ToValue() Value
}

// Op is a single content-addressed mutation record. T is the payload
// type; inside a [Document] tree T is always [Value], but [List] and
// [Register] are defined generically so they can be exercised directly
// (as the teacher's RGA and counters are) without a surrounding document.
//
// Invariants: Content != nil XOR IsDeleted, for any non-root op; ID ==
// HashToID(); for a delete op, Origin identifies the op being tombstoned.
type Op[T Canonical] struct {
	ID        OpID
	Origin    OpID
	Author    AuthorID
	Seq       SequenceNumber
	IsDeleted bool
	Content   *T
	Path      Path
}

// NewOp constructs an operation and immediately hashes its canonical
// fields to derive its id. Path is deliberately excluded from the hash
// (spec.md §4.1) — it is covered instead by the envelope digest, so an
// op's identity stays stable even if the document is restructured above
// it.
func NewOp[T Canonical](origin OpID, author AuthorID, seq SequenceNumber, isDeleted bool, content *T, path Path) Op[T] {
	op := Op[T]{
		Origin:    origin,
		Author:    author,
		Seq:       seq,
		IsDeleted: isDeleted,
		Content:   content,
		Path:      path,
	}
	op.ID = op.HashToID()
	return op
}

// MakeRootOp returns the sentinel root operation shared by every
// sub-CRDT: all-zero id, all-zero origin, all-zero author, sequence zero,
// not deleted, no content.
func MakeRootOp[T Canonical]() Op[T] {
	return Op[T]{Origin: RootID, ID: RootID, Author: RootAuthor}
}

// HashToID recomputes the canonical hash of origin, author, seq,
// is_deleted, and content. Two replicas constructing the same logical
// operation must compute the same id; this is what equivocation
// detection (spec.md §8, "Equivocation") rests on.
func (op Op[T]) HashToID() OpID {
	var buf bytes.Buffer
	buf.Write(op.Origin[:])
	buf.Write(op.Author[:])
	var seqBytes [8]byte
	binary.LittleEndian.PutUint64(seqBytes[:], uint64(op.Seq))
	buf.Write(seqBytes[:])
	if op.IsDeleted {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}
	if op.Content != nil {
		buf.Write((*op.Content).CanonicalBytes())
	}
	return sha256.Sum256(buf.Bytes())
}

// IsValidHash checks that the id matches a fresh hash of the canonical
// fields and that the content/is_deleted invariant holds. A false result
// means the operation was tampered with (or fabricated) after creation.
func (op Op[T]) IsValidHash() bool {
	if op.ID == RootID && op.Origin == RootID && op.Author == RootAuthor &&
		op.Seq == 0 && !op.IsDeleted && op.Content == nil {
		return true
	}
	hasContent := op.Content != nil
	if hasContent == op.IsDeleted {
		return false
	}
	return op.HashToID() == op.ID
}
