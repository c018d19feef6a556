package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_ApplyAndView(t *testing.T) {
	kp := mustKeyPair(t)
	doc := NewDocument(kp, todoSchema())

	content := String("buy milk")
	op := NewOp(RootID, kp.AuthorID(), 1, false, &content, Path{Field("title")})
	signed := Sign(op, kp)

	assert.Equal(t, Ok, doc.Apply(signed))
	assert.Equal(t, String("buy milk"), doc.View().Object["title"])
	assert.Equal(t, 1, doc.ReceivedCount())
	assert.Equal(t, 0, doc.PendingCount())
}

func TestDocument_RejectsDigestMismatch(t *testing.T) {
	real := mustKeyPair(t)
	attacker := mustKeyPair(t)
	doc := NewDocument(real, todoSchema())

	content := String("buy milk")
	op := NewOp(RootID, attacker.AuthorID(), 1, false, &content, Path{Field("title")})
	signed := Sign(op, attacker)
	signed.Author = real.AuthorID()

	assert.Equal(t, ErrDigestMismatch, doc.Apply(signed))
	assert.Equal(t, 0, doc.ReceivedCount())
}

// TestDocument_CausalQueue grounds spec.md's "Causal queue" scenario one
// level up from the list/register sub-CRDTs: an envelope that names an
// undelivered dependency is parked until that dependency arrives, then
// integrated automatically.
func TestDocument_CausalQueue(t *testing.T) {
	kp := mustKeyPair(t)
	doc := NewDocument(kp, todoSchema())

	firstContent := String("first")
	firstOp := NewOp(RootID, kp.AuthorID(), 1, false, &firstContent, Path{Field("title")})
	firstSigned := Sign(firstOp, kp)

	secondContent := String("second")
	secondOp := NewOp(firstOp.ID, kp.AuthorID(), 2, false, &secondContent, Path{Field("title")})
	secondSigned := SignWithDependencies(secondOp, kp, []SignedDigest{firstSigned.SignedDigest})

	status := doc.Apply(secondSigned)
	assert.Equal(t, MissingCausalDependencies, status)
	assert.Equal(t, 1, doc.PendingCount())
	assert.Equal(t, Null, doc.View().Object["title"], "the dependent must not be visible before its dependency lands")

	status = doc.Apply(firstSigned)
	assert.Equal(t, Ok, status)
	assert.Equal(t, 0, doc.PendingCount())
	assert.Equal(t, String("second"), doc.View().Object["title"], "releasing the dependency must integrate the queued envelope")
}

func TestDocument_RejectsTamperedOpHash(t *testing.T) {
	kp := mustKeyPair(t)
	doc := NewDocument(kp, todoSchema())

	content := String("buy milk")
	op := NewOp(RootID, kp.AuthorID(), 1, false, &content, Path{Field("title")})
	signed := Sign(op, kp)

	other := String("tampered")
	signed.Inner.Content = &other

	assert.Equal(t, ErrHashMismatch, doc.Apply(signed), "tampering with content after signing must invalidate the inner op's own hash")
}

// TestDocument_IntegrityFailureDoesNotMarkReceived grounds the received-
// set/pending-queue quiescence policy: an envelope that verifies at the
// signature level but whose inner op fails its own hash check must not
// be credited as delivered, and must not release anything waiting on it.
func TestDocument_IntegrityFailureDoesNotMarkReceived(t *testing.T) {
	kp := mustKeyPair(t)
	doc := NewDocument(kp, todoSchema())

	content := String("first")
	op := NewOp(RootID, kp.AuthorID(), 1, false, &content, Path{Field("title")})
	signed := Sign(op, kp)

	other := String("tampered")
	signed.Inner.Content = &other

	dependentContent := String("second")
	dependentOp := NewOp(op.ID, kp.AuthorID(), 2, false, &dependentContent, Path{Field("title")})
	dependentSigned := SignWithDependencies(dependentOp, kp, []SignedDigest{signed.SignedDigest})

	status := doc.Apply(dependentSigned)
	assert.Equal(t, MissingCausalDependencies, status)
	assert.Equal(t, 1, doc.PendingCount())

	status = doc.Apply(signed)
	assert.Equal(t, ErrHashMismatch, status)
	assert.Equal(t, 0, doc.ReceivedCount(), "a failed envelope must not be credited as delivered")
	assert.Equal(t, 1, doc.PendingCount(), "nothing waiting on a failed envelope may be released")
	assert.Equal(t, Null, doc.View().Object["title"])
}

func TestDocument_RoutingFailureDoesNotMarkReceived(t *testing.T) {
	kp := mustKeyPair(t)
	doc := NewDocument(kp, todoSchema())

	content := String("x")
	op := NewOp(RootID, kp.AuthorID(), 1, false, &content, Path{Field("nonexistent")})
	signed := Sign(op, kp)

	assert.Equal(t, ErrPathMismatch, doc.Apply(signed))
	assert.Equal(t, 0, doc.ReceivedCount())
}

func TestDocument_AuthorIDMatchesKeyPair(t *testing.T) {
	kp := mustKeyPair(t)
	doc := NewDocument(kp, todoSchema())
	assert.Equal(t, kp.AuthorID(), doc.AuthorID())
}
