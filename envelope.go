package crdt

import "bytes"

// SignedOp wraps an Op[Value] with the metadata needed for Byzantine
// fault tolerant delivery: the envelope's signing author (which may
// differ from the inner op's author when relaying), the signature over
// the envelope digest, and the causal predecessors that must be
// delivered first (spec.md §3).
type SignedOp struct {
	Author       AuthorID
	SignedDigest SignedDigest
	Inner        Op[Value]
	DependsOn    []SignedDigest
}

// ID returns the wrapped operation's id.
func (s SignedOp) ID() OpID { return s.Inner.ID }

// digest binds the inner op id, the canonical path, and the dependency
// list (spec.md §4.5's "Digest contract"). Changing any of these changes
// the digest and invalidates the signature: a mutation can't be re-homed
// to another path, and causal promises can't be stripped in transit.
func (s SignedOp) digest() [32]byte {
	var buf bytes.Buffer
	buf.Write(s.Inner.ID[:])
	buf.WriteByte(',')
	buf.WriteString(s.Inner.Path.String())
	buf.WriteByte(',')
	for _, dep := range s.DependsOn {
		buf.Write(dep[:])
	}
	return sha256Sum(buf.Bytes())
}

// VerifySignature checks that SignedDigest validates [digest] under the
// claimed Author's public key. It rejects tampering with the inner op's
// id, its path, or the dependency list (all bound into the digest), and
// forged authorship (the signature must verify under the Author field's
// own key, so relaying under a different claimed author fails
// verification). It does not re-hash the inner op: altering its content
// or other canonical fields while keeping its id passes this check and is
// rejected later by [Op.IsValidHash] when the op is routed.
func (s SignedOp) VerifySignature() bool {
	d := s.digest()
	return VerifySignature(s.Author, d[:], s.SignedDigest)
}

// Sign produces a [SignedOp] for op with no causal dependencies.
func Sign(op Op[Value], keypair *KeyPair) SignedOp {
	return SignWithDependencies(op, keypair, nil)
}

// SignWithDependencies produces a [SignedOp] for op, attaching dependsOn
// as the causal predecessors that must be delivered first. The envelope
// author is the signer's own identity, which may differ from op.Author
// when relaying an operation authored by someone else.
func SignWithDependencies(op Op[Value], keypair *KeyPair, dependsOn []SignedDigest) SignedOp {
	s := SignedOp{
		Author:    keypair.AuthorID(),
		Inner:     op,
		DependsOn: dependsOn,
	}
	d := s.digest()
	s.SignedDigest = keypair.Sign(d[:])
	return s
}
