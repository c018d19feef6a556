package crdt

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// SignedDigest is a 64-byte Ed25519 signature over an envelope-level
// digest (see [SignedOp.digest]).
type SignedDigest [64]byte

// KeyPair is the crypto adapter's output: an Ed25519 identity usable to
// sign operations and to derive an [AuthorID]. Key generation, signing,
// and verification themselves are treated as an external collaborator
// per spec.md §1/§6 — this is a thin wrapper over crypto/ed25519, the
// same stdlib package certenIO-certen-validator's Ed25519 attestation
// strategy reaches for.
type KeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// GenerateKeyPair produces a fresh Ed25519 identity.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("crdt: generate keypair: %w", err)
	}
	return &KeyPair{Public: pub, Private: priv}, nil
}

// AuthorID returns this keypair's public key as an [AuthorID].
func (k *KeyPair) AuthorID() AuthorID {
	var id AuthorID
	copy(id[:], k.Public)
	return id
}

// Sign produces a raw Ed25519 signature over message.
func (k *KeyPair) Sign(message []byte) [64]byte {
	var sig [64]byte
	copy(sig[:], ed25519.Sign(k.Private, message))
	return sig
}

// VerifySignature checks that sig is a valid Ed25519 signature over
// message under pubkey.
func VerifySignature(pubkey AuthorID, message []byte, sig [64]byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pubkey[:]), message, sig[:])
}

// sha256Sum is the canonical SHA-256 digest used for envelope digests.
// Operation ids are hashed with the same algorithm in [Op.HashToID],
// which calls crypto/sha256 directly.
func sha256Sum(data []byte) [32]byte {
	return sha256.Sum256(data)
}
