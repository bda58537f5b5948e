// Package clsag implements CLSAG, a multi-layer linkable ring signature over
// the ristretto255 group. A signer proves, anonymously within a ring of decoy
// public key vectors, that they control the private keys of one member's
// vector, while publishing one deterministic key image per layer so that reuse
// of the same private key can be detected without deanonymizing the signer.
package clsag

import (
	"bytes"

	"git.gammaspectra.live/P2Pool/clsag/crypto"
)

// Member is one ring entry. A decoy carries only the public key vector; the
// signer additionally carries the aligned private vector.
type Member struct {
	Public *PublicSet

	private *PrivateSet
}

// NewDecoy wraps an existing public set as a decoy entry.
func NewDecoy(public *PublicSet) Member {
	return Member{Public: public}
}

// NewDecoyFromBytes builds a decoy entry from compressed public key bytes.
func NewDecoyFromBytes(keys []crypto.PublicKeyBytes) (Member, error) {
	public, err := NewPublicSetFromBytes(keys)
	if err != nil {
		return Member{}, err
	}
	return NewDecoy(public), nil
}

// NewSigner derives the public vector from private and pairs the two as the
// real signer's entry.
func NewSigner(private *PrivateSet) (Member, error) {
	public, err := private.PublicSet()
	if err != nil {
		return Member{}, err
	}
	return Member{Public: public, private: private}, nil
}

// NewSignerFromBytes builds the signer's entry from canonical scalar bytes.
func NewSignerFromBytes(keys []crypto.PrivateKeyBytes) (Member, error) {
	private, err := NewPrivateSetFromBytes(keys)
	if err != nil {
		return Member{}, err
	}
	return NewSigner(private)
}

// Clsag assembles a ring of member key vectors and signs messages over it.
// Exactly one added member must be the signer. The signer's ring position is
// deliberately unexported and has no accessor: the position is exactly the
// information the scheme hides.
type Clsag struct {
	members     []Member
	signerIndex int
}

func New() *Clsag {
	return &Clsag{signerIndex: -1}
}

// AddMember appends a decoy or the signer to the ring, enforcing the
// assembly-time protocol policy: equal layer counts across members, at most
// one signer, and no two members presenting the same key vector.
func (c *Clsag) AddMember(m Member) error {
	if m.Public == nil || m.Public.IsEmpty() {
		return ErrMismatchedKeyLength
	}
	if len(c.members) > 0 && m.Public.Len() != c.members[0].Public.Len() {
		return ErrMismatchedKeyLength
	}
	if m.private != nil {
		if c.signerIndex >= 0 {
			return ErrMultipleSigners
		}
		if m.private.Len() != m.Public.Len() {
			return ErrMismatchedKeyLength
		}
	}

	memberBytes := m.Public.Bytes()
	for i := range c.members {
		if bytes.Equal(c.members[i].Public.Bytes(), memberBytes) {
			return ErrDuplicateKey
		}
	}

	c.members = append(c.members, m)
	if m.private != nil {
		c.signerIndex = len(c.members) - 1
	}
	return nil
}

// Len returns the ring size.
func (c *Clsag) Len() int {
	return len(c.members)
}

// Layers returns the per-member key vector length, 0 for an empty ring.
func (c *Clsag) Layers() int {
	if len(c.members) == 0 {
		return 0
	}
	return c.members[0].Public.Len()
}

// PublicKeys returns every member's public set in insertion order, the ring
// view a verifier works against.
func (c *Clsag) PublicKeys() []*PublicSet {
	out := make([]*PublicSet, len(c.members))
	for i := range c.members {
		out[i] = c.members[i].Public
	}
	return out
}
