package clsag

import (
	"fmt"

	"github.com/gtank/ristretto255"

	"git.gammaspectra.live/P2Pool/clsag/crypto"
)

// PublicSet is one ring member's key vector, one point per layer. Layer order
// is meaningful: layer i must play the same role for every ring member.
//
// Duplicate keys within a set are rejected at construction. The group math
// permits them, yet proving ownership of the same key twice has no protocol
// use, so the restriction is enforced here rather than in the arithmetic.
type PublicSet struct {
	keys []*ristretto255.Element
}

func NewPublicSet(keys []*ristretto255.Element) (*PublicSet, error) {
	s := &PublicSet{keys: keys}
	if s.DuplicatesExist() {
		return nil, ErrDuplicateKey
	}
	return s, nil
}

// NewPublicSetFromBytes decodes a key vector from canonical compressed
// encodings, the entry point for decoy members sourced from external data.
func NewPublicSetFromBytes(keys []crypto.PublicKeyBytes) (*PublicSet, error) {
	points := make([]*ristretto255.Element, len(keys))
	for i := range keys {
		p, err := keys[i].Point()
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, ErrInvalidEncoding)
		}
		points[i] = p
	}
	return NewPublicSet(points)
}

// Len returns the number of layers in the set.
func (s *PublicSet) Len() int {
	return len(s.keys)
}

func (s *PublicSet) IsEmpty() bool {
	return len(s.keys) == 0
}

// DuplicatesExist reports whether any two layers hold the same key. The
// comparison runs over canonical compressed encodings: algebraically equal
// points always serialize identically, raw internal representations do not.
func (s *PublicSet) DuplicatesExist() bool {
	seen := make(map[crypto.PublicKeyBytes]struct{}, len(s.keys))
	for _, key := range s.keys {
		b := crypto.PointBytes(key)
		if _, ok := seen[b]; ok {
			return true
		}
		seen[b] = struct{}{}
	}
	return false
}

// HashedPubKey is the hash-to-point of the compressed first layer key. It is
// the per-member generator every layer's key image is computed against,
// binding all layers of one member to the same base.
func (s *PublicSet) HashedPubKey() *ristretto255.Element {
	first := crypto.PointBytes(s.keys[0])
	return crypto.HashToPoint(first.Slice())
}

// Keys returns the canonical compressed encoding of every layer.
func (s *PublicSet) Keys() []crypto.PublicKeyBytes {
	out := make([]crypto.PublicKeyBytes, len(s.keys))
	for i, key := range s.keys {
		out[i] = crypto.PointBytes(key)
	}
	return out
}

// AppendBinary appends each layer's compressed encoding in layer order, the
// exact byte layout consumed by the transcript hashes.
func (s *PublicSet) AppendBinary(preAllocatedBuf []byte) []byte {
	data := preAllocatedBuf
	for _, key := range s.keys {
		data = key.Encode(data)
	}
	return data
}

func (s *PublicSet) Bytes() []byte {
	return s.AppendBinary(make([]byte, 0, len(s.keys)*crypto.PublicKeySize))
}

// PrivateSet is the signer's scalar vector, index-aligned with the owning
// member's PublicSet. Decoys never hold one.
type PrivateSet struct {
	keys []*ristretto255.Scalar
}

func NewPrivateSet(keys []*ristretto255.Scalar) *PrivateSet {
	return &PrivateSet{keys: keys}
}

// NewPrivateSetFromBytes decodes a scalar vector from canonical encodings.
func NewPrivateSetFromBytes(keys []crypto.PrivateKeyBytes) (*PrivateSet, error) {
	scalars := make([]*ristretto255.Scalar, len(keys))
	for i := range keys {
		x, err := keys[i].Scalar()
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, ErrInvalidEncoding)
		}
		scalars[i] = x
	}
	return NewPrivateSet(scalars), nil
}

func (s *PrivateSet) Len() int {
	return len(s.keys)
}

func (s *PrivateSet) IsEmpty() bool {
	return len(s.keys) == 0
}

// PublicSet derives x_j * G for every layer. This is the single place private
// material turns into publishable material.
func (s *PrivateSet) PublicSet() (*PublicSet, error) {
	points := make([]*ristretto255.Element, len(s.keys))
	for i, x := range s.keys {
		points[i] = ristretto255.NewElement().ScalarBaseMult(x)
	}
	return NewPublicSet(points)
}

// KeyImages multiplies each layer scalar by generator, normally the owning
// member's own HashedPubKey, and compresses the results in layer order.
func (s *PrivateSet) KeyImages(generator *ristretto255.Element) []crypto.PublicKeyBytes {
	out := make([]crypto.PublicKeyBytes, len(s.keys))
	for i, p := range s.keyImagePoints(generator) {
		out[i] = crypto.PointBytes(p)
	}
	return out
}

func (s *PrivateSet) keyImagePoints(generator *ristretto255.Element) []*ristretto255.Element {
	out := make([]*ristretto255.Element, len(s.keys))
	for i, x := range s.keys {
		out[i] = ristretto255.NewElement().ScalarMult(x, generator)
	}
	return out
}
