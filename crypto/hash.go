package crypto

import (
	"github.com/gtank/ristretto255"
	"golang.org/x/crypto/sha3"
)

// UniformSize is the number of uniform bytes wide-reduced into a scalar or
// mapped onto the group.
const UniformSize = 64

// HashSize is the size of a message prefix hash.
const HashSize = 32

// HashToPoint maps data onto the group through SHA3-512 and the ristretto
// one-way map. The discrete logarithm of the result relative to the basepoint
// is unknown; key-image unforgeability relies on this, so the construction
// must never be replaced by hashing to a scalar and multiplying the basepoint.
func HashToPoint(data []byte) *ristretto255.Element {
	h := sha3.Sum512(data)
	return ristretto255.NewElement().FromUniformBytes(h[:])
}

// DeriveScalar reduces the SHA3-512 digest of a transcript into dst.
// Wide reduction keeps the output unbiased over the group order.
func DeriveScalar(dst *ristretto255.Scalar, data []byte) *ristretto255.Scalar {
	h := sha3.Sum512(data)
	return dst.FromUniformBytes(h[:])
}

// HashMessage compresses an arbitrary-length message into the fixed-width
// transcript slot.
func HashMessage(message []byte) [HashSize]byte {
	return sha3.Sum256(message)
}
