package crypto

import (
	"fmt"
	"io"

	"github.com/gtank/ristretto255"
	"golang.org/x/crypto/sha3"
)

// RandomScalar draws a scalar from r by wide reduction of 64 uniform bytes.
// The group has prime order, so no rejection loop is needed.
func RandomScalar(r io.Reader) (*ristretto255.Scalar, error) {
	var buf [UniformSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return ristretto255.NewScalar().FromUniformBytes(buf[:]), nil
}

// NewDeterministicTestGenerator returns a fixed-seed byte stream for
// reproducible signing in tests. Production signing must draw from
// crypto/rand.Reader: reusing a nonce or response scalar across two
// signatures reveals the private key.
func NewDeterministicTestGenerator() io.Reader {
	h := sha3.NewShake256()
	_, _ = h.Write([]byte("clsag deterministic test generator"))
	return h
}
