package clsag

import (
	"io"
	"testing"

	"github.com/gtank/ristretto255"

	"git.gammaspectra.live/P2Pool/clsag/crypto"
)

func mustRandomScalar(t *testing.T, rng io.Reader) *ristretto255.Scalar {
	t.Helper()
	x, err := crypto.RandomScalar(rng)
	if err != nil {
		t.Fatal(err)
	}
	return x
}

func generatePrivateSet(t *testing.T, rng io.Reader, layers int) *PrivateSet {
	t.Helper()
	keys := make([]*ristretto255.Scalar, layers)
	for j := range keys {
		keys[j] = mustRandomScalar(t, rng)
	}
	return NewPrivateSet(keys)
}

func generateSigner(t *testing.T, rng io.Reader, layers int) Member {
	t.Helper()
	m, err := NewSigner(generatePrivateSet(t, rng, layers))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func generateDecoy(t *testing.T, rng io.Reader, layers int) Member {
	t.Helper()
	public, err := generatePrivateSet(t, rng, layers).PublicSet()
	if err != nil {
		t.Fatal(err)
	}
	return NewDecoy(public)
}

func buildRing(t *testing.T, rng io.Reader, ringSize, layers, signerIndex int) *Clsag {
	t.Helper()
	ring := New()
	for i := 0; i < ringSize; i++ {
		var m Member
		if i == signerIndex {
			m = generateSigner(t, rng, layers)
		} else {
			m = generateDecoy(t, rng, layers)
		}
		if err := ring.AddMember(m); err != nil {
			t.Fatal(err)
		}
	}
	return ring
}
