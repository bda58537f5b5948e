package clsag_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"git.gammaspectra.live/P2Pool/clsag"
	"git.gammaspectra.live/P2Pool/clsag/crypto"
)

func assertNoError(t *testing.T, err error, msgAndArgs ...any) {
	if err != nil {
		message := ""
		if len(msgAndArgs) > 0 {
			message = fmt.Sprint(msgAndArgs...) + ": "
		}
		t.Errorf("%sunexpected err: %s", message, err)
	}
}

func assertErrorIs(t *testing.T, err, target error, msgAndArgs ...any) {
	if !errors.Is(err, target) {
		message := ""
		if len(msgAndArgs) > 0 {
			message = fmt.Sprint(msgAndArgs...) + ": "
		}
		t.Errorf("%sexpected %v, got %v", message, target, err)
	}
}

func privateKeyBytes(t *testing.T, rng io.Reader, layers int) []crypto.PrivateKeyBytes {
	t.Helper()
	keys := make([]crypto.PrivateKeyBytes, layers)
	for j := range keys {
		x, err := crypto.RandomScalar(rng)
		if err != nil {
			t.Fatal(err)
		}
		keys[j] = crypto.ScalarToBytes(x)
	}
	return keys
}

func signerMember(t *testing.T, rng io.Reader, layers int) clsag.Member {
	t.Helper()
	m, err := clsag.NewSignerFromBytes(privateKeyBytes(t, rng, layers))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func decoyMember(t *testing.T, rng io.Reader, layers int) clsag.Member {
	t.Helper()
	keys := privateKeyBytes(t, rng, layers)
	public := make([]crypto.PublicKeyBytes, len(keys))
	for j := range keys {
		var err error
		if public[j], err = keys[j].PublicKey(); err != nil {
			t.Fatal(err)
		}
	}
	m, err := clsag.NewDecoyFromBytes(public)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestRingAssembly(t *testing.T) {
	rng := crypto.NewDeterministicTestGenerator()

	spec.Run(t, "AddMember", func(t *testing.T, when spec.G, it spec.S) {
		it("accepts decoys and one signer", func() {
			ring := clsag.New()
			assertNoError(t, ring.AddMember(decoyMember(t, rng, 2)))
			assertNoError(t, ring.AddMember(signerMember(t, rng, 2)))
			assertNoError(t, ring.AddMember(decoyMember(t, rng, 2)))

			if ring.Len() != 3 {
				t.Errorf("expected ring of 3, got %d", ring.Len())
			}
			if ring.Layers() != 2 {
				t.Errorf("expected 2 layers, got %d", ring.Layers())
			}
		})

		it("rejects a second signer", func() {
			ring := clsag.New()
			assertNoError(t, ring.AddMember(signerMember(t, rng, 2)))
			assertErrorIs(t, ring.AddMember(signerMember(t, rng, 2)), clsag.ErrMultipleSigners)
		})

		it("rejects mismatched layer counts", func() {
			ring := clsag.New()
			assertNoError(t, ring.AddMember(decoyMember(t, rng, 2)))
			assertErrorIs(t, ring.AddMember(decoyMember(t, rng, 3)), clsag.ErrMismatchedKeyLength)
		})

		it("rejects a member added twice", func() {
			ring := clsag.New()
			m := decoyMember(t, rng, 2)
			assertNoError(t, ring.AddMember(m))
			assertErrorIs(t, ring.AddMember(m), clsag.ErrDuplicateKey)
		})

		it("rejects empty key vectors", func() {
			ring := clsag.New()
			m, err := clsag.NewDecoyFromBytes(nil)
			assertNoError(t, err)
			assertErrorIs(t, ring.AddMember(m), clsag.ErrMismatchedKeyLength)
		})
	}, spec.Report(report.Log{}))

	spec.Run(t, "Sign preconditions", func(t *testing.T, when spec.G, it spec.S) {
		it("fails on an empty ring", func() {
			_, err := clsag.New().Sign([]byte("msg"), rng)
			assertErrorIs(t, err, clsag.ErrEmptyRing)
		})

		it("fails without a signer", func() {
			ring := clsag.New()
			assertNoError(t, ring.AddMember(decoyMember(t, rng, 2)))
			assertNoError(t, ring.AddMember(decoyMember(t, rng, 2)))

			_, err := ring.Sign([]byte("msg"), rng)
			assertErrorIs(t, err, clsag.ErrNoSigner)
		})
	}, spec.Report(report.Log{}))
}
