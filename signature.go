package clsag

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gtank/ristretto255"

	"git.gammaspectra.live/P2Pool/clsag/crypto"
)

// Domain separation tags. Pinned protocol constants: sign and verify must feed
// byte-identical transcripts or no signature ever validates.
const prefixAgg = "CLSAG_agg"
const prefixRound = "CLSAG_round"

// Signature is the serializable result of signing: the challenge at ring
// position 0, one response scalar per ring member and one key image per layer.
// It carries no reference back to the ring or to private material.
type Signature struct {
	// C0 The initial challenge, at ring position 0
	C0 crypto.PrivateKeyBytes `json:"c0"`

	// S The response scalar for each ring member
	S []crypto.PrivateKeyBytes `json:"s"`

	// Images The per-layer key images
	Images []crypto.PublicKeyBytes `json:"key_images"`
}

// mode covers the minimal differences between the sign and verify passes over
// the shared challenge-chain core.
type mode interface {
	// loopConfiguration seeds the walk: the transcript tail for the starting
	// challenge, the index range of rounds to run, and the starting challenge
	// itself.
	loopConfiguration(data []byte, n int) (out []byte, start, end int, c *ristretto255.Scalar)
	// loop0 computes s_i*G + c_i*P_i
	loop0(s, c *ristretto255.Scalar, P *ristretto255.Element) *ristretto255.Element
	// loop1 computes s_i*H(P_i) + c_i*I
	loop1(s, c *ristretto255.Scalar, PH, I *ristretto255.Element) *ristretto255.Element
}

type modeSign struct {
	signerIndex int
	// A is alpha*G, AH is alpha*H(P_l): the nonce commitments opening the chain
	A  *ristretto255.Element
	AH *ristretto255.Element
}

func (m modeSign) loopConfiguration(data []byte, n int) (out []byte, start, end int, c *ristretto255.Scalar) {
	data = m.A.Encode(data)
	data = m.AH.Encode(data)
	c = crypto.DeriveScalar(ristretto255.NewScalar(), data)
	return data, m.signerIndex + 1, m.signerIndex + n, c
}

func (m modeSign) loop0(s, c *ristretto255.Scalar, P *ristretto255.Element) *ristretto255.Element {
	sG := ristretto255.NewElement().ScalarBaseMult(s)
	cP := ristretto255.NewElement().ScalarMult(c, P)
	return sG.Add(sG, cP)
}

func (m modeSign) loop1(s, c *ristretto255.Scalar, PH, I *ristretto255.Element) *ristretto255.Element {
	sPH := ristretto255.NewElement().ScalarMult(s, PH)
	cI := ristretto255.NewElement().ScalarMult(c, I)
	return sPH.Add(sPH, cI)
}

type modeVerify struct {
	c0 *ristretto255.Scalar
}

func (m modeVerify) loopConfiguration(data []byte, n int) (out []byte, start, end int, c *ristretto255.Scalar) {
	c = ristretto255.NewScalar()
	*c = *m.c0
	return data, 0, n, c
}

// Verification only handles public data, so variable-time operations are safe.

func (m modeVerify) loop0(s, c *ristretto255.Scalar, P *ristretto255.Element) *ristretto255.Element {
	return ristretto255.NewElement().VarTimeDoubleScalarBaseMult(c, P, s)
}

func (m modeVerify) loop1(s, c *ristretto255.Scalar, PH, I *ristretto255.Element) *ristretto255.Element {
	scalars := []*ristretto255.Scalar{s, c}
	points := []*ristretto255.Element{PH, I}
	return ristretto255.NewElement().VarTimeMultiScalarMult(scalars, points)
}

var _ mode = modeSign{}
var _ mode = modeVerify{}

// core is the Fiat-Shamir challenge-chain walk shared by signing and
// verification. data is the fixed transcript head built by roundTranscript;
// each round truncates back to it and appends that round's L and R points.
//
// Every iteration performs the same operations regardless of ring position.
// The challenge that lands on ring position 0 is captured with a
// constant-time select rather than a branch, so the wrap position does not
// create a timing difference tied to the secret index.
func core(data []byte, P, PH []*ristretto255.Element, I *ristretto255.Element, s []*ristretto255.Scalar, m mode) (c0, cFinal *ristretto255.Scalar) {
	n := len(P)
	base := len(data)

	data, start, end, c := m.loopConfiguration(data, n)

	c0 = ristretto255.NewScalar()
	if subtle.ConstantTimeEq(int32(start%n), 0) == 1 {
		*c0 = *c
	} else {
		*c0 = *c0
	}

	for j := start; j < end; j++ {
		i := j % n

		L := m.loop0(s[i], c, P[i])
		R := m.loop1(s[i], c, PH[i], I)

		data = data[:base]
		data = L.Encode(data)
		data = R.Encode(data)
		crypto.DeriveScalar(c, data)

		if subtle.ConstantTimeEq(int32(i), int32(n-1)) == 1 {
			*c0 = *c
		} else {
			*c0 = *c0
		}
	}

	return c0, c
}

// aggregationWeights derives the per-layer scalars mu_j that collapse the
// multi-layer ring into a single-layer one. Each weight binds the domain tag,
// the layer index, every member's layer-j key in ring order and all published
// key images, so no component can be swapped after the fact.
func aggregationWeights(ring []*PublicSet, images []crypto.PublicKeyBytes) []*ristretto255.Scalar {
	n := len(ring)
	k := ring[0].Len()

	data := make([]byte, 0, (n+len(images)+1)*crypto.PublicKeySize)
	mu := make([]*ristretto255.Scalar, k)

	var slot [crypto.PublicKeySize]byte
	copy(slot[:], prefixAgg)

	for j := 0; j < k; j++ {
		binary.LittleEndian.PutUint64(slot[len(prefixAgg):], uint64(j))

		data = append(data[:0], slot[:]...)
		for i := 0; i < n; i++ {
			data = ring[i].keys[j].Encode(data)
		}
		for i := range images {
			data = append(data, images[i][:]...)
		}

		mu[j] = crypto.DeriveScalar(ristretto255.NewScalar(), data)
	}

	return mu
}

// aggregateRing folds every member's key vector into one point per member,
// P_i = sum_j mu_j * P_{i,j}, and precomputes each member's hashed first key
// for the ring walk. All inputs are public.
func aggregateRing(ring []*PublicSet, mu []*ristretto255.Scalar) (P, PH []*ristretto255.Element) {
	P = make([]*ristretto255.Element, len(ring))
	PH = make([]*ristretto255.Element, len(ring))
	for i := range ring {
		P[i] = ristretto255.NewElement().VarTimeMultiScalarMult(mu, ring[i].keys)
		PH[i] = ring[i].HashedPubKey()
	}
	return P, PH
}

// roundTranscript builds the fixed head of the per-round challenge hash:
// domain tag, every aggregated member key, the aggregated key image and the
// message prefix hash. core appends the per-round L and R after it.
func roundTranscript(P []*ristretto255.Element, I *ristretto255.Element, message []byte) []byte {
	data := make([]byte, 0, (len(P)+5)*crypto.PublicKeySize)

	var slot [crypto.PublicKeySize]byte
	copy(slot[:], prefixRound)
	data = append(data, slot[:]...)

	for i := range P {
		data = P[i].Encode(data)
	}
	data = I.Encode(data)

	msgHash := crypto.HashMessage(message)
	data = append(data, msgHash[:]...)

	return data
}

// Sign produces a signature over message with the assembled ring. randomSource
// must be a cryptographically secure source in production; drawing the nonce
// or any response twice across different messages reveals the private key.
//
// No partial signature is ever returned: any failure surfaces immediately.
func (c *Clsag) Sign(message []byte, randomSource io.Reader) (*Signature, error) {
	n := len(c.members)
	if n == 0 {
		return nil, ErrEmptyRing
	}
	if c.signerIndex < 0 {
		return nil, ErrNoSigner
	}

	signer := c.members[c.signerIndex]

	// Per-layer key images, all bound to the signer's own hashed first key.
	generator := signer.Public.HashedPubKey()
	imagePoints := signer.private.keyImagePoints(generator)
	images := make([]crypto.PublicKeyBytes, len(imagePoints))
	for j := range imagePoints {
		images[j] = crypto.PointBytes(imagePoints[j])
	}

	ring := c.PublicKeys()
	mu := aggregationWeights(ring, images)
	P, PH := aggregateRing(ring, mu)
	I := ristretto255.NewElement().VarTimeMultiScalarMult(mu, imagePoints)

	// x = sum_j mu_j * x_j, the aggregated private scalar
	x := ristretto255.NewScalar()
	for j, priv := range signer.private.keys {
		x.Add(x, ristretto255.NewScalar().Multiply(mu[j], priv))
	}

	alpha, err := crypto.RandomScalar(randomSource)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCryptoBackend, err)
	}

	// Responses for every position, the signer's slot replaced after the walk.
	s := make([]*ristretto255.Scalar, n)
	for i := range s {
		if s[i], err = crypto.RandomScalar(randomSource); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrCryptoBackend, err)
		}
	}

	data := roundTranscript(P, I, message)
	c0, cSigner := core(data, P, PH, I, s, modeSign{
		signerIndex: c.signerIndex,
		A:           ristretto255.NewElement().ScalarBaseMult(alpha),
		AH:          ristretto255.NewElement().ScalarMult(alpha, generator),
	})

	// s_l = alpha - c_l * x closes the chain; the only step that needs the
	// private scalar.
	s[c.signerIndex] = ristretto255.NewScalar().Subtract(
		alpha,
		ristretto255.NewScalar().Multiply(cSigner, x),
	)

	sig := &Signature{
		C0:     crypto.ScalarToBytes(c0),
		S:      make([]crypto.PrivateKeyBytes, n),
		Images: images,
	}
	for i := range s {
		sig.S[i] = crypto.ScalarToBytes(s[i])
	}

	if err = sig.Verify(ring, message); err != nil {
		return nil, fmt.Errorf("self verify: %w", err)
	}

	return sig, nil
}

// Verify recomputes the challenge chain over ring and message and accepts only
// if it closes bit-for-bit on the signature's initial challenge.
//
// It proves ring membership and algebraic consistency of this one signature.
// Key-image reuse across signatures is deliberately out of its hands: feed the
// images to a linkability store for that.
func (sig *Signature) Verify(ring []*PublicSet, message []byte) error {
	n := len(ring)
	if n == 0 {
		return ErrEmptyRing
	}
	if len(sig.S) != n {
		return ErrLengthMismatch
	}

	k := ring[0].Len()
	if k == 0 {
		return ErrMismatchedKeyLength
	}
	for i := range ring {
		if ring[i].Len() != k {
			return ErrMismatchedKeyLength
		}
	}
	if len(sig.Images) != k {
		return ErrLengthMismatch
	}

	// Everything below is adversarial input: decode with canonical checks
	// before any group operation.
	c0, err := sig.C0.Scalar()
	if err != nil {
		return fmt.Errorf("c0: %w", ErrInvalidEncoding)
	}

	s := make([]*ristretto255.Scalar, n)
	for i := range sig.S {
		if s[i], err = sig.S[i].Scalar(); err != nil {
			return fmt.Errorf("s %d: %w", i, ErrInvalidEncoding)
		}
	}

	imagePoints := make([]*ristretto255.Element, k)
	for j := range sig.Images {
		if imagePoints[j], err = sig.Images[j].Point(); err != nil {
			return fmt.Errorf("key image %d: %w", j, ErrInvalidEncoding)
		}
	}

	mu := aggregationWeights(ring, sig.Images)
	P, PH := aggregateRing(ring, mu)
	I := ristretto255.NewElement().VarTimeMultiScalarMult(mu, imagePoints)

	data := roundTranscript(P, I, message)
	recomputed, _ := core(data, P, PH, I, s, modeVerify{c0: c0})

	if recomputed.Equal(c0) == 0 {
		return ErrChallengeMismatch
	}

	return nil
}
