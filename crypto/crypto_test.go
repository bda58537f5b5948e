package crypto

import (
	"bytes"
	"testing"

	"github.com/gtank/ristretto255"
)

func TestHashToPoint(t *testing.T) {
	a := HashToPoint([]byte("input a"))
	b := HashToPoint([]byte("input a"))
	c := HashToPoint([]byte("input b"))

	if a.Equal(b) == 0 {
		t.Error("same input produced different points")
	}
	if a.Equal(c) == 1 {
		t.Error("different inputs produced the same point")
	}
	if a.Equal(ristretto255.NewElement()) == 1 {
		t.Error("hash to point produced the identity")
	}
}

func TestDeriveScalar(t *testing.T) {
	a := DeriveScalar(ristretto255.NewScalar(), []byte("transcript a"))
	b := DeriveScalar(ristretto255.NewScalar(), []byte("transcript a"))
	c := DeriveScalar(ristretto255.NewScalar(), []byte("transcript b"))

	if a.Equal(b) == 0 {
		t.Error("same transcript produced different scalars")
	}
	if a.Equal(c) == 1 {
		t.Error("different transcripts produced the same scalar")
	}
}

func TestHashMessage(t *testing.T) {
	a := HashMessage([]byte("hello world"))
	b := HashMessage([]byte("hello world2"))
	if a == b {
		t.Error("different messages produced the same prefix hash")
	}
}

func TestKeyBytesRoundTrip(t *testing.T) {
	rng := NewDeterministicTestGenerator()

	x, err := RandomScalar(rng)
	if err != nil {
		t.Fatal(err)
	}

	sec := ScalarToBytes(x)
	pub, err := sec.PublicKey()
	if err != nil {
		t.Fatal(err)
	}

	expected := PointBytes(ristretto255.NewElement().ScalarBaseMult(x))
	if pub != expected {
		t.Errorf("expected %s, got %s", expected.String(), pub.String())
	}

	point, err := pub.Point()
	if err != nil {
		t.Fatal(err)
	}
	if PointBytes(point) != pub {
		t.Error("point did not round trip through its canonical encoding")
	}
}

func TestKeyBytesText(t *testing.T) {
	rng := NewDeterministicTestGenerator()

	x, err := RandomScalar(rng)
	if err != nil {
		t.Fatal(err)
	}
	sec := ScalarToBytes(x)
	pub, err := sec.PublicKey()
	if err != nil {
		t.Fatal(err)
	}

	text, err := pub.MarshalText()
	if err != nil {
		t.Fatal(err)
	}

	var decoded PublicKeyBytes
	if err = decoded.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if decoded != pub {
		t.Errorf("expected %s, got %s", pub.String(), decoded.String())
	}

	if err = decoded.UnmarshalText([]byte("2g")); err == nil {
		t.Error("expected short text to be rejected")
	}
}

func TestKeyBytesRejectNonCanonical(t *testing.T) {
	var bad PublicKeyBytes
	for i := range bad {
		bad[i] = 0xff
	}
	if _, err := bad.Point(); err == nil {
		t.Error("expected non-canonical point encoding to be rejected")
	}

	var badScalar PrivateKeyBytes
	for i := range badScalar {
		badScalar[i] = 0xff
	}
	if _, err := badScalar.Scalar(); err == nil {
		t.Error("expected unreduced scalar encoding to be rejected")
	}
}

func TestKeyBytesJSON(t *testing.T) {
	rng := NewDeterministicTestGenerator()

	x, err := RandomScalar(rng)
	if err != nil {
		t.Fatal(err)
	}
	sec := ScalarToBytes(x)

	j, err := sec.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}

	var decoded PrivateKeyBytes
	if err = decoded.UnmarshalJSON(j); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded.Slice(), sec.Slice()) {
		t.Errorf("expected %s, got %s", sec.String(), decoded.String())
	}
}
