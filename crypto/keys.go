package crypto

import (
	"errors"

	"github.com/gtank/ristretto255"
	"github.com/mr-tron/base58"
	fasthex "github.com/tmthrgd/go-hex"
)

const PublicKeySize = 32

const PrivateKeySize = 32

var ZeroPublicKeyBytes = PublicKeyBytes{}

// PublicKeyBytes is the canonical compressed encoding of a ristretto255 group
// element. Key images share this encoding.
type PublicKeyBytes [PublicKeySize]byte

func (k *PublicKeyBytes) Slice() []byte {
	return (*k)[:]
}

// Point decodes the canonical encoding. Malformed or non-canonical encodings
// are rejected.
func (k *PublicKeyBytes) Point() (*ristretto255.Element, error) {
	p := ristretto255.NewElement()
	if err := p.Decode((*k)[:]); err != nil {
		return nil, err
	}
	return p, nil
}

func (k *PublicKeyBytes) String() string {
	return fasthex.EncodeToString(k.Slice())
}

func (k *PublicKeyBytes) MarshalText() ([]byte, error) {
	return []byte(base58.Encode(k.Slice())), nil
}

func (k *PublicKeyBytes) UnmarshalText(text []byte) error {
	data, err := base58.Decode(string(text))
	if err != nil {
		return err
	}
	if len(data) != PublicKeySize {
		return errors.New("wrong key size")
	}
	copy((*k)[:], data)
	return nil
}

func (k *PublicKeyBytes) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || len(b) == 2 {
		return nil
	}

	if len(b) != PublicKeySize*2+2 {
		return errors.New("wrong key size")
	}

	if _, err := fasthex.Decode(k[:], b[1:len(b)-1]); err != nil {
		return err
	} else {
		return nil
	}
}

func (k *PublicKeyBytes) MarshalJSON() ([]byte, error) {
	var buf [PublicKeySize*2 + 2]byte
	buf[0] = '"'
	buf[PublicKeySize*2+1] = '"'
	fasthex.Encode(buf[1:], k[:])
	return buf[:], nil
}

// PointBytes compresses p into its canonical encoding.
func PointBytes(p *ristretto255.Element) (out PublicKeyBytes) {
	p.Encode(out[:0])
	return out
}

var ZeroPrivateKeyBytes = PrivateKeyBytes{}

// PrivateKeyBytes is the canonical little-endian encoding of a ristretto255
// scalar. Challenges and responses share this encoding.
type PrivateKeyBytes [PrivateKeySize]byte

func (k *PrivateKeyBytes) Slice() []byte {
	return (*k)[:]
}

// Scalar decodes the canonical encoding. Values not reduced modulo the group
// order are rejected.
func (k *PrivateKeyBytes) Scalar() (*ristretto255.Scalar, error) {
	s := ristretto255.NewScalar()
	if err := s.Decode((*k)[:]); err != nil {
		return nil, err
	}
	return s, nil
}

// PublicKey derives the compressed public key for this private key.
func (k *PrivateKeyBytes) PublicKey() (PublicKeyBytes, error) {
	s, err := k.Scalar()
	if err != nil {
		return ZeroPublicKeyBytes, err
	}
	return PointBytes(ristretto255.NewElement().ScalarBaseMult(s)), nil
}

func (k *PrivateKeyBytes) String() string {
	return fasthex.EncodeToString(k.Slice())
}

func (k *PrivateKeyBytes) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || len(b) == 2 {
		return nil
	}

	if len(b) != PrivateKeySize*2+2 {
		return errors.New("wrong key size")
	}

	if _, err := fasthex.Decode(k[:], b[1:len(b)-1]); err != nil {
		return err
	} else {
		return nil
	}
}

func (k *PrivateKeyBytes) MarshalJSON() ([]byte, error) {
	var buf [PrivateKeySize*2 + 2]byte
	buf[0] = '"'
	buf[PrivateKeySize*2+1] = '"'
	fasthex.Encode(buf[1:], k[:])
	return buf[:], nil
}

// ScalarToBytes encodes s into its canonical form.
func ScalarToBytes(s *ristretto255.Scalar) (out PrivateKeyBytes) {
	s.Encode(out[:0])
	return out
}
