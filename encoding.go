package clsag

import (
	"fmt"
	"io"

	"git.gammaspectra.live/P2Pool/clsag/crypto"
)

// Wire layout: c0, then one response per ring member, then one key image per
// layer, all 32-byte canonical encodings in the order signing produced them.

func (sig *Signature) BufferLength() int {
	return (1+len(sig.S))*crypto.PrivateKeySize + len(sig.Images)*crypto.PublicKeySize
}

func (sig *Signature) AppendBinary(preAllocatedBuf []byte) (data []byte, err error) {
	data = preAllocatedBuf
	data = append(data, sig.C0[:]...)
	for i := range sig.S {
		data = append(data, sig.S[i][:]...)
	}
	for i := range sig.Images {
		data = append(data, sig.Images[i][:]...)
	}
	return data, nil
}

func (sig *Signature) Bytes() []byte {
	data, _ := sig.AppendBinary(make([]byte, 0, sig.BufferLength()))
	return data
}

// FromReader decodes a signature for a ring of ringSize members with layers
// key layers. Scalars are checked for canonical form here; key images are
// arbitrary bytes until Verify decompresses them.
func (sig *Signature) FromReader(reader io.Reader, ringSize, layers int) error {
	if _, err := io.ReadFull(reader, sig.C0[:]); err != nil {
		return err
	}
	if _, err := sig.C0.Scalar(); err != nil {
		return fmt.Errorf("c0: %w", ErrInvalidEncoding)
	}

	sig.S = make([]crypto.PrivateKeyBytes, ringSize)
	for i := range sig.S {
		if _, err := io.ReadFull(reader, sig.S[i][:]); err != nil {
			return err
		}
		if _, err := sig.S[i].Scalar(); err != nil {
			return fmt.Errorf("s %d: %w", i, ErrInvalidEncoding)
		}
	}

	sig.Images = make([]crypto.PublicKeyBytes, layers)
	for i := range sig.Images {
		if _, err := io.ReadFull(reader, sig.Images[i][:]); err != nil {
			return err
		}
	}

	return nil
}
