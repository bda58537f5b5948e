package clsag

import "errors"

var ErrDuplicateKey = errors.New("duplicate public key")
var ErrMismatchedKeyLength = errors.New("mismatched key vector length")
var ErrMultipleSigners = errors.New("ring already has a signer")
var ErrNoSigner = errors.New("ring has no signer")
var ErrEmptyRing = errors.New("empty ring")
var ErrLengthMismatch = errors.New("signature does not match ring dimensions")
var ErrInvalidEncoding = errors.New("invalid point or scalar encoding")
var ErrChallengeMismatch = errors.New("challenge mismatch")
var ErrCryptoBackend = errors.New("crypto backend failure")
