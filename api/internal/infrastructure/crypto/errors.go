package crypto

import "errors"

// Codec failures. Every one of them is terminal for the call that produced it.
var (
	ErrInvalidKeyLength = errors.New("crypto: invalid key length for suite")
	ErrFrameTooShort    = errors.New("crypto: frame too short")
	ErrInvalidLength    = errors.New("crypto: ciphertext is not a multiple of the block size")
	ErrPadding          = errors.New("crypto: malformed padding")
	ErrAuthentication   = errors.New("crypto: integrity violation - authentication tag mismatch")
	ErrUnknownSuite     = errors.New("crypto: unknown cipher suite")
)
