package crypto

import (
	"crypto/aes"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// Suite selects the algorithm and the frame layout used by Encode and Decode.
type Suite int

const (
	// SuiteAESCBC is AES-128-CBC with PKCS#7 padding.
	// Frame: IV(16) || ciphertext. Confidentiality only, there is no MAC.
	SuiteAESCBC Suite = iota + 1

	// SuiteChaCha20Poly1305 is the IETF ChaCha20-Poly1305 AEAD.
	// Frame: nonce(12) || ciphertext || tag(16).
	SuiteChaCha20Poly1305
)

const (
	aesCBCKeySize = 16
	aesCBCIVSize  = aes.BlockSize

	chachaTagSize = chacha20poly1305.Overhead
)

// ParseSuite maps a configuration string onto a Suite.
func ParseSuite(name string) (Suite, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "aes-128-cbc", "aes-cbc", "aes128cbc":
		return SuiteAESCBC, nil
	case "chacha20-poly1305", "chacha20poly1305", "chacha20":
		return SuiteChaCha20Poly1305, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSuite, name)
	}
}

func (s Suite) String() string {
	switch s {
	case SuiteAESCBC:
		return "aes-128-cbc"
	case SuiteChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return fmt.Sprintf("suite(%d)", int(s))
	}
}

// KeySize is the exact raw key length the suite accepts.
func (s Suite) KeySize() int {
	switch s {
	case SuiteAESCBC:
		return aesCBCKeySize
	case SuiteChaCha20Poly1305:
		return chacha20poly1305.KeySize
	default:
		return 0
	}
}

// NonceSize is the length of the IV or nonce that leads every frame.
func (s Suite) NonceSize() int {
	switch s {
	case SuiteAESCBC:
		return aesCBCIVSize
	case SuiteChaCha20Poly1305:
		return chacha20poly1305.NonceSize
	default:
		return 0
	}
}

// TagSize is zero for suites without authentication.
func (s Suite) TagSize() int {
	if s == SuiteChaCha20Poly1305 {
		return chachaTagSize
	}
	return 0
}

// Authenticated reports whether Decode detects tampering under this suite.
func (s Suite) Authenticated() bool {
	return s.TagSize() > 0
}

// MinFrameSize is the shortest frame Decode will look at.
// CBC needs the IV; a frame with no blocks after it fails at unpadding.
// ChaCha20-Poly1305 needs the nonce and the tag even for an empty plaintext.
func (s Suite) MinFrameSize() int {
	switch s {
	case SuiteAESCBC:
		return aesCBCIVSize
	case SuiteChaCha20Poly1305:
		return chacha20poly1305.NonceSize + chachaTagSize
	default:
		return 0
	}
}

// FrameSize returns the exact length of the frame Encode produces for a
// plaintext of n bytes.
func (s Suite) FrameSize(n int) int {
	switch s {
	case SuiteAESCBC:
		return aesCBCIVSize + (n/aes.BlockSize+1)*aes.BlockSize
	case SuiteChaCha20Poly1305:
		return chacha20poly1305.NonceSize + n + chachaTagSize
	default:
		return 0
	}
}

func (s Suite) valid() bool {
	return s == SuiteAESCBC || s == SuiteChaCha20Poly1305
}

func (s Suite) checkKey(key []byte) error {
	if !s.valid() {
		return fmt.Errorf("%w: %s", ErrUnknownSuite, s)
	}
	if len(key) != s.KeySize() {
		return fmt.Errorf("%w: %s requires %d bytes, got %d", ErrInvalidKeyLength, s, s.KeySize(), len(key))
	}
	return nil
}
