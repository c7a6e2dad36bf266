package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// Codec seals plaintext into self-contained frames and opens them again.
// The key schedule is computed once; a Codec holds no per-call state and
// is safe for concurrent use.
type Codec struct {
	suite Suite

	// exactly one of these is set, depending on suite
	block cipher.Block
	aead  cipher.AEAD
}

// NewCodec binds a raw key to a suite. The key slice is not retained.
func NewCodec(key []byte, suite Suite) (*Codec, error) {
	if err := suite.checkKey(key); err != nil {
		return nil, err
	}

	c := &Codec{suite: suite}
	switch suite {
	case SuiteAESCBC:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("crypto: block cipher failure: %w", err)
		}
		c.block = block
	case SuiteChaCha20Poly1305:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("crypto: chacha20-poly1305 failure: %w", err)
		}
		c.aead = aead
	}
	return c, nil
}

// NewCodecFromHex decodes a hex key as handed out by the key source (the KEY
// environment variable) and binds it to suite.
func NewCodecFromHex(hexKey string, suite Suite) (*Codec, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("crypto: invalid key encoding: %w", err)
	}

	// 🛡️ The decoded copy is ours; wipe it once the cipher owns the schedule.
	defer func() {
		for i := range key {
			key[i] = 0
		}
	}()

	return NewCodec(key, suite)
}

// Suite reports the suite this codec was built for.
func (c *Codec) Suite() Suite {
	return c.suite
}

// Seal implements domain.PayloadCodec.
func (c *Codec) Seal(ctx context.Context, plaintext []byte) ([]byte, error) {
	return c.encode(plaintext)
}

// Open implements domain.PayloadCodec.
func (c *Codec) Open(ctx context.Context, frame []byte) ([]byte, error) {
	return c.decode(frame)
}

// Encode produces a frame for plaintext under key. A fresh IV or nonce is
// drawn from crypto/rand on every call.
func Encode(key, plaintext []byte, suite Suite) ([]byte, error) {
	c, err := NewCodec(key, suite)
	if err != nil {
		return nil, err
	}
	return c.encode(plaintext)
}

// Decode reverses Encode. On any failure it returns a nil plaintext.
func Decode(key, frame []byte, suite Suite) ([]byte, error) {
	c, err := NewCodec(key, suite)
	if err != nil {
		return nil, err
	}
	return c.decode(frame)
}

func (c *Codec) encode(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.suite.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("crypto: nonce generation failure: %w", err)
	}

	switch c.suite {
	case SuiteAESCBC:
		padded := pkcs7Pad(plaintext, aes.BlockSize)
		frame := make([]byte, len(nonce)+len(padded))
		copy(frame, nonce)
		cipher.NewCBCEncrypter(c.block, nonce).CryptBlocks(frame[len(nonce):], padded)
		return frame, nil

	case SuiteChaCha20Poly1305:
		// Seal appends ciphertext||tag after the nonce prefix.
		return c.aead.Seal(nonce, nonce, plaintext, nil), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSuite, c.suite)
}

func (c *Codec) decode(frame []byte) ([]byte, error) {
	if len(frame) < c.suite.MinFrameSize() {
		return nil, fmt.Errorf("%w: %s needs at least %d bytes, got %d",
			ErrFrameTooShort, c.suite, c.suite.MinFrameSize(), len(frame))
	}

	ns := c.suite.NonceSize()
	nonce, body := frame[:ns], frame[ns:]

	switch c.suite {
	case SuiteAESCBC:
		if len(body)%aes.BlockSize != 0 {
			return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(body))
		}
		buf := make([]byte, len(body))
		cipher.NewCBCDecrypter(c.block, nonce).CryptBlocks(buf, body)

		plaintext, err := pkcs7Unpad(buf, aes.BlockSize)
		if err != nil {
			clear(buf)
			return nil, err
		}
		return plaintext, nil

	case SuiteChaCha20Poly1305:
		// 🛡️ Open verifies the tag before releasing a single byte.
		plaintext, err := c.aead.Open(nil, nonce, body, nil)
		if err != nil {
			return nil, ErrAuthentication
		}
		return plaintext, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSuite, c.suite)
}
