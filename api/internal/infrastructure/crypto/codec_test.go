package crypto_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irgordon/leaderboard/api/internal/infrastructure/crypto"
)

var suites = []crypto.Suite{crypto.SuiteAESCBC, crypto.SuiteChaCha20Poly1305}

// generateTestKey creates a random key of the suite's required size
func generateTestKey(t *testing.T, suite crypto.Suite) []byte {
	t.Helper()
	key := make([]byte, suite.KeySize())
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("Failed to generate test key: %v", err)
	}
	return key
}

// requireSameBytes treats nil and empty as equal, unlike require.Equal.
func requireSameBytes(t *testing.T, want, got []byte) {
	t.Helper()
	require.True(t, bytes.Equal(want, got), "got %q, want %q", got, want)
}

// ==============================================================================
// 1. Fundamental Correctness
// ==============================================================================

func TestCodec_RoundTrip(t *testing.T) {
	sizes := []int{0, 1, 11, 15, 16, 17, 31, 32, 33, 1000, 64 * 1024}

	for _, suite := range suites {
		key := generateTestKey(t, suite)
		for _, n := range sizes {
			t.Run(fmt.Sprintf("%s/%d", suite, n), func(t *testing.T) {
				plaintext := make([]byte, n)
				_, err := rand.Read(plaintext)
				require.NoError(t, err)

				frame, err := crypto.Encode(key, plaintext, suite)
				require.NoError(t, err)
				assert.Len(t, frame, suite.FrameSize(n))

				got, err := crypto.Decode(key, frame, suite)
				require.NoError(t, err)
				requireSameBytes(t, plaintext, got)
			})
		}
	}
}

func TestCodec_ChaCha20_HelloWorldScenario(t *testing.T) {
	key := make([]byte, 32)
	plaintext := []byte("hello world")

	frame, err := crypto.Encode(key, plaintext, crypto.SuiteChaCha20Poly1305)
	require.NoError(t, err)
	assert.Len(t, frame, 12+11+16)

	got, err := crypto.Decode(key, frame, crypto.SuiteChaCha20Poly1305)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), got)
}

func TestCodec_AESCBC_FrameLayout(t *testing.T) {
	key := generateTestKey(t, crypto.SuiteAESCBC)

	// 16 bytes of input gain a whole block of padding
	frame, err := crypto.Encode(key, bytes.Repeat([]byte{'a'}, 16), crypto.SuiteAESCBC)
	require.NoError(t, err)
	assert.Len(t, frame, 16+32)

	frame, err = crypto.Encode(key, []byte("hello world"), crypto.SuiteAESCBC)
	require.NoError(t, err)
	assert.Len(t, frame, 16+16)
}

// ==============================================================================
// 2. Nonce Uniqueness (Semantic Security)
// ==============================================================================

func TestCodec_Nonce_Uniqueness(t *testing.T) {
	for _, suite := range suites {
		t.Run(suite.String(), func(t *testing.T) {
			key := generateTestKey(t, suite)
			plaintext := []byte("identical-plaintext")

			frames := make(map[string]bool)
			nonces := make(map[string]bool)
			for i := 0; i < 100; i++ {
				frame, err := crypto.Encode(key, plaintext, suite)
				require.NoError(t, err)

				if frames[string(frame)] {
					t.Fatalf("SECURITY VIOLATION: identical frame produced at iteration %d", i)
				}
				nonce := string(frame[:suite.NonceSize()])
				if nonces[nonce] {
					t.Fatalf("SECURITY VIOLATION: nonce reuse detected at iteration %d", i)
				}
				frames[string(frame)] = true
				nonces[nonce] = true
			}
		})
	}
}

// ==============================================================================
// 3. Ciphertext Tampering Detection (AEAD)
// ==============================================================================

func TestCodec_ChaCha20_Tamper_Detection(t *testing.T) {
	suite := crypto.SuiteChaCha20Poly1305
	key := generateTestKey(t, suite)

	frame, err := crypto.Encode(key, []byte("player=ada time=4242"), suite)
	require.NoError(t, err)

	// Every single bit of ciphertext and tag is covered by Poly1305.
	for i := suite.NonceSize(); i < len(frame); i++ {
		for bit := 0; bit < 8; bit++ {
			tampered := bytes.Clone(frame)
			tampered[i] ^= 1 << bit

			got, err := crypto.Decode(key, tampered, suite)
			if !assert.ErrorIs(t, err, crypto.ErrAuthentication, "byte %d bit %d", i, bit) {
				t.FailNow()
			}
			assert.Nil(t, got, "SECURITY VIOLATION: plaintext released after tag failure")
		}
	}
}

func TestCodec_ChaCha20_Nonce_Tamper_Detection(t *testing.T) {
	suite := crypto.SuiteChaCha20Poly1305
	key := generateTestKey(t, suite)

	frame, err := crypto.Encode(key, []byte("secret message"), suite)
	require.NoError(t, err)

	frame[0] ^= 0x01
	_, err = crypto.Decode(key, frame, suite)
	assert.ErrorIs(t, err, crypto.ErrAuthentication)
}

func TestCodec_ChaCha20_WrongKey(t *testing.T) {
	suite := crypto.SuiteChaCha20Poly1305

	frame, err := crypto.Encode(generateTestKey(t, suite), []byte("secret message"), suite)
	require.NoError(t, err)

	got, err := crypto.Decode(generateTestKey(t, suite), frame, suite)
	assert.ErrorIs(t, err, crypto.ErrAuthentication)
	assert.Nil(t, got)
}

// ==============================================================================
// 4. Padding & Length Validation (CBC)
// ==============================================================================

func TestCodec_AESCBC_Padding_Rejection(t *testing.T) {
	suite := crypto.SuiteAESCBC
	key := generateTestKey(t, suite)

	// A block-aligned plaintext ends in a full block of 0x10 padding.
	frame, err := crypto.Encode(key, []byte("0123456789abcdef"), suite)
	require.NoError(t, err)
	require.Len(t, frame, 48)

	// Flipping the low bit of byte 31 (the second-to-last ciphertext block's
	// last byte) flips the decrypted final padding byte from 0x10 to 0x11,
	// which is larger than the block size and therefore malformed.
	frame[31] ^= 0x01

	got, err := crypto.Decode(key, frame, suite)
	assert.ErrorIs(t, err, crypto.ErrPadding)
	assert.Nil(t, got)
}

func TestCodec_AESCBC_Padding_Inconsistent_Bytes(t *testing.T) {
	suite := crypto.SuiteAESCBC
	key := generateTestKey(t, suite)

	// 14 bytes of data: the final block decrypts to data||0x02 0x02.
	frame, err := crypto.Encode(key, []byte("0123456789abcd"), suite)
	require.NoError(t, err)
	require.Len(t, frame, 32)

	// Changing IV byte 14 changes plaintext byte 14 from 0x02 to 0x03
	// while the length byte still claims two bytes of padding.
	frame[14] ^= 0x01

	_, err = crypto.Decode(key, frame, suite)
	assert.ErrorIs(t, err, crypto.ErrPadding)
}

func TestCodec_AESCBC_InvalidLength(t *testing.T) {
	suite := crypto.SuiteAESCBC
	key := generateTestKey(t, suite)

	frame, err := crypto.Encode(key, []byte("hello world"), suite)
	require.NoError(t, err)

	truncated := append(bytes.Clone(frame), 0xAA, 0xBB, 0xCC)
	_, err = crypto.Decode(key, truncated, suite)
	assert.ErrorIs(t, err, crypto.ErrInvalidLength)

	_, err = crypto.Decode(key, frame[:len(frame)-1], suite)
	assert.ErrorIs(t, err, crypto.ErrInvalidLength)
}

func TestCodec_AESCBC_Short_Frames(t *testing.T) {
	suite := crypto.SuiteAESCBC
	key := generateTestKey(t, suite)

	// An IV with nothing after it has no padding block to strip.
	got, err := crypto.Decode(key, make([]byte, 16), suite)
	assert.ErrorIs(t, err, crypto.ErrPadding)
	assert.Nil(t, got)

	// Anything between the IV and one full block is misaligned, not short.
	for _, size := range []int{17, 24, 31} {
		got, err := crypto.Decode(key, make([]byte, size), suite)
		assert.ErrorIs(t, err, crypto.ErrInvalidLength, "size %d", size)
		assert.NotErrorIs(t, err, crypto.ErrFrameTooShort, "size %d", size)
		assert.Nil(t, got)
	}
}

func TestCodec_FrameTooShort(t *testing.T) {
	tests := []struct {
		suite crypto.Suite
		size  int
	}{
		{crypto.SuiteChaCha20Poly1305, 0},
		{crypto.SuiteChaCha20Poly1305, 10},
		{crypto.SuiteChaCha20Poly1305, 27},
		{crypto.SuiteAESCBC, 0},
		{crypto.SuiteAESCBC, 15},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s/%d", tc.suite, tc.size), func(t *testing.T) {
			key := generateTestKey(t, tc.suite)
			got, err := crypto.Decode(key, make([]byte, tc.size), tc.suite)
			assert.ErrorIs(t, err, crypto.ErrFrameTooShort)
			assert.Nil(t, got)
		})
	}
}

// ==============================================================================
// 5. Key Validation
// ==============================================================================

func TestCodec_Rejects_Wrong_Key_Length(t *testing.T) {
	tests := []struct {
		suite crypto.Suite
		size  int
	}{
		{crypto.SuiteAESCBC, 0},
		{crypto.SuiteAESCBC, 15},
		{crypto.SuiteAESCBC, 17},
		{crypto.SuiteAESCBC, 32},
		{crypto.SuiteChaCha20Poly1305, 16},
		{crypto.SuiteChaCha20Poly1305, 31},
		{crypto.SuiteChaCha20Poly1305, 33},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s/%d", tc.suite, tc.size), func(t *testing.T) {
			key := make([]byte, tc.size)

			_, err := crypto.Encode(key, []byte("data"), tc.suite)
			assert.ErrorIs(t, err, crypto.ErrInvalidKeyLength)

			_, err = crypto.Decode(key, make([]byte, 64), tc.suite)
			assert.ErrorIs(t, err, crypto.ErrInvalidKeyLength)

			_, err = crypto.NewCodec(key, tc.suite)
			assert.ErrorIs(t, err, crypto.ErrInvalidKeyLength)
		})
	}
}

func TestCodec_Rejects_Unknown_Suite(t *testing.T) {
	_, err := crypto.Encode(make([]byte, 16), []byte("data"), crypto.Suite(99))
	assert.ErrorIs(t, err, crypto.ErrUnknownSuite)
}

func TestNewCodecFromHex(t *testing.T) {
	key := generateTestKey(t, crypto.SuiteAESCBC)

	c, err := crypto.NewCodecFromHex(hex.EncodeToString(key), crypto.SuiteAESCBC)
	require.NoError(t, err)
	assert.Equal(t, crypto.SuiteAESCBC, c.Suite())

	// the hex path must agree with the raw-key path
	frame, err := c.Seal(context.Background(), []byte("hello"))
	require.NoError(t, err)
	got, err := crypto.Decode(key, frame, crypto.SuiteAESCBC)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	_, err = crypto.NewCodecFromHex("not-a-valid-hex-string-at-all!!!", crypto.SuiteAESCBC)
	assert.Error(t, err, "SECURITY VIOLATION: Accepted non-hex key")

	_, err = crypto.NewCodecFromHex("", crypto.SuiteChaCha20Poly1305)
	assert.ErrorIs(t, err, crypto.ErrInvalidKeyLength)
}

// ==============================================================================
// 6. Concurrency
// ==============================================================================

func TestCodec_Concurrent_Use(t *testing.T) {
	for _, suite := range suites {
		t.Run(suite.String(), func(t *testing.T) {
			c, err := crypto.NewCodec(generateTestKey(t, suite), suite)
			require.NoError(t, err)

			ctx := context.Background()
			var wg sync.WaitGroup
			errs := make(chan error, 32)
			for i := 0; i < 32; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					msg := []byte(fmt.Sprintf("message-%d", i))
					frame, err := c.Seal(ctx, msg)
					if err != nil {
						errs <- err
						return
					}
					got, err := c.Open(ctx, frame)
					if err != nil {
						errs <- err
						return
					}
					if !bytes.Equal(got, msg) {
						errs <- fmt.Errorf("goroutine %d: got %q", i, got)
					}
				}(i)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Error(err)
			}
		})
	}
}
