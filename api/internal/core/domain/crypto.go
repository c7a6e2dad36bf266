package domain

import "context"

// PayloadCodec is the contract for sealing score submissions in transit.
// Implementations are bound to one key and one cipher suite.
type PayloadCodec interface {
	// Seal turns plaintext into a self-contained frame (IV/nonce first).
	// Every call draws a fresh IV/nonce.
	Seal(ctx context.Context, plaintext []byte) ([]byte, error)

	// Open verifies (where the suite can) and decrypts a frame.
	// On failure no plaintext is returned.
	Open(ctx context.Context, frame []byte) ([]byte, error)
}
