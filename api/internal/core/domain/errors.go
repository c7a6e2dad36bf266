package domain

import "errors"

var (
	// ErrInvalidPayload covers bad levels, malformed JSON and failed validation.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrUndecryptable means the body could not be opened with the shared key.
	ErrUndecryptable = errors.New("payload could not be decrypted")
)
