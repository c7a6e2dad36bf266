package crypto

import (
	"bytes"
	"crypto/subtle"
)

// pkcs7Pad always appends between 1 and blockSize bytes, so an aligned
// plaintext gains a full block of padding.
func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

// pkcs7Unpad checks every padding byte before trimming. The check runs over
// the whole final block so a bad length byte costs the same as a bad pad byte.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrPadding
	}

	n := int(data[len(data)-1])
	lastBlock := data[len(data)-blockSize:]

	good := subtle.ConstantTimeLessOrEq(1, n) & subtle.ConstantTimeLessOrEq(n, blockSize)
	for i := 0; i < blockSize; i++ {
		inPad := subtle.ConstantTimeLessOrEq(blockSize-i, n)
		match := subtle.ConstantTimeByteEq(lastBlock[i], byte(n))
		// bytes inside the padding must equal n, bytes outside it are free
		good &= match | (inPad ^ 1)
	}
	if good != 1 {
		return nil, ErrPadding
	}
	return data[:len(data)-n], nil
}
