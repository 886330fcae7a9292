package uniuri

import (
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	// TokenLen is the length of the secret part of a bearer token, ~238 bits of entropy.
	TokenLen = 40

	// maxBufLen is the maximum length of a temporary buffer for random bytes.
	maxBufLen = 2048

	// byteRange is the total number of possible byte values (2^8).
	byteRange = 256
)

// StdChars is the alphanumeric alphabet tokens are drawn from.
var StdChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// ErrCharset is returned for alphabets shorter than 2 or longer than 256 characters.
var ErrCharset = errors.New("uniuri: charset must have between 2 and 256 characters")

// NewToken returns a random alphanumeric string of TokenLen characters.
func NewToken() (string, error) {
	return NewLenChars(TokenLen, StdChars)
}

// NewLenChars returns a random string of length characters drawn from chars.
// Bytes that would bias the modulo are rejected and redrawn.
func NewLenChars(length int, chars []byte) (string, error) {
	if length <= 0 {
		return "", nil
	}

	clen := len(chars)
	if clen < 2 || clen > byteRange {
		return "", ErrCharset
	}

	// largest byte value that keeps c % clen uniform
	maxRb := byteRange - (byteRange % clen) - 1

	bufLen := min(length*2, maxBufLen) //nolint:mnd
	buf := make([]byte, bufLen)
	out := make([]byte, 0, length)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("uniuri: reading random bytes: %w", err)
		}

		for _, rb := range buf {
			if int(rb) > maxRb {
				continue
			}

			out = append(out, chars[int(rb)%clen])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}
