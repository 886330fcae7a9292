package uniuri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	seen := make(map[string]struct{})

	for range 100 {
		tok, err := NewToken()
		require.NoError(t, err)
		require.Len(t, tok, TokenLen)

		for _, c := range []byte(tok) {
			assert.Contains(t, string(StdChars), string(c))
		}

		_, dup := seen[tok]
		assert.False(t, dup)
		seen[tok] = struct{}{}
	}
}

func TestNewLenChars(t *testing.T) {
	s, err := NewLenChars(0, StdChars)
	require.NoError(t, err)
	assert.Empty(t, s)

	s, err = NewLenChars(500, []byte("ab"))
	require.NoError(t, err)
	assert.Len(t, s, 500)
	assert.Contains(t, s, "a")
	assert.Contains(t, s, "b")

	_, err = NewLenChars(10, []byte("a"))
	assert.ErrorIs(t, err, ErrCharset)
}
