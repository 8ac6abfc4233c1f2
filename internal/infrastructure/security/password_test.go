package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("secret12")
	require.NoError(t, err)

	saltHex, hashHex, found := strings.Cut(hash, ":")
	require.True(t, found)
	assert.Len(t, saltHex, 32, "16 byte salt, hex encoded")
	assert.Len(t, hashHex, 64, "32 byte key, hex encoded")

	ok, err := VerifyPassword("secret12", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-pass", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPassword("secret12")
	require.NoError(t, err)
	second, err := HashPassword("secret12")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same password must hash differently")
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	for _, stored := range []string{"", "nocolon", "zz:zz", "abcd:not-hex"} {
		_, err := VerifyPassword("x", stored)
		assert.ErrorIs(t, err, ErrInvalidHashFormat, stored)
	}
}
