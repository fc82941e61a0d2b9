package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_NeverPlaintext(t *testing.T) {
	for _, pw := range []string{"pw1", "correct horse battery staple", "ünïcødé"} {
		hash, err := HashPassword(pw)
		require.NoError(t, err)

		assert.NotEqual(t, pw, hash)
		assert.True(t, CheckPassword(hash, pw))
		assert.False(t, CheckPassword(hash, pw+"x"))
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "pw"))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(string(make([]byte, 73)))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
