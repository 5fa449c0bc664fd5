package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := PasswordEncrypt("secret")
	require.NoError(t, err)
	require.NotEqual(t, "secret", hash)
	require.True(t, PasswordCompare("secret", hash))
	require.False(t, PasswordCompare("Secret", hash))
	require.False(t, PasswordCompare("secret", "not-a-hash"))

	other, err := PasswordEncrypt("secret")
	require.NoError(t, err)
	require.NotEqual(t, hash, other, "hashes must be salted")
}

func TestPasswordTooLong(t *testing.T) {
	_, err := PasswordEncrypt(strings.Repeat("a", 73))
	require.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}
