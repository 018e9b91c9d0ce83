package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt(t *testing.T) {
	b := NewBcrypt(bcrypt.MinCost)
	hash, err := b.Hash("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)

	require.True(t, b.Verify(hash, "secret1"))
	require.False(t, b.Verify(hash, "secret2"))
	require.False(t, b.Verify("not-a-hash", "secret1"))
}

func TestNewBcrypt_非法cost回退默认值(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, NewBcrypt(0).cost)
	require.Equal(t, bcrypt.DefaultCost, NewBcrypt(99).cost)
	require.Equal(t, 12, NewBcrypt(12).cost)
}
