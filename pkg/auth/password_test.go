package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/filesmanager/pkg/auth"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := auth.NewBcryptHasher(bcrypt.MinCost)

	t.Run("hash and compare", func(t *testing.T) {
		t.Parallel()
		hash, err := h.Hash("pw123456")
		require.NoError(t, err)
		assert.NotEqual(t, "pw123456", hash)
		assert.True(t, h.Compare(hash, "pw123456"))
		assert.False(t, h.Compare(hash, "wrong"))
	})

	t.Run("empty password", func(t *testing.T) {
		t.Parallel()
		_, err := h.Hash("")
		assert.ErrorIs(t, err, auth.ErrPasswordRequired)
	})

	t.Run("garbage hash never matches", func(t *testing.T) {
		t.Parallel()
		assert.False(t, h.Compare("not-a-hash", "pw123456"))
	})
}

func TestHashPassword(t *testing.T) {
	t.Parallel()
	hash, err := auth.HashPassword("pw123456")
	require.NoError(t, err)
	assert.True(t, auth.NewBcryptHasher(bcrypt.DefaultCost).Compare(hash, "pw123456"))
}
