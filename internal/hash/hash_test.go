package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndCompare(t *testing.T) {
	h := &Bcrypt{Cost: bcrypt.MinCost}

	digest, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", digest)

	assert.True(t, h.Compare(digest, "password123"))
	assert.False(t, h.Compare(digest, "password124"))
	assert.False(t, h.Compare("not-a-hash", "password123"))
}

func TestBcrypt_SaltedDigests(t *testing.T) {
	h := &Bcrypt{Cost: bcrypt.MinCost}

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
