package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("segreto1")
	require.NoError(t, err)
	assert.NotEqual(t, "segreto1", hash)

	assert.NoError(t, VerifyPassword(hash, "segreto1"))
	assert.Error(t, VerifyPassword(hash, "sbagliata"))
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("segreto1")
	require.NoError(t, err)
	second, err := HashPassword("segreto1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
