package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("password123", 4)
	require.NoError(t, err)

	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("password124", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPassword_SaltDivergence(t *testing.T) {
	// El salt va embebido en el hash: dos llamadas con el mismo texto
	// producen cadenas distintas y ambas verifican.
	h1, err := HashPassword("password123", 4)
	require.NoError(t, err)
	h2, err := HashPassword("password123", 4)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword("password123", h1))
	assert.True(t, CheckPassword("password123", h2))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	// Un hash corrupto nunca lanza error, simplemente no verifica.
	assert.False(t, CheckPassword("password123", ""))
	assert.False(t, CheckPassword("password123", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("password123", "$2a$garbage"))
}

func TestHashPassword_DefaultCost(t *testing.T) {
	hash, err := HashPassword("password123", 0)
	require.NoError(t, err)
	assert.True(t, CheckPassword("password123", hash))
}
