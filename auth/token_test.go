package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/primer-backend-go/config"
)

func newTestTokenService(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	ts, err := NewTokenService(&config.AuthConfig{JWTSecret: "test-secret", TokenDuration: ttl})
	require.NoError(t, err)
	return ts
}

func TestTokenService_MissingSecret(t *testing.T) {
	_, err := NewTokenService(&config.AuthConfig{})
	require.Error(t, err)
}

func TestTokenService_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t, time.Hour)

	token, err := ts.Issue(7, "x")
	require.NoError(t, err)

	claims, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.ID)
	assert.Equal(t, "x", claims.Usuario)
}

func TestTokenService_RejectsTampered(t *testing.T) {
	ts := newTestTokenService(t, time.Hour)

	token, err := ts.Issue(7, "x")
	require.NoError(t, err)

	// Alterar un byte del payload invalida la firma.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = ts.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	ts := newTestTokenService(t, -time.Minute)

	token, err := ts.Issue(7, "x")
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	ts := newTestTokenService(t, time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := ts.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}

func TestTokenService_RejectsOtherSecret(t *testing.T) {
	ts := newTestTokenService(t, time.Hour)
	other, err := NewTokenService(&config.AuthConfig{JWTSecret: "otro-secreto", TokenDuration: time.Hour})
	require.NoError(t, err)

	token, err := other.Issue(7, "x")
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
