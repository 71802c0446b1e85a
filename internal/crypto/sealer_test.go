package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer([]byte("server-secret"), "vapid")
	require.NoError(t, err)

	sealed, err := s.Seal("private-key")
	require.NoError(t, err)
	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, sealed, "private-key")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "private-key", plain)
}

func TestSealer_PurposeSeparatesKeys(t *testing.T) {
	a, err := NewSealer([]byte("server-secret"), "vapid")
	require.NoError(t, err)
	b, err := NewSealer([]byte("server-secret"), "other")
	require.NoError(t, err)

	sealed, err := a.Seal("value")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestSealer_PlaintextPassesThrough(t *testing.T) {
	s, err := NewSealer([]byte("k"), "p")
	require.NoError(t, err)

	v, err := s.Open("hand-written")
	require.NoError(t, err)
	assert.Equal(t, "hand-written", v)

	_, err = s.Open(SealedPrefix + "!!!")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	empty, err := s.Seal("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNewSealer_RejectsEmptySecret(t *testing.T) {
	_, err := NewSealer(nil, "p")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
