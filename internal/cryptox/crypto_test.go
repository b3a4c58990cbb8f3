package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_DeterministicAndSaltSensitive(t *testing.T) {
	pass := []byte("correct horse")

	k1 := DeriveKey(pass, []byte("salt-1"))
	k2 := DeriveKey(pass, []byte("salt-1"))
	k3 := DeriveKey(pass, []byte("salt-2"))

	require.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func testKey(b byte) []byte {
	k := make([]byte, KeySize)
	for i := range k {
		k[i] = b
	}
	return k
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer(testKey(7))
	require.NoError(t, err)

	plain := []byte(`{"accessToken":"a","tokenType":"Bearer"}`)
	sealed := s.Seal(plain)
	assert.NotContains(t, string(sealed), "accessToken")

	got, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestSealer_FreshNoncePerSeal(t *testing.T) {
	s, err := NewSealer(testKey(1))
	require.NoError(t, err)

	assert.NotEqual(t, s.Seal([]byte("x")), s.Seal([]byte("x")))
}

func TestSealer_OpenFailures(t *testing.T) {
	s, err := NewSealer(testKey(1))
	require.NoError(t, err)
	other, err := NewSealer(testKey(2))
	require.NoError(t, err)

	_, err = s.Open([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrShortCiphertext)

	_, err = s.Open(other.Seal([]byte("foreign")))
	assert.Error(t, err)

	sealed := s.Seal([]byte("payload"))
	sealed[len(sealed)-1] ^= 0xFF
	_, err = s.Open(sealed)
	assert.Error(t, err)
}

func TestNewSealer_BadKeyLength(t *testing.T) {
	_, err := NewSealer([]byte("short"))
	assert.Error(t, err)
}
