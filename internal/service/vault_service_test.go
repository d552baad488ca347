package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVaultSalt = "00112233445566778899aabbccddeeff"

func TestVaultService_RoundTrip(t *testing.T) {
	vault, err := NewAESVaultService("correct horse battery staple", testVaultSalt)
	require.NoError(t, err)

	seed := "b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4b4"
	enc, err := vault.Encrypt(seed)
	require.NoError(t, err)
	assert.NotEqual(t, seed, enc)

	dec, err := vault.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, seed, dec)
}

func TestVaultService_EncryptProducesUniqueCiphertexts(t *testing.T) {
	vault, err := NewAESVaultService("pass", testVaultSalt)
	require.NoError(t, err)

	a, err := vault.Encrypt("same seed")
	require.NoError(t, err)
	b, err := vault.Encrypt("same seed")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "GCM nonce must differ per encryption")
}

func TestVaultService_WrongPassphraseFails(t *testing.T) {
	vault1, err := NewAESVaultService("passphrase-one", testVaultSalt)
	require.NoError(t, err)
	vault2, err := NewAESVaultService("passphrase-two", testVaultSalt)
	require.NoError(t, err)

	enc, err := vault1.Encrypt("secret seed")
	require.NoError(t, err)

	_, err = vault2.Decrypt(enc)
	assert.Error(t, err)
}

func TestVaultService_DecryptGarbage(t *testing.T) {
	vault, err := NewAESVaultService("pass", testVaultSalt)
	require.NoError(t, err)

	_, err = vault.Decrypt("not-hex")
	assert.Error(t, err)

	_, err = vault.Decrypt("abcd") // Shorter than a GCM nonce
	assert.Error(t, err)
}

func TestVaultService_RejectsMisconfiguration(t *testing.T) {
	_, err := NewAESVaultService("", testVaultSalt)
	assert.Error(t, err, "empty passphrase must be fatal")

	_, err = NewAESVaultService("pass", "zz")
	assert.Error(t, err, "non-hex salt must be fatal")

	_, err = NewAESVaultService("pass", "aabb")
	assert.Error(t, err, "short salt must be fatal")
}
