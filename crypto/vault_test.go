package crypto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVault(t *testing.T) {
	payload := []byte(`{"solana":{"address":"abc","key":"1,2,3"}}`)

	vault, err := NewVault(payload, "correct horse")
	require.NoError(t, err)
	assert.Len(t, vault.Salt, 32)
	assert.Len(t, vault.Nonce, 12)
	assert.NotContains(t, string(vault.Data), "solana")

	got, err := vault.Decrypt("correct horse")
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(got))

	_, err = vault.Decrypt("wrong")
	assert.True(t, errors.Is(err, ErrDecrypt))
	assert.False(t, vault.ValidatePassword("wrong"))
	assert.True(t, vault.ValidatePassword("correct horse"))
}

func TestVaultSerialization(t *testing.T) {
	vault, err := NewVault([]byte(`"secret"`), "pw")
	require.NoError(t, err)

	raw, err := json.Marshal(vault)
	require.NoError(t, err)

	var loaded Vault
	require.NoError(t, json.Unmarshal(raw, &loaded))

	got, err := loaded.Decrypt("pw")
	require.NoError(t, err)
	assert.Equal(t, `"secret"`, string(got))
}

func TestVaultRejectsInvalidPayload(t *testing.T) {
	_, err := NewVault([]byte("not json"), "pw")
	assert.Error(t, err)
}
