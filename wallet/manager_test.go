package wallet

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStoreAndUnlock(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	assert.False(t, m.VaultExists())
	assert.False(t, m.IsUnlocked())

	_, err := m.Credential(KindSolana)
	assert.Equal(t, ErrLocked, err)

	sol := Credentials{Address: mainAddress, Key: mainKey, Mnemonic: testMnemonic}
	require.NoError(t, m.Store(KindSolana, sol, "pw"))
	assert.True(t, m.VaultExists())
	assert.True(t, m.IsUnlocked())

	got, err := m.Credential(KindSolana)
	require.NoError(t, err)
	assert.Equal(t, sol, *got)

	_, err = m.Credential(KindEthereum)
	assert.True(t, errors.Is(err, ErrNoCredential))

	// adding a second chain requires the vault password
	eth := Credentials{Address: "0xabc", Key: "0x01"}
	assert.Equal(t, ErrInvalidPassword, m.Store(KindEthereum, eth, "wrong"))
	require.NoError(t, m.Store(KindEthereum, eth, "pw"))

	kinds, err := m.StoredKinds()
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindEthereum, KindSolana}, kinds)

	m.Lock()
	assert.False(t, m.IsUnlocked())

	// a fresh manager reads the vault from disk
	m2 := NewManager(dir)
	assert.Equal(t, ErrInvalidPassword, m2.Unlock("wrong"))
	require.NoError(t, m2.Unlock("pw"))
	got, err = m2.Credential(KindEthereum)
	require.NoError(t, err)
	assert.Equal(t, eth, *got)
}

func TestManagerSession(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	require.NoError(t, m.Store(KindK2, Credentials{Address: mainAddress, Key: mainKey}, "pw"))

	// another process sees the open session
	other := NewManager(dir)
	assert.True(t, other.IsUnlocked())
	got, err := other.Credential(KindK2)
	require.NoError(t, err)
	assert.Equal(t, mainAddress, got.Address)

	// and loses it once it expires
	expired := NewManager(dir)
	expired.now = func() time.Time { return time.Now().Add(SessionDuration*time.Minute + time.Second) }
	assert.False(t, expired.IsUnlocked())
	assert.False(t, NewManager(dir).IsUnlocked())
}
