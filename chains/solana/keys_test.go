package solana

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chinmay1088/ktools/chains"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mainKey = "87,188,51,212,151,148,184,219,43,102,46,41,168,214,110,209,155,62,127,172,14,227,236,91,171,173,50,227,150,219,250,23,127,230,1,55,81,44,74,245,8,176,126,27,127,163,91,47,95,19,138,193,152,131,194,141,43,198,128,40,77,16,1,73"

func TestSecretKeyFormat(t *testing.T) {
	key, err := ParseSecretKey(mainKey)
	require.NoError(t, err)
	assert.Equal(t, "9cGCJvVacp5V6xjeshprS3KDN3e5VwEUszHmxxaZuHmJ", key.PublicKey().String())
	assert.Equal(t, mainKey, FormatSecretKey(key))

	fromBase58, err := ParseBase58SecretKey(base58.Encode(key))
	require.NoError(t, err)
	assert.Equal(t, key, fromBase58)
}

func TestParseSecretKeyErrors(t *testing.T) {
	_, err := ParseSecretKey("1,2,3")
	assert.Error(t, err)

	_, err = ParseSecretKey(mainKey[:len(mainKey)-2] + "256")
	assert.Error(t, err)

	_, err = ParseBase58SecretKey("0OIl")
	assert.Error(t, err)

	_, err = ParseBase58SecretKey(base58.Encode([]byte{1, 2, 3}))
	assert.Error(t, err)
}

func TestLoadKeypairFile(t *testing.T) {
	key, err := ParseSecretKey(mainKey)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, []byte("["+mainKey+"]"), 0600))

	loaded, err := LoadKeypairFile(path)
	require.NoError(t, err)
	assert.Equal(t, key, loaded)

	_, err = LoadKeypairFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSaveKeypairFile(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tasks", "state.json")
	require.NoError(t, SaveKeypairFile(path, key))

	loaded, err := LoadKeypairFile(path)
	require.NoError(t, err)
	assert.Equal(t, key, loaded)
}

func TestParseAddress(t *testing.T) {
	pk, err := ParseAddress("5f6r16czBTinZiNdW7TnDHLWS2Hvt3eAyqZWyWQhur7j")
	require.NoError(t, err)
	assert.Equal(t, solana.MustPublicKeyFromBase58("5f6r16czBTinZiNdW7TnDHLWS2Hvt3eAyqZWyWQhur7j"), pk)

	_, err = ParseAddress("0xdeadbeef")
	assert.ErrorIs(t, err, chains.ErrInvalidAddress)

	_, err = ParseAddress("abc")
	assert.ErrorIs(t, err, chains.ErrInvalidAddress)
}

func TestUnits(t *testing.T) {
	assert.Equal(t, "1.5", LamportsToSOL(1_500_000_000).String())
	assert.Equal(t, "1.500000000 KOII", FormatBalance(1_500_000_000, "KOII"))

	lamports, err := SOLToLamports(decimal.RequireFromString("0.000000001"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), lamports)

	lamports, err = SOLToLamports(decimal.RequireFromString("2.0000000019"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000_001), lamports)

	_, err = SOLToLamports(decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestTransactionBuildRequiresBlockhash(t *testing.T) {
	payer := solana.NewWallet().PrivateKey
	tx := NewTransaction(payer.PublicKey())
	tx.AddTransferInstruction(payer.PublicKey(), solana.NewWallet().PublicKey(), 10)
	tx.AddSigner(payer, payer)
	assert.Len(t, tx.Signers, 1)

	_, err := tx.Build()
	assert.Error(t, err)

	tx.SetRecentBlockhash(solana.HashFromBytes(make([]byte, 32)))
	_, err = tx.Build()
	assert.Error(t, err)

	blockhash := solana.MustHashFromBase58("5f6r16czBTinZiNdW7TnDHLWS2Hvt3eAyqZWyWQhur7j")
	tx.SetRecentBlockhash(blockhash)
	stx, err := tx.Build()
	require.NoError(t, err)
	assert.Len(t, stx.Signatures, 1)
	assert.NoError(t, stx.VerifySignatures())
}
