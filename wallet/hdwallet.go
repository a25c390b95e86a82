package wallet

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

const ed25519SeedKey = "ed25519 seed"

// Keypair is a derived key together with the path it came from
type Keypair struct {
	Path      string
	Address   string
	PublicKey []byte
	SecretKey []byte
}

// KeyDeriver derives the keypair found at path from a BIP-39 seed
type KeyDeriver func(seed []byte, path string) (*Keypair, error)

// slip10Key is an ed25519 extended private key
type slip10Key struct {
	Key       []byte
	ChainCode []byte
}

func hmacSHA512(key, data []byte) []byte {
	h := hmac.New(sha512.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func newSlip10Master(seed []byte) slip10Key {
	sum := hmacSHA512([]byte(ed25519SeedKey), seed)
	return slip10Key{Key: sum[:32], ChainCode: sum[32:]}
}

// child derives a hardened child; ed25519 has no public derivation
func (k slip10Key) child(index uint32) slip10Key {
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x00)
	data = append(data, k.Key...)
	data = binary.BigEndian.AppendUint32(data, index)

	sum := hmacSHA512(k.ChainCode, data)
	return slip10Key{Key: sum[:32], ChainCode: sum[32:]}
}

func deriveSlip10(seed []byte, path string) (slip10Key, error) {
	dp, err := ParseDerivationPath(path)
	if err != nil {
		return slip10Key{}, err
	}
	if !dp.Hardened() {
		return slip10Key{}, fmt.Errorf("%w: %s", ErrNonHardenedPath, path)
	}

	key := newSlip10Master(seed)
	for _, index := range dp {
		key = key.child(index)
	}
	return key, nil
}

// DeriveEd25519 returns the 32-byte ed25519 private seed at path following
// SLIP-0010
func DeriveEd25519(seed []byte, path string) ([]byte, error) {
	key, err := deriveSlip10(seed, path)
	if err != nil {
		return nil, err
	}
	return key.Key, nil
}

func solanaKeypair(path string, privSeed []byte) *Keypair {
	priv := solana.PrivateKey(ed25519.NewKeyFromSeed(privSeed))
	pub := priv.PublicKey()
	return &Keypair{
		Path:      path,
		Address:   pub.String(),
		PublicKey: pub.Bytes(),
		SecretKey: []byte(priv),
	}
}

// DeriveSolanaKeypair derives a Solana or K2 keypair. RawSeedPath selects
// the keypair built directly from the seed prefix.
func DeriveSolanaKeypair(seed []byte, path string) (*Keypair, error) {
	if path == RawSeedPath {
		if len(seed) < ed25519.SeedSize {
			return nil, fmt.Errorf("seed must have at least %d bytes", ed25519.SeedSize)
		}
		return solanaKeypair(path, seed[:ed25519.SeedSize]), nil
	}

	privSeed, err := DeriveEd25519(seed, path)
	if err != nil {
		return nil, fmt.Errorf("failed to derive %s: %w", path, err)
	}
	return solanaKeypair(path, privSeed), nil
}

// DeriveEthereumKeypair derives a secp256k1 key with BIP-32 and renders
// its address in EIP-55 form
func DeriveEthereumKeypair(seed []byte, path string) (*Keypair, error) {
	dp, err := ParseDerivationPath(path)
	if err != nil {
		return nil, err
	}

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	for _, index := range dp {
		key, err = key.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child %d: %w", index, err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get private key: %w", err)
	}
	ecdsaKey := priv.ToECDSA()

	return &Keypair{
		Path:      path,
		Address:   ethcrypto.PubkeyToAddress(ecdsaKey.PublicKey).Hex(),
		PublicKey: ethcrypto.FromECDSAPub(&ecdsaKey.PublicKey),
		SecretKey: ethcrypto.FromECDSA(ecdsaKey),
	}, nil
}
