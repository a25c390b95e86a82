package solana

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chinmay1088/ktools/chains"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// FormatSecretKey renders a 64-byte secret key as comma-separated decimal
// bytes, the credential format of the Koii wallet tooling
func FormatSecretKey(key solana.PrivateKey) string {
	parts := make([]string, len(key))
	for i, b := range key {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ",")
}

// ParseSecretKey parses the comma-separated decimal form produced by
// FormatSecretKey
func ParseSecretKey(s string) (solana.PrivateKey, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf(
			"secret key must have %d bytes, got %d", ed25519.PrivateKeySize, len(parts),
		)
	}

	key := make([]byte, len(parts))
	for i, p := range parts {
		b, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid secret key byte at position %d: %w", i, err)
		}
		key[i] = byte(b)
	}
	return solana.PrivateKey(key), nil
}

// ParseBase58SecretKey parses a base58 encoded 64-byte secret key
func ParseBase58SecretKey(s string) (solana.PrivateKey, error) {
	raw, err := base58.Decode(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid base58 secret key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf(
			"secret key must have %d bytes, got %d", ed25519.PrivateKeySize, len(raw),
		)
	}
	return solana.PrivateKey(raw), nil
}

// LoadKeypairFile reads a keypair stored as a JSON byte array, the format
// written by the Solana and Koii CLIs
func LoadKeypairFile(path string) (solana.PrivateKey, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair from %s: %w", path, err)
	}
	return key, nil
}

// SaveKeypairFile writes key as a JSON byte array readable by
// LoadKeypairFile and the Solana and Koii CLIs
func SaveKeypairFile(path string, key solana.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data := "[" + FormatSecretKey(key) + "]"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		return fmt.Errorf("failed to write keypair to %s: %w", path, err)
	}
	return nil
}

// ParseAddress parses a base58 account address
func ParseAddress(address string) (solana.PublicKey, error) {
	for i, c := range address {
		// base58 has no 0, O, I or l
		if c == '0' || c == 'O' || c == 'I' || c == 'l' {
			return solana.PublicKey{}, fmt.Errorf(
				"%w: character '%c' at position %d is not base58", chains.ErrInvalidAddress, c, i,
			)
		}
	}

	pubKey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s: %v", chains.ErrInvalidAddress, address, err)
	}
	return pubKey, nil
}

func ValidateAddress(address string) error {
	_, err := ParseAddress(address)
	return err
}
