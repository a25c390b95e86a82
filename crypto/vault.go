package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	ScryptN = 32768 // 2^15
	ScryptR = 8
	ScryptP = 1
	KeyLen  = 32 // AES-256 key length

	vaultVersion = 2
)

// ErrDecrypt is returned when the password does not open the vault
var ErrDecrypt = errors.New("failed to decrypt vault")

// Vault is a password protected blob. The payload is sealed with
// AES-256-GCM under a scrypt derived key.
type Vault struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	Data  []byte `json:"data"`
}

type VaultData struct {
	Payload json.RawMessage `json:"payload"`
	Version int             `json:"version"`
}

// NewVault seals payload, which must be valid JSON
func NewVault(payload []byte, password string) (*Vault, error) {
	if !json.Valid(payload) {
		return nil, fmt.Errorf("vault payload must be valid JSON")
	}

	// Generate random salt
	salt := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	// Derive key from password
	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clearBytes(key)

	data, err := json.Marshal(VaultData{
		Payload: payload,
		Version: vaultVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize vault data: %w", err)
	}

	// Generate random nonce
	nonce := make([]byte, 12)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	encryptedData, err := encrypt(key, nonce, data)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt data: %w", err)
	}

	return &Vault{
		Salt:  salt,
		Nonce: nonce,
		Data:  encryptedData,
	}, nil
}

// Decrypt returns the sealed payload
func (v *Vault) Decrypt(password string) ([]byte, error) {
	key, err := deriveKey(password, v.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clearBytes(key)

	decryptedData, err := decrypt(key, v.Nonce, v.Data)
	if err != nil {
		return nil, err
	}

	var vaultData VaultData
	if err := json.Unmarshal(decryptedData, &vaultData); err != nil {
		return nil, fmt.Errorf("failed to deserialize vault data: %w", err)
	}

	return vaultData.Payload, nil
}

func (v *Vault) ValidatePassword(password string) bool {
	_, err := v.Decrypt(password)
	return err == nil
}

func deriveKey(password string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), salt, ScryptN, ScryptR, ScryptP, KeyLen)
	if err != nil {
		return nil, fmt.Errorf("scrypt key derivation failed: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

func encrypt(key, nonce, data []byte) ([]byte, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return aesGCM.Seal(nil, nonce, data, nil), nil
}

func decrypt(key, nonce, data []byte) ([]byte, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plaintext, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
