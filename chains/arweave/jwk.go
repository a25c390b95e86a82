package arweave

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// KeySize is the modulus size of wallets created by GenerateKey
const KeySize = 4096

// publicExponent is fixed for Arweave wallets
const publicExponent = 65537

var ErrInvalidJWK = errors.New("invalid arweave jwk")

// JWK is the JSON Web Key document Arweave wallets are stored as. All
// numbers are base64url without padding.
type JWK struct {
	Kty string `json:"kty"`
	E   string `json:"e"`
	N   string `json:"n"`
	D   string `json:"d,omitempty"`
	P   string `json:"p,omitempty"`
	Q   string `json:"q,omitempty"`
	Dp  string `json:"dp,omitempty"`
	Dq  string `json:"dq,omitempty"`
	Qi  string `json:"qi,omitempty"`
}

func b64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func unb64(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

func decodeInt(field, s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidJWK, field)
	}
	b, err := unb64(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidJWK, field, err)
	}
	return new(big.Int).SetBytes(b), nil
}

// GenerateKey creates a new RSA wallet key
func GenerateKey() (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rsa key: %w", err)
	}
	return key, nil
}

// ParseJWK decodes a private JWK document
func ParseJWK(data []byte) (*rsa.PrivateKey, error) {
	var jwk JWK
	if err := json.Unmarshal(data, &jwk); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWK, err)
	}
	if jwk.Kty != "RSA" {
		return nil, fmt.Errorf("%w: unsupported key type %q", ErrInvalidJWK, jwk.Kty)
	}

	n, err := decodeInt("n", jwk.N)
	if err != nil {
		return nil, err
	}
	e, err := decodeInt("e", jwk.E)
	if err != nil {
		return nil, err
	}
	d, err := decodeInt("d", jwk.D)
	if err != nil {
		return nil, err
	}
	p, err := decodeInt("p", jwk.P)
	if err != nil {
		return nil, err
	}
	q, err := decodeInt("q", jwk.Q)
	if err != nil {
		return nil, err
	}

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: int(e.Int64())},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWK, err)
	}
	key.Precompute()
	return key, nil
}

// MarshalJWK encodes key as a private JWK document
func MarshalJWK(key *rsa.PrivateKey) ([]byte, error) {
	if len(key.Primes) != 2 {
		return nil, fmt.Errorf("%w: expected 2 primes, got %d", ErrInvalidJWK, len(key.Primes))
	}
	key.Precompute()

	jwk := JWK{
		Kty: "RSA",
		E:   b64(big.NewInt(int64(key.E)).Bytes()),
		N:   b64(key.N.Bytes()),
		D:   b64(key.D.Bytes()),
		P:   b64(key.Primes[0].Bytes()),
		Q:   b64(key.Primes[1].Bytes()),
		Dp:  b64(key.Precomputed.Dp.Bytes()),
		Dq:  b64(key.Precomputed.Dq.Bytes()),
		Qi:  b64(key.Precomputed.Qinv.Bytes()),
	}
	return json.Marshal(jwk)
}

// Owner returns the base64url modulus that identifies the key in
// transactions
func Owner(pub *rsa.PublicKey) string {
	return b64(pub.N.Bytes())
}

// OwnerPublicKey rebuilds a public key from its owner string
func OwnerPublicKey(owner string) (*rsa.PublicKey, error) {
	n, err := unb64(owner)
	if err != nil || len(n) == 0 {
		return nil, fmt.Errorf("invalid owner: %v", err)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: publicExponent}, nil
}

// Address is base64url(sha256(modulus))
func Address(pub *rsa.PublicKey) string {
	sum := sha256.Sum256(pub.N.Bytes())
	return b64(sum[:])
}

// AddressFromOwner derives the wallet address of an owner string
func AddressFromOwner(owner string) (string, error) {
	n, err := unb64(owner)
	if err != nil {
		return "", fmt.Errorf("invalid owner: %w", err)
	}
	sum := sha256.Sum256(n)
	return b64(sum[:]), nil
}

// ValidID reports whether s looks like an Arweave transaction id or
// address: 43 base64url characters
func ValidID(s string) bool {
	if len(s) != 43 {
		return false
	}
	b, err := unb64(s)
	return err == nil && len(b) == 32
}
