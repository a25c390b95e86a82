package arweave

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
)

const saltLength = 32

var ErrInvalidSignature = errors.New("invalid signature")

// Sign produces an RSA-PSS SHA-256 signature over data
func Sign(key *rsa.PrivateKey, data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)
	sig, err := rsa.SignPSS(rand.Reader, key, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: saltLength,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return sig, nil
}

// Verify checks an RSA-PSS signature made by owner over data
func Verify(owner string, data, sig []byte) error {
	pub, err := OwnerPublicKey(owner)
	if err != nil {
		return err
	}
	digest := sha256.Sum256(data)
	if err := rsa.VerifyPSS(pub, crypto.SHA256, digest[:], sig, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

// Payload is a bundler message. The signature covers the JSON encoding of
// Data, or of Vote when Data is empty.
type Payload struct {
	Data      json.RawMessage `json:"data,omitempty"`
	Vote      json.RawMessage `json:"vote,omitempty"`
	Signature string          `json:"signature,omitempty"`
	Owner     string          `json:"owner,omitempty"`
}

func (p *Payload) signedBytes() []byte {
	switch {
	case len(p.Data) > 0:
		return p.Data
	case len(p.Vote) > 0:
		return p.Vote
	default:
		return []byte("null")
	}
}

// SignPayload fills the payload signature and owner
func SignPayload(key *rsa.PrivateKey, p *Payload) error {
	sig, err := Sign(key, p.signedBytes())
	if err != nil {
		return err
	}
	p.Signature = b64(sig)
	p.Owner = Owner(&key.PublicKey)
	return nil
}

// VerifyPayload checks the payload signature against its owner
func VerifyPayload(p *Payload) error {
	sig, err := unb64(p.Signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return Verify(p.Owner, p.signedBytes(), sig)
}
