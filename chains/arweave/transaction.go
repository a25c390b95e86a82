package arweave

import (
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
)

const formatV2 = 2

var ErrUnsigned = errors.New("transaction is not signed")

// Tag is a transaction tag with base64url encoded name and value
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Transaction is a format 2 Arweave transaction in its wire encoding
type Transaction struct {
	Format    int    `json:"format"`
	ID        string `json:"id"`
	LastTx    string `json:"last_tx"`
	Owner     string `json:"owner"`
	Tags      []Tag  `json:"tags"`
	Target    string `json:"target"`
	Quantity  string `json:"quantity"`
	Data      string `json:"data"`
	DataSize  string `json:"data_size"`
	DataRoot  string `json:"data_root"`
	Reward    string `json:"reward"`
	Signature string `json:"signature"`
}

// NewTransaction creates an unsigned transaction carrying data
func NewTransaction(data []byte) *Transaction {
	return &Transaction{
		Format:   formatV2,
		Tags:     []Tag{},
		Quantity: "0",
		Reward:   "0",
		Data:     b64(data),
		DataSize: strconv.Itoa(len(data)),
		DataRoot: b64(DataRoot(data)),
	}
}

func (tx *Transaction) AddTag(name, value string) {
	tx.Tags = append(tx.Tags, Tag{Name: b64([]byte(name)), Value: b64([]byte(value))})
}

// Tag returns the decoded value of the first tag called name
func (tx *Transaction) Tag(name string) (string, bool) {
	for _, t := range tx.Tags {
		n, err := unb64(t.Name)
		if err != nil || string(n) != name {
			continue
		}
		v, err := unb64(t.Value)
		if err != nil {
			return "", false
		}
		return string(v), true
	}
	return "", false
}

// SignatureData returns the deep hash the owner signs
func (tx *Transaction) SignatureData() ([]byte, error) {
	fields := map[string]string{
		"owner":     tx.Owner,
		"target":    tx.Target,
		"last_tx":   tx.LastTx,
		"data_root": tx.DataRoot,
	}
	decoded := make(map[string][]byte, len(fields))
	for name, v := range fields {
		b, err := unb64(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
		decoded[name] = b
	}

	tags := make(List, 0, len(tx.Tags))
	for _, t := range tx.Tags {
		name, err := unb64(t.Name)
		if err != nil {
			return nil, fmt.Errorf("invalid tag name: %w", err)
		}
		value, err := unb64(t.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid tag value: %w", err)
		}
		tags = append(tags, List{Blob(name), Blob(value)})
	}

	return DeepHash(List{
		Blob(strconv.Itoa(tx.Format)),
		Blob(decoded["owner"]),
		Blob(decoded["target"]),
		Blob(tx.Quantity),
		Blob(tx.Reward),
		Blob(decoded["last_tx"]),
		tags,
		Blob(tx.DataSize),
		Blob(decoded["data_root"]),
	}), nil
}

// Sign sets the owner, signature and id
func (tx *Transaction) Sign(key *rsa.PrivateKey) error {
	tx.Owner = Owner(&key.PublicKey)

	data, err := tx.SignatureData()
	if err != nil {
		return err
	}
	sig, err := Sign(key, data)
	if err != nil {
		return err
	}

	id := sha256.Sum256(sig)
	tx.Signature = b64(sig)
	tx.ID = b64(id[:])
	return nil
}

// Verify checks the signature and that the id matches it
func (tx *Transaction) Verify() error {
	if tx.Signature == "" {
		return ErrUnsigned
	}
	sig, err := unb64(tx.Signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	id := sha256.Sum256(sig)
	if b64(id[:]) != tx.ID {
		return fmt.Errorf("%w: id does not match signature", ErrInvalidSignature)
	}
	data, err := tx.SignatureData()
	if err != nil {
		return err
	}
	return Verify(tx.Owner, data, sig)
}
