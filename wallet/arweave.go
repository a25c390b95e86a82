package wallet

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"sync"

	"github.com/chinmay1088/ktools/chains"
	"github.com/chinmay1088/ktools/chains/arweave"
	"github.com/shopspring/decimal"
)

type arweaveGateway interface {
	WalletBalance(ctx context.Context, address string) (*big.Int, error)
	Price(ctx context.Context, size int, target string) (*big.Int, error)
	TxAnchor(ctx context.Context) (string, error)
	PostTransaction(ctx context.Context, tx interface{}) error
}

// ArweaveTool is an Arweave JWK wallet talking to a gateway
type ArweaveTool struct {
	gateway arweaveGateway

	mu      sync.RWMutex
	key     *rsa.PrivateKey
	address string
}

func NewArweaveTool(opts Options) (*ArweaveTool, error) {
	t := &ArweaveTool{}
	if opts.Gateway != nil {
		t.gateway = opts.Gateway
	}

	if opts.Credentials != nil {
		key, err := arweave.ParseJWK([]byte(opts.Credentials.Key))
		if err != nil {
			return nil, fmt.Errorf("invalid credentials: %w", err)
		}
		address := arweave.Address(&key.PublicKey)
		if opts.Credentials.Address != "" && opts.Credentials.Address != address {
			return nil, fmt.Errorf("invalid credentials: key belongs to %s, not %s", address, opts.Credentials.Address)
		}
		t.setKey(key)
	}
	return t, nil
}

func (t *ArweaveTool) setKey(key *rsa.PrivateKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.key = key
	t.address = arweave.Address(&key.PublicKey)
}

func (t *ArweaveTool) privateKey() (*rsa.PrivateKey, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.key == nil {
		return nil, ErrUninitialized
	}
	return t.key, nil
}

func (t *ArweaveTool) gw() (arweaveGateway, error) {
	if t.gateway == nil {
		return nil, fmt.Errorf("%w: no gateway configured", ErrUninitialized)
	}
	return t.gateway, nil
}

func (t *ArweaveTool) Kind() Kind {
	return KindArweave
}

func (t *ArweaveTool) Network() string {
	return "mainnet"
}

func (t *ArweaveTool) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.address
}

// Export returns the wallet with its key as a JWK
func (t *ArweaveTool) Export() (*Wallet, error) {
	key, err := t.privateKey()
	if err != nil {
		return nil, err
	}
	jwk, err := arweave.MarshalJWK(key)
	if err != nil {
		return nil, err
	}
	return &Wallet{
		Address:    arweave.Address(&key.PublicKey),
		PrivateKey: string(jwk),
	}, nil
}

// ImportWallet imports a JWK. Arweave keys cannot be recovered from a
// mnemonic.
func (t *ArweaveTool) ImportWallet(_ context.Context, secret string, method ImportMethod) (*Wallet, error) {
	if method != ImportKey {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImport, method)
	}

	key, err := arweave.ParseJWK([]byte(secret))
	if err != nil {
		return nil, err
	}
	jwk, err := arweave.MarshalJWK(key)
	if err != nil {
		return nil, err
	}

	t.setKey(key)
	return &Wallet{
		Address:    arweave.Address(&key.PublicKey),
		PrivateKey: string(jwk),
	}, nil
}

// GenerateWallet creates an RSA-4096 key, imports it and returns its JWK
func (t *ArweaveTool) GenerateWallet(ctx context.Context) (string, error) {
	key, err := arweave.GenerateKey()
	if err != nil {
		return "", err
	}
	jwk, err := arweave.MarshalJWK(key)
	if err != nil {
		return "", err
	}
	if _, err := t.ImportWallet(ctx, string(jwk), ImportKey); err != nil {
		return "", err
	}
	return string(jwk), nil
}

// Balance returns the winston held by the wallet
func (t *ArweaveTool) Balance(ctx context.Context) (*big.Int, error) {
	if _, err := t.privateKey(); err != nil {
		return nil, err
	}
	gw, err := t.gw()
	if err != nil {
		return nil, err
	}
	return gw.WalletBalance(ctx, t.Address())
}

// Transfer sends amount AR to recipient
func (t *ArweaveTool) Transfer(ctx context.Context, recipient string, amount decimal.Decimal) (string, error) {
	if !arweave.ValidID(recipient) {
		return "", fmt.Errorf("%w: %s", chains.ErrInvalidAddress, recipient)
	}
	winston, err := arweave.ARToWinston(amount)
	if err != nil {
		return "", err
	}

	tx := arweave.NewTransaction(nil)
	tx.Target = recipient
	tx.Quantity = winston.String()
	return t.post(ctx, tx)
}

// PostData stores data as indented JSON and returns the transaction id
func (t *ArweaveTool) PostData(ctx context.Context, data interface{}) (string, error) {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}
	tx := arweave.NewTransaction(raw)
	tx.AddTag("Content-Type", "application/json")
	return t.post(ctx, tx)
}

// InteractWrite calls a SmartWeave contract and returns the interaction
// transaction id
func (t *ArweaveTool) InteractWrite(ctx context.Context, contractID string, in arweave.Input) (string, error) {
	tx, err := arweave.NewInteraction(contractID, in)
	if err != nil {
		return "", err
	}
	return t.post(ctx, tx)
}

// post prices, anchors, signs and submits tx
func (t *ArweaveTool) post(ctx context.Context, tx *arweave.Transaction) (string, error) {
	key, err := t.privateKey()
	if err != nil {
		return "", err
	}
	gw, err := t.gw()
	if err != nil {
		return "", err
	}

	size, err := strconv.Atoi(tx.DataSize)
	if err != nil {
		return "", fmt.Errorf("invalid data size: %w", err)
	}
	reward, err := gw.Price(ctx, size, tx.Target)
	if err != nil {
		return "", err
	}
	anchor, err := gw.TxAnchor(ctx)
	if err != nil {
		return "", err
	}
	tx.Reward = reward.String()
	tx.LastTx = anchor

	if err := tx.Sign(key); err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := gw.PostTransaction(ctx, tx); err != nil {
		return "", fmt.Errorf("failed to post transaction: %w", err)
	}
	return tx.ID, nil
}

func payloadData(data []byte) (json.RawMessage, error) {
	if json.Valid(data) {
		return json.RawMessage(data), nil
	}
	raw, err := json.Marshal(string(data))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// SignPayload signs data as a bundler payload. Data that is not JSON is
// signed as a JSON string.
func (t *ArweaveTool) SignPayload(_ context.Context, data []byte) (*SignedPayload, error) {
	key, err := t.privateKey()
	if err != nil {
		return nil, err
	}
	raw, err := payloadData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	p := &arweave.Payload{Data: raw}
	if err := arweave.SignPayload(key, p); err != nil {
		return nil, err
	}
	return &SignedPayload{
		Data:      data,
		Signature: p.Signature,
		Signer:    arweave.Address(&key.PublicKey),
		Owner:     p.Owner,
	}, nil
}

// VerifyArweavePayload checks a payload produced by ArweaveTool.SignPayload
func VerifyArweavePayload(p *SignedPayload) (bool, error) {
	raw, err := payloadData(p.Data)
	if err != nil {
		return false, err
	}
	signer, err := arweave.AddressFromOwner(p.Owner)
	if err != nil {
		return false, err
	}
	if signer != p.Signer {
		return false, nil
	}
	if err := arweave.VerifyPayload(&arweave.Payload{Data: raw, Signature: p.Signature, Owner: p.Owner}); err != nil {
		return false, nil
	}
	return true, nil
}
