package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	ethchain "github.com/chinmay1088/ktools/chains/ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

// Ethereum network names
const (
	EthereumMainnet = "mainnet"
	EthereumSepolia = "sepolia"
)

type ethereumLedger interface {
	Balance(ctx context.Context, address common.Address) (*big.Int, error)
	Transfer(ctx context.Context, key *ecdsa.PrivateKey, to common.Address, wei *big.Int) (common.Hash, error)
	TransactionStatus(ctx context.Context, hash common.Hash) (bool, error)
}

// EthereumTool is an Ethereum wallet. The RPC connection is opened on
// first use.
type EthereumTool struct {
	network     string
	endpoint    string
	defaultPath string
	fallback    []string
	progress    ProgressFunc

	dial     func(ctx context.Context, endpoint string) (ethereumLedger, error)
	ledgerMu sync.Mutex
	ledger   ethereumLedger

	mu      sync.RWMutex
	key     *ecdsa.PrivateKey
	address string
}

// EthereumRPC returns the public RPC endpoint of network
func EthereumRPC(network string) (string, error) {
	switch strings.ToLower(network) {
	case "", EthereumMainnet:
		return ethchain.MainnetRPC, nil
	case EthereumSepolia, "testnet":
		return ethchain.SepoliaRPC, nil
	default:
		return "", fmt.Errorf("unknown ethereum network: %s", network)
	}
}

func NewEthereumTool(opts Options) (*EthereumTool, error) {
	network := opts.Network
	if network == "" {
		network = EthereumMainnet
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		var err error
		if endpoint, err = EthereumRPC(network); err != nil {
			return nil, err
		}
	}

	t := &EthereumTool{
		network:     network,
		endpoint:    endpoint,
		defaultPath: EthereumDefaultPath,
		fallback:    opts.FallbackPaths,
		progress:    opts.Progress,
		dial: func(ctx context.Context, endpoint string) (ethereumLedger, error) {
			return ethchain.Dial(ctx, endpoint)
		},
	}

	if opts.Credentials != nil {
		key, err := ethchain.ParsePrivateKey(opts.Credentials.Key)
		if err != nil {
			return nil, fmt.Errorf("invalid credentials: %w", err)
		}
		address := crypto.PubkeyToAddress(key.PublicKey).Hex()
		if opts.Credentials.Address != "" && !strings.EqualFold(opts.Credentials.Address, address) {
			return nil, fmt.Errorf("invalid credentials: key belongs to %s, not %s", address, opts.Credentials.Address)
		}
		t.setKey(key)
	}
	return t, nil
}

func (t *EthereumTool) client(ctx context.Context) (ethereumLedger, error) {
	t.ledgerMu.Lock()
	defer t.ledgerMu.Unlock()

	if t.ledger != nil {
		return t.ledger, nil
	}
	ledger, err := t.dial(ctx, t.endpoint)
	if err != nil {
		return nil, err
	}
	t.ledger = ledger
	return ledger, nil
}

func (t *EthereumTool) setKey(key *ecdsa.PrivateKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.key = key
	t.address = crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func (t *EthereumTool) privateKey() (*ecdsa.PrivateKey, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.key == nil {
		return nil, ErrUninitialized
	}
	return t.key, nil
}

func (t *EthereumTool) Kind() Kind {
	return KindEthereum
}

func (t *EthereumTool) Network() string {
	return t.network
}

func (t *EthereumTool) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.address
}

func (t *EthereumTool) Export() (*Wallet, error) {
	key, err := t.privateKey()
	if err != nil {
		return nil, err
	}
	return &Wallet{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: ethchain.FormatPrivateKey(key),
	}, nil
}

// ImportWallet imports a hex private key or recovers the funded account of
// a mnemonic
func (t *EthereumTool) ImportWallet(ctx context.Context, secret string, method ImportMethod) (*Wallet, error) {
	var key *ecdsa.PrivateKey

	switch method {
	case ImportKey:
		var err error
		if key, err = ethchain.ParsePrivateKey(secret); err != nil {
			return nil, err
		}
	case ImportSeedPhrase:
		recovery := NewRecovery(DeriveEthereumKeypair, t.recoveryBalance)
		recovery.Progress = t.progress
		kp, err := recovery.Recover(ctx, secret, t.defaultPath, t.fallback)
		if err != nil {
			return nil, err
		}
		if key, err = crypto.ToECDSA(kp.SecretKey); err != nil {
			return nil, fmt.Errorf("invalid derived key: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImport, method)
	}

	t.setKey(key)
	return &Wallet{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: ethchain.FormatPrivateKey(key),
	}, nil
}

func (t *EthereumTool) recoveryBalance(ctx context.Context, address string) (*big.Int, error) {
	ledger, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Balance(ctx, common.HexToAddress(address))
}

func (t *EthereumTool) GenerateWallet(ctx context.Context) (string, error) {
	mnemonic, err := NewMnemonic(128)
	if err != nil {
		return "", err
	}
	if _, err := t.ImportWallet(ctx, mnemonic, ImportSeedPhrase); err != nil {
		return "", err
	}
	return mnemonic, nil
}

// Balance returns the wei held by the wallet
func (t *EthereumTool) Balance(ctx context.Context) (*big.Int, error) {
	key, err := t.privateKey()
	if err != nil {
		return nil, err
	}
	ledger, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Balance(ctx, crypto.PubkeyToAddress(key.PublicKey))
}

// Transfer sends amount ETH to recipient and returns the transaction hash
func (t *EthereumTool) Transfer(ctx context.Context, recipient string, amount decimal.Decimal) (string, error) {
	key, err := t.privateKey()
	if err != nil {
		return "", err
	}
	to, err := ethchain.ParseAddress(recipient)
	if err != nil {
		return "", err
	}
	wei, err := ethchain.EtherToWei(amount)
	if err != nil {
		return "", err
	}
	ledger, err := t.client(ctx)
	if err != nil {
		return "", err
	}

	hash, err := ledger.Transfer(ctx, key, to, wei)
	if err != nil {
		return "", fmt.Errorf("failed to transfer: %w", err)
	}
	return hash.Hex(), nil
}

// TransactionStatus reports whether a mined transaction succeeded
func (t *EthereumTool) TransactionStatus(ctx context.Context, hash string) (bool, error) {
	ledger, err := t.client(ctx)
	if err != nil {
		return false, err
	}
	return ledger.TransactionStatus(ctx, common.HexToHash(hash))
}

// SignPayload signs data as an EIP-191 personal message
func (t *EthereumTool) SignPayload(_ context.Context, data []byte) (*SignedPayload, error) {
	key, err := t.privateKey()
	if err != nil {
		return nil, err
	}
	sig, err := ethchain.SignMessage(key, data)
	if err != nil {
		return nil, err
	}
	return &SignedPayload{
		Data:      data,
		Signature: hexutil.Encode(sig),
		Signer:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}, nil
}

// VerifyEthereumPayload checks a payload produced by EthereumTool.SignPayload
func VerifyEthereumPayload(p *SignedPayload) (bool, error) {
	sig, err := hexutil.Decode(p.Signature)
	if err != nil {
		return false, fmt.Errorf("invalid signature encoding: %w", err)
	}
	signer, err := ethchain.RecoverSigner(p.Data, sig)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(signer.Hex(), p.Signer), nil
}
