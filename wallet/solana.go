package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"math/big"
	"sync"

	solchain "github.com/chinmay1088/ktools/chains/solana"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
)

// solanaLedger is the part of the RPC client the Solana tool needs
type solanaLedger interface {
	Balance(ctx context.Context, account solana.PublicKey) (uint64, error)
	SendAndConfirm(
		ctx context.Context,
		instructions []solana.Instruction,
		feePayer solana.PrivateKey,
		signers ...solana.PrivateKey,
	) (solana.Signature, error)
}

// SolanaTool is a Solana or K2 wallet. Both chains share the account model
// and differ in default path, fallback search and cluster.
type SolanaTool struct {
	kind        Kind
	network     string
	defaultPath string
	fallback    []string
	progress    ProgressFunc

	ledger   solanaLedger
	recovery solanaLedger

	mu      sync.RWMutex
	key     solana.PrivateKey
	address string
}

// NewSolanaTool returns a tool for KindSolana or KindK2
func NewSolanaTool(kind Kind, opts Options) (*SolanaTool, error) {
	network := opts.Network
	if network == "" {
		network = solchain.Testnet
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		var err error
		switch kind {
		case KindK2:
			endpoint, err = solchain.K2ClusterURL(network)
		case KindSolana:
			endpoint, err = solchain.ClusterURL(network, true)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
		}
		if err != nil {
			return nil, err
		}
	}
	ledger := solchain.NewClient(endpoint)

	t := &SolanaTool{
		kind:     kind,
		network:  network,
		progress: opts.Progress,
		ledger:   ledger,
		recovery: ledger,
	}

	switch kind {
	case KindK2:
		t.defaultPath = K2DefaultPath
		t.fallback = K2FallbackPaths()
	case KindSolana:
		t.defaultPath = SolanaDefaultPath
		t.fallback = SolanaFallbackPaths()
		// recovered funds live on mainnet whatever cluster the tool uses
		recoveryEndpoint := opts.RecoveryEndpoint
		if recoveryEndpoint == "" {
			recoveryEndpoint, _ = solchain.ClusterURL(solchain.MainnetBeta, true)
		}
		if recoveryEndpoint != endpoint {
			t.recovery = solchain.NewClient(recoveryEndpoint)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if opts.FallbackPaths != nil {
		t.fallback = opts.FallbackPaths
	}

	if opts.Credentials != nil {
		if err := t.restore(opts.Credentials); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *SolanaTool) restore(creds *Credentials) error {
	key, err := solchain.ParseSecretKey(creds.Key)
	if err != nil {
		return fmt.Errorf("invalid credentials: %w", err)
	}
	address := key.PublicKey().String()
	if creds.Address != "" && creds.Address != address {
		return fmt.Errorf("invalid credentials: key belongs to %s, not %s", address, creds.Address)
	}
	t.setKey(key)
	return nil
}

func (t *SolanaTool) setKey(key solana.PrivateKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.key = key
	t.address = key.PublicKey().String()
}

func (t *SolanaTool) Kind() Kind {
	return t.kind
}

func (t *SolanaTool) Network() string {
	return t.network
}

func (t *SolanaTool) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.address
}

// PrivateKey returns the imported key, used as fee payer for task
// program calls
func (t *SolanaTool) PrivateKey() (solana.PrivateKey, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.key == nil {
		return nil, ErrUninitialized
	}
	return t.key, nil
}

func (t *SolanaTool) Export() (*Wallet, error) {
	key, err := t.PrivateKey()
	if err != nil {
		return nil, err
	}
	return &Wallet{
		Address:    key.PublicKey().String(),
		PrivateKey: solchain.FormatSecretKey(key),
	}, nil
}

// ImportWallet imports a base58 secret key or runs the recovery search
// over a mnemonic
func (t *SolanaTool) ImportWallet(ctx context.Context, secret string, method ImportMethod) (*Wallet, error) {
	var key solana.PrivateKey

	switch method {
	case ImportKey:
		var err error
		key, err = solchain.ParseBase58SecretKey(secret)
		if err != nil {
			return nil, err
		}
	case ImportSeedPhrase:
		recovery := NewRecovery(DeriveSolanaKeypair, t.recoveryBalance)
		recovery.Progress = t.progress
		kp, err := recovery.Recover(ctx, secret, t.defaultPath, t.fallback)
		if err != nil {
			return nil, err
		}
		key = solana.PrivateKey(kp.SecretKey)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImport, method)
	}

	t.setKey(key)
	return &Wallet{
		Address:    key.PublicKey().String(),
		PrivateKey: solchain.FormatSecretKey(key),
	}, nil
}

func (t *SolanaTool) recoveryBalance(ctx context.Context, address string) (*big.Int, error) {
	pubKey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, err
	}
	lamports, err := t.recovery.Balance(ctx, pubKey)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(lamports), nil
}

// GenerateWallet imports a fresh 12 word mnemonic and returns it
func (t *SolanaTool) GenerateWallet(ctx context.Context) (string, error) {
	mnemonic, err := NewMnemonic(128)
	if err != nil {
		return "", err
	}
	if _, err := t.ImportWallet(ctx, mnemonic, ImportSeedPhrase); err != nil {
		return "", err
	}
	return mnemonic, nil
}

// Balance returns the lamports held by the wallet
func (t *SolanaTool) Balance(ctx context.Context) (*big.Int, error) {
	key, err := t.PrivateKey()
	if err != nil {
		return nil, err
	}
	lamports, err := t.ledger.Balance(ctx, key.PublicKey())
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(lamports), nil
}

// Transfer sends amount SOL (or KOII) to recipient and waits for
// confirmation
func (t *SolanaTool) Transfer(ctx context.Context, recipient string, amount decimal.Decimal) (string, error) {
	key, err := t.PrivateKey()
	if err != nil {
		return "", err
	}
	to, err := solchain.ParseAddress(recipient)
	if err != nil {
		return "", err
	}
	lamports, err := solchain.SOLToLamports(amount)
	if err != nil {
		return "", err
	}

	ix := system.NewTransferInstruction(lamports, key.PublicKey(), to).Build()
	sig, err := t.ledger.SendAndConfirm(ctx, []solana.Instruction{ix}, key)
	if err != nil {
		return "", fmt.Errorf("failed to transfer: %w", err)
	}
	return sig.String(), nil
}

// SignPayload signs data with the wallet's ed25519 key
func (t *SolanaTool) SignPayload(_ context.Context, data []byte) (*SignedPayload, error) {
	key, err := t.PrivateKey()
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(data)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return &SignedPayload{
		Data:      data,
		Signature: base58.Encode(sig[:]),
		Signer:    key.PublicKey().String(),
	}, nil
}

// VerifySolanaPayload checks a payload produced by SolanaTool.SignPayload
func VerifySolanaPayload(p *SignedPayload) (bool, error) {
	pubKey, err := solchain.ParseAddress(p.Signer)
	if err != nil {
		return false, err
	}
	raw, err := base58.Decode(p.Signature)
	if err != nil {
		return false, fmt.Errorf("invalid signature encoding: %w", err)
	}
	if len(raw) != ed25519.SignatureSize {
		return false, fmt.Errorf("signature must have %d bytes, got %d", ed25519.SignatureSize, len(raw))
	}
	var sig solana.Signature
	copy(sig[:], raw)
	return sig.Verify(pubKey, p.Data), nil
}
