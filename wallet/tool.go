package wallet

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/chinmay1088/ktools/api"
	"github.com/shopspring/decimal"
)

// Kind selects a chain variant
type Kind string

const (
	KindArweave  Kind = "arweave"
	KindSolana   Kind = "solana"
	KindK2       Kind = "k2"
	KindEthereum Kind = "ethereum"
)

// Kinds lists every supported chain variant
func Kinds() []Kind {
	return []Kind{KindArweave, KindSolana, KindK2, KindEthereum}
}

// ParseKind accepts a kind name or its ticker
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "arweave", "ar":
		return KindArweave, nil
	case "solana", "sol":
		return KindSolana, nil
	case "k2", "koii":
		return KindK2, nil
	case "ethereum", "eth":
		return KindEthereum, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, s)
	}
}

// Symbol returns the ticker of the chain's native coin
func (k Kind) Symbol() string {
	switch k {
	case KindArweave:
		return "AR"
	case KindSolana:
		return "SOL"
	case KindK2:
		return "KOII"
	case KindEthereum:
		return "ETH"
	default:
		return ""
	}
}

// Decimals is the number of decimals between the chain's smallest unit
// and one coin
func (k Kind) Decimals() int32 {
	switch k {
	case KindArweave:
		return 12
	case KindSolana, KindK2:
		return 9
	case KindEthereum:
		return 18
	default:
		return 0
	}
}

// ToCoins converts an amount in the chain's smallest unit to coins
func (k Kind) ToCoins(amount *big.Int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -k.Decimals())
}

// ImportMethod selects how ImportWallet reads its secret
type ImportMethod string

const (
	ImportSeedPhrase ImportMethod = "seedphrase"
	ImportKey        ImportMethod = "key"
)

// Wallet is the exported form of the selected keypair
type Wallet struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey"`
}

// Credentials restore a wallet without network access. Key uses the same
// encoding as Wallet.PrivateKey.
type Credentials struct {
	Address  string `json:"address"`
	Key      string `json:"key"`
	Mnemonic string `json:"mnemonic,omitempty"`
}

// SignedPayload is data signed by a wallet. Signature and Owner use the
// chain's native encodings.
type SignedPayload struct {
	Data      []byte `json:"data"`
	Signature string `json:"signature"`
	Signer    string `json:"signer"`
	Owner     string `json:"owner,omitempty"`
}

// Options configure a Tool
type Options struct {
	// Network is a cluster name (solana, k2), a network name (ethereum)
	// or ignored (arweave)
	Network string
	// Endpoint overrides the RPC endpoint derived from Network
	Endpoint string
	// RecoveryEndpoint is the RPC queried by the Solana recovery search
	RecoveryEndpoint string
	// Credentials restore a previously imported wallet
	Credentials *Credentials
	// FallbackPaths replaces the chain's default fallback list
	FallbackPaths []string
	// Gateway serves the Arweave tool
	Gateway *api.Client
	// Progress observes the recovery search of ImportWallet
	Progress ProgressFunc
}

// Tool is a wallet bound to one chain
type Tool interface {
	Kind() Kind
	Network() string
	Address() string
	ImportWallet(ctx context.Context, secret string, method ImportMethod) (*Wallet, error)
	// GenerateWallet creates and imports a wallet, returning its recovery
	// secret
	GenerateWallet(ctx context.Context) (string, error)
	// Balance is expressed in the chain's smallest unit
	Balance(ctx context.Context) (*big.Int, error)
	// Transfer sends amount whole coins and returns the transaction id
	Transfer(ctx context.Context, recipient string, amount decimal.Decimal) (string, error)
	SignPayload(ctx context.Context, data []byte) (*SignedPayload, error)
	// Export returns the imported wallet with its private key
	Export() (*Wallet, error)
}

// New returns the tool for kind
func New(kind Kind, opts Options) (Tool, error) {
	switch kind {
	case KindSolana, KindK2:
		return NewSolanaTool(kind, opts)
	case KindEthereum:
		return NewEthereumTool(opts)
	case KindArweave:
		return NewArweaveTool(opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// VerifyPayload checks a payload signed by a tool of kind
func VerifyPayload(kind Kind, p *SignedPayload) (bool, error) {
	switch kind {
	case KindSolana, KindK2:
		return VerifySolanaPayload(p)
	case KindEthereum:
		return VerifyEthereumPayload(p)
	case KindArweave:
		return VerifyArweavePayload(p)
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}
