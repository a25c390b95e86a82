package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/chinmay1088/ktools/chains"
	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// RPC endpoints
const (
	MainnetRPC = "https://ethereum-rpc.publicnode.com"
	SepoliaRPC = "https://ethereum-sepolia.publicnode.com"
)

// ErrPending is returned by TransactionStatus while a transaction has no
// receipt yet
var ErrPending = errors.New("transaction is pending")

// Client wraps an ethclient connection
type Client struct {
	eth *ethclient.Client
}

// Dial connects to an Ethereum JSON-RPC endpoint
func Dial(ctx context.Context, endpoint string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, chains.NewNetworkError("dial", err)
	}
	return &Client{eth: eth}, nil
}

func (c *Client) Close() {
	c.eth.Close()
}

// Balance returns the wei held by address at the latest block
func (c *Client) Balance(ctx context.Context, address common.Address) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, chains.NewNetworkError("eth_getBalance", err)
	}
	return balance, nil
}

// Transfer sends wei from key's address to recipient as a legacy
// transaction priced at the node's suggested gas price
func (c *Client) Transfer(
	ctx context.Context, key *ecdsa.PrivateKey, to common.Address, wei *big.Int,
) (common.Hash, error) {
	from := crypto.PubkeyToAddress(key.PublicKey)

	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, chains.NewNetworkError("eth_getTransactionCount", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, chains.NewNetworkError("eth_gasPrice", err)
	}

	gas, err := c.eth.EstimateGas(ctx, goethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: wei,
	})
	if err != nil {
		return common.Hash{}, chains.NewNetworkError("eth_estimateGas", err)
	}

	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		return common.Hash{}, chains.NewNetworkError("eth_chainId", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    wei,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, chains.NewNetworkError("eth_sendRawTransaction", err)
	}

	return signed.Hash(), nil
}

// TransactionStatus reports whether a mined transaction succeeded.
// ErrPending is returned when no receipt exists yet.
func (c *Client) TransactionStatus(ctx context.Context, hash common.Hash) (bool, error) {
	receipt, err := c.eth.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, goethereum.NotFound) {
			return false, ErrPending
		}
		return false, chains.NewNetworkError("eth_getTransactionReceipt", err)
	}
	return receipt.Status == types.ReceiptStatusSuccessful, nil
}
