package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chinmay1088/ktools/chains"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"
)

const (
	// confirmTimeout bounds SendAndConfirm when ctx has no deadline
	confirmTimeout = 90 * time.Second
	pollInterval   = 500 * time.Millisecond
)

var (
	// ErrTransactionFailed is returned when a confirmed transaction carries
	// an execution error
	ErrTransactionFailed = errors.New("transaction failed")
	// ErrAccountNotFound is returned by AccountInfo for accounts that do not
	// exist on chain
	ErrAccountNotFound = errors.New("account not found")
)

// Client talks to a Solana or K2 JSON-RPC endpoint at confirmed commitment
type Client struct {
	rpc        *rpc.Client
	endpoint   string
	commitment rpc.CommitmentType
}

func NewClient(endpoint string) *Client {
	return &Client{
		rpc:        rpc.New(endpoint),
		endpoint:   endpoint,
		commitment: rpc.CommitmentConfirmed,
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Balance returns the lamports held by account
func (c *Client) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, account, c.commitment)
	if err != nil {
		return 0, chains.NewNetworkError("getBalance", err)
	}
	return out.Value, nil
}

func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, chains.NewNetworkError("getLatestBlockhash", err)
	}
	return out.Value.Blockhash, nil
}

func (c *Client) MinimumBalanceForRentExemption(ctx context.Context, space uint64) (uint64, error) {
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, space, c.commitment)
	if err != nil {
		return 0, chains.NewNetworkError("getMinimumBalanceForRentExemption", err)
	}
	return lamports, nil
}

// AccountInfo returns ErrAccountNotFound for missing accounts
func (c *Client) AccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.Account, error) {
	out, err := c.rpc.GetAccountInfo(ctx, account)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, chains.NewNetworkError("getAccountInfo", err)
	}
	if out == nil || out.Value == nil {
		return nil, ErrAccountNotFound
	}
	return out.Value, nil
}

// SendAndConfirm signs instructions with feePayer and signers, submits the
// transaction and waits until the cluster reports it confirmed
func (c *Client) SendAndConfirm(
	ctx context.Context,
	instructions []solana.Instruction,
	feePayer solana.PrivateKey,
	signers ...solana.PrivateKey,
) (solana.Signature, error) {
	blockhash, err := c.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	tx := NewTransaction(feePayer.PublicKey())
	tx.AddInstruction(instructions...)
	tx.AddSigner(feePayer)
	tx.AddSigner(signers...)
	tx.SetRecentBlockhash(blockhash)

	stx, err := tx.Build()
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, stx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return solana.Signature{}, chains.NewNetworkError("sendTransaction", err)
	}

	log.WithField("signature", sig.String()).Debug("transaction submitted")

	if err := c.confirm(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

func (c *Client) confirm(ctx context.Context, sig solana.Signature) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return chains.NewNetworkError("getSignatureStatuses", err)
		}
		if len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]
			if status.Err != nil {
				return fmt.Errorf("%w: %s: %v", ErrTransactionFailed, sig, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return chains.NewNetworkError("confirmTransaction", ctx.Err())
		case <-ticker.C:
		}
	}
}
