// Package tasks builds and submits Koii task program transactions on K2.
package tasks

import (
	"context"
	"errors"
	"fmt"

	solchain "github.com/chinmay1088/ktools/chains/solana"
	"github.com/chinmay1088/ktools/instruction"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"
)

const (
	// accountPadding is added on top of the rent exempt minimum of every
	// account created for the program
	accountPadding = 1000
	funderSpace    = 100
)

// Ledger is the K2 RPC surface used by the task builders
type Ledger interface {
	SendAndConfirm(
		ctx context.Context,
		instructions []solana.Instruction,
		feePayer solana.PrivateKey,
		signers ...solana.PrivateKey,
	) (solana.Signature, error)
	MinimumBalanceForRentExemption(ctx context.Context, space uint64) (uint64, error)
	AccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.Account, error)
	Balance(ctx context.Context, account solana.PublicKey) (uint64, error)
}

// Client submits task program instructions through ledger
type Client struct {
	ledger    Ledger
	programID solana.PublicKey
}

func NewClient(ledger Ledger, programID solana.PublicKey) *Client {
	return &Client{ledger: ledger, programID: programID}
}

func (c *Client) ProgramID() solana.PublicKey {
	return c.programID
}

// CheckProgram verifies the task program is deployed on the cluster
func (c *Client) CheckProgram(ctx context.Context) error {
	info, err := c.ledger.AccountInfo(ctx, c.programID)
	if err != nil {
		if errors.Is(err, solchain.ErrAccountNotFound) {
			return ErrProgramNotFound
		}
		return err
	}
	if !info.Executable {
		return ErrProgramNotExecutable
	}
	log.WithField("program", c.programID.String()).Debug("using task program")
	return nil
}

// CheckPayer fails with ErrInsufficientFunds when payer holds less than
// required lamports
func (c *Client) CheckPayer(ctx context.Context, payer solana.PublicKey, required uint64) (uint64, error) {
	lamports, err := c.ledger.Balance(ctx, payer)
	if err != nil {
		return 0, err
	}
	if lamports < required {
		return lamports, fmt.Errorf("%w: %s holds %d lamports, needs %d",
			ErrInsufficientFunds, payer, lamports, required)
	}
	return lamports, nil
}

// newInstruction encodes ix for the task program with the given accounts
func (c *Client) newInstruction(ix instruction.Instruction, accounts solana.AccountMetaSlice) (solana.Instruction, error) {
	data, err := instruction.EncodeInstruction(ix)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(c.programID, accounts, data), nil
}

// createAccount allocates a program owned account of space bytes funded
// with the rent exempt minimum plus extra lamports
func (c *Client) createAccount(
	ctx context.Context,
	payer, account solana.PrivateKey,
	space, extra uint64,
) error {
	rent, err := c.ledger.MinimumBalanceForRentExemption(ctx, space)
	if err != nil {
		return err
	}

	tx := solchain.NewTransaction(payer.PublicKey())
	tx.AddCreateAccountInstruction(
		payer.PublicKey(), account.PublicKey(), c.programID, rent+accountPadding+extra, space,
	)
	if _, err := c.ledger.SendAndConfirm(ctx, tx.Instructions, payer, account); err != nil {
		return fmt.Errorf("failed to create account %s: %w", account.PublicKey(), err)
	}

	log.WithFields(log.Fields{
		"account":  account.PublicKey().String(),
		"space":    space,
		"lamports": rent + accountPadding + extra,
	}).Debug("program account created")
	return nil
}

func (c *Client) send(
	ctx context.Context,
	ix solana.Instruction,
	payer solana.PrivateKey,
	signers ...solana.PrivateKey,
) (solana.Signature, error) {
	sig, err := c.ledger.SendAndConfirm(ctx, []solana.Instruction{ix}, payer, signers...)
	if err != nil {
		return solana.Signature{}, err
	}
	return sig, nil
}
