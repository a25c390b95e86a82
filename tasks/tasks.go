package tasks

import (
	"context"
	"fmt"
	"math"

	solchain "github.com/chinmay1088/ktools/chains/solana"
	"github.com/chinmay1088/ktools/instruction"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// TaskParams are the settings shared by CreateTask and UpdateTask. Amounts
// are in KOII, windows in slots.
type TaskParams struct {
	Name                       string
	Description                string
	AuditProgram               string
	ExecutableNetwork          string
	BountyAmountPerRound       decimal.Decimal
	Space                      uint64
	RoundTime                  int64
	AuditWindow                int64
	SubmissionWindow           int64
	MinimumStakeAmount         decimal.Decimal
	Metadata                   string
	LocalVars                  string
	AllowedFailedDistributions int64
}

type CreateTaskParams struct {
	TaskParams
	TotalBountyAmount decimal.Decimal
	// KoiiVars is passed read-only to the program when set
	KoiiVars *solana.PublicKey
}

type UpdateTaskParams struct {
	TaskParams
}

// TaskAccounts are the accounts created for a task
type TaskAccounts struct {
	StateAccount    solana.PrivateKey
	StakePotAccount solana.PublicKey
}

func (p TaskParams) validate() error {
	if p.RoundTime < 0 || p.AuditWindow < 0 || p.SubmissionWindow < 0 {
		return ErrNegativeWindow
	}
	// both windows are non-negative so the sum can only overflow upwards
	windows := p.AuditWindow + p.SubmissionWindow
	if windows < 0 || p.RoundTime < windows {
		return ErrInvalidRoundTime
	}
	return nil
}

func toLamports(field string, amount decimal.Decimal) (int64, error) {
	lamports, err := solchain.SOLToLamports(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", field, err)
	}
	if lamports > math.MaxInt64 {
		return 0, fmt.Errorf("invalid %s: %w", field, ErrAmountOverflow)
	}
	return int64(lamports), nil
}

func (p CreateTaskParams) instruction() (instruction.CreateTask, error) {
	if err := p.validate(); err != nil {
		return instruction.CreateTask{}, err
	}
	total, err := toLamports("total bounty amount", p.TotalBountyAmount)
	if err != nil {
		return instruction.CreateTask{}, err
	}
	perRound, err := toLamports("bounty amount per round", p.BountyAmountPerRound)
	if err != nil {
		return instruction.CreateTask{}, err
	}
	minStake, err := toLamports("minimum stake amount", p.MinimumStakeAmount)
	if err != nil {
		return instruction.CreateTask{}, err
	}

	return instruction.CreateTask{
		TaskName:                   p.Name,
		TaskDescription:            p.Description,
		TaskAuditProgram:           p.AuditProgram,
		TaskExecutableNetwork:      p.ExecutableNetwork,
		TotalBountyAmount:          total,
		BountyAmountPerRound:       perRound,
		RoundTime:                  p.RoundTime,
		AuditWindow:                p.AuditWindow,
		SubmissionWindow:           p.SubmissionWindow,
		MinimumStakeAmount:         minStake,
		TaskMetadata:               p.Metadata,
		LocalVars:                  p.LocalVars,
		AllowedFailedDistributions: p.AllowedFailedDistributions,
	}, nil
}

func (p UpdateTaskParams) instruction() (instruction.UpdateTask, error) {
	if err := p.validate(); err != nil {
		return instruction.UpdateTask{}, err
	}
	perRound, err := toLamports("bounty amount per round", p.BountyAmountPerRound)
	if err != nil {
		return instruction.UpdateTask{}, err
	}
	minStake, err := toLamports("minimum stake amount", p.MinimumStakeAmount)
	if err != nil {
		return instruction.UpdateTask{}, err
	}

	return instruction.UpdateTask{
		TaskName:                   p.Name,
		TaskDescription:            p.Description,
		TaskAuditProgram:           p.AuditProgram,
		TaskExecutableNetwork:      p.ExecutableNetwork,
		BountyAmountPerRound:       perRound,
		RoundTime:                  p.RoundTime,
		AuditWindow:                p.AuditWindow,
		SubmissionWindow:           p.SubmissionWindow,
		MinimumStakeAmount:         minStake,
		TaskMetadata:               p.Metadata,
		LocalVars:                  p.LocalVars,
		AllowedFailedDistributions: p.AllowedFailedDistributions,
	}, nil
}

// CreateTask allocates a new task state account and registers the task
func (c *Client) CreateTask(ctx context.Context, payer solana.PrivateKey, params CreateTaskParams) (*TaskAccounts, error) {
	ix, err := params.instruction()
	if err != nil {
		return nil, err
	}

	state, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task state keypair: %w", err)
	}
	stakePot, err := NewStakePotAccount()
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(payer.PublicKey()).WRITE().SIGNER(),
		solana.Meta(state.PublicKey()).WRITE().SIGNER(),
		solana.Meta(stakePot).WRITE(),
		solana.Meta(solana.SysVarClockPubkey),
	}
	if params.KoiiVars != nil {
		accounts = append(accounts, solana.Meta(*params.KoiiVars))
	}
	create, err := c.newInstruction(ix, accounts)
	if err != nil {
		return nil, err
	}

	if err := c.createAccount(ctx, payer, state, params.Space, 0); err != nil {
		return nil, err
	}
	sig, err := c.send(ctx, create, payer, state)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.WithFields(log.Fields{
		"task":      state.PublicKey().String(),
		"stake_pot": stakePot.String(),
		"signature": sig.String(),
	}).Info("task created")
	return &TaskAccounts{StateAccount: state, StakePotAccount: stakePot}, nil
}

// UpdateTask moves a task to a new state account and stake pot with the
// given parameters
func (c *Client) UpdateTask(
	ctx context.Context,
	payer solana.PrivateKey,
	params UpdateTaskParams,
	taskState, stakePot solana.PublicKey,
) (*TaskAccounts, error) {
	ix, err := params.instruction()
	if err != nil {
		return nil, err
	}

	newState, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task state keypair: %w", err)
	}
	newStakePot, err := NewStakePotAccount()
	if err != nil {
		return nil, err
	}

	update, err := c.newInstruction(ix, solana.AccountMetaSlice{
		solana.Meta(payer.PublicKey()).WRITE().SIGNER(),
		solana.Meta(taskState).WRITE(),
		solana.Meta(stakePot).WRITE(),
		solana.Meta(solana.SysVarClockPubkey),
		solana.Meta(newState.PublicKey()).WRITE().SIGNER(),
		solana.Meta(newStakePot).WRITE(),
	})
	if err != nil {
		return nil, err
	}

	if err := c.createAccount(ctx, payer, newState, params.Space, 0); err != nil {
		return nil, err
	}
	sig, err := c.send(ctx, update, payer, newState)
	if err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", taskState, err)
	}

	log.WithFields(log.Fields{
		"task":      newState.PublicKey().String(),
		"stake_pot": newStakePot.String(),
		"signature": sig.String(),
	}).Info("task updated")
	return &TaskAccounts{StateAccount: newState, StakePotAccount: newStakePot}, nil
}

// FundTask moves amount lamports into the task's stake pot through a
// temporary funder account
func (c *Client) FundTask(
	ctx context.Context,
	payer solana.PrivateKey,
	taskState, stakePot solana.PublicKey,
	amount uint64,
) (solana.Signature, error) {
	if amount > math.MaxInt64 {
		return solana.Signature{}, fmt.Errorf("invalid fund amount: %w", ErrAmountOverflow)
	}
	funder, err := solana.NewRandomPrivateKey()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to generate funder keypair: %w", err)
	}

	fund, err := c.newInstruction(instruction.FundTask{Amount: int64(amount)}, solana.AccountMetaSlice{
		solana.Meta(taskState).WRITE(),
		solana.Meta(funder.PublicKey()).WRITE().SIGNER(),
		solana.Meta(stakePot).WRITE(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.SysVarClockPubkey),
	})
	if err != nil {
		return solana.Signature{}, err
	}

	log.WithField("funder", funder.PublicKey().String()).Debug("making new funder account")
	if err := c.createAccount(ctx, payer, funder, funderSpace, amount); err != nil {
		return solana.Signature{}, err
	}
	sig, err := c.send(ctx, fund, payer, funder)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to fund task %s: %w", taskState, err)
	}
	return sig, nil
}

// ClaimReward pays the rewards of claimer out of the stake pot to
// beneficiary
func (c *Client) ClaimReward(
	ctx context.Context,
	payer solana.PrivateKey,
	taskState, stakePot, beneficiary solana.PublicKey,
	claimer solana.PrivateKey,
) (solana.Signature, error) {
	claim, err := c.newInstruction(instruction.ClaimReward{}, solana.AccountMetaSlice{
		solana.Meta(taskState).WRITE(),
		solana.Meta(claimer.PublicKey()).WRITE().SIGNER(),
		solana.Meta(stakePot).WRITE(),
		solana.Meta(beneficiary).WRITE(),
	})
	if err != nil {
		return solana.Signature{}, err
	}
	sig, err := c.send(ctx, claim, payer, claimer)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to claim reward: %w", err)
	}
	return sig, nil
}

// Whitelist marks the task as whitelisted; programKey is the task
// program's own keypair
func (c *Client) Whitelist(
	ctx context.Context,
	payer solana.PrivateKey,
	taskState solana.PublicKey,
	programKey solana.PrivateKey,
	isWhitelisted bool,
) (solana.Signature, error) {
	whitelist, err := c.newInstruction(instruction.Whitelist{IsWhitelisted: isWhitelisted}, solana.AccountMetaSlice{
		solana.Meta(taskState).WRITE(),
		solana.Meta(programKey.PublicKey()).SIGNER(),
	})
	if err != nil {
		return solana.Signature{}, err
	}
	sig, err := c.send(ctx, whitelist, payer, programKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to whitelist task %s: %w", taskState, err)
	}
	return sig, nil
}

// SetActive activates or deactivates a task owned by payer
func (c *Client) SetActive(
	ctx context.Context,
	payer solana.PrivateKey,
	taskState solana.PublicKey,
	active bool,
) (solana.Signature, error) {
	setActive, err := c.newInstruction(instruction.SetActive{IsActive: active}, solana.AccountMetaSlice{
		solana.Meta(taskState).WRITE(),
		solana.Meta(payer.PublicKey()).SIGNER(),
	})
	if err != nil {
		return solana.Signature{}, err
	}
	sig, err := c.send(ctx, setActive, payer)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to set task %s active: %w", taskState, err)
	}
	return sig, nil
}

// Withdraw returns the stake of submitter
func (c *Client) Withdraw(
	ctx context.Context,
	payer solana.PrivateKey,
	taskState solana.PublicKey,
	submitter solana.PrivateKey,
) (solana.Signature, error) {
	withdraw, err := c.newInstruction(instruction.Withdraw{}, solana.AccountMetaSlice{
		solana.Meta(taskState).WRITE(),
		solana.Meta(submitter.PublicKey()).WRITE().SIGNER(),
		solana.Meta(solana.SysVarClockPubkey),
	})
	if err != nil {
		return solana.Signature{}, err
	}
	sig, err := c.send(ctx, withdraw, payer, submitter)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to withdraw stake: %w", err)
	}
	return sig, nil
}
