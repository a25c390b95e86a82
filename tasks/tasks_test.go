package tasks

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	solchain "github.com/chinmay1088/ktools/chains/solana"
	"github.com/chinmay1088/ktools/instruction"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRent = 2_000_000

var testProgramID = solana.MustPublicKeyFromBase58("Koiitask22222222222222222222222222222222222")

type sentTx struct {
	instructions []solana.Instruction
	feePayer     solana.PublicKey
	signers      []solana.PublicKey
}

type fakeLedger struct {
	program  *rpc.Account
	balance  uint64
	sendErr  error
	sent     []sentTx
	rentAsks []uint64
}

func (f *fakeLedger) SendAndConfirm(
	_ context.Context,
	instructions []solana.Instruction,
	feePayer solana.PrivateKey,
	signers ...solana.PrivateKey,
) (solana.Signature, error) {
	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	tx := sentTx{instructions: instructions, feePayer: feePayer.PublicKey()}
	for _, s := range signers {
		tx.signers = append(tx.signers, s.PublicKey())
	}
	f.sent = append(f.sent, tx)
	return solana.Signature{byte(len(f.sent))}, nil
}

func (f *fakeLedger) MinimumBalanceForRentExemption(_ context.Context, space uint64) (uint64, error) {
	f.rentAsks = append(f.rentAsks, space)
	return testRent, nil
}

func (f *fakeLedger) AccountInfo(_ context.Context, account solana.PublicKey) (*rpc.Account, error) {
	if f.program == nil || !account.Equals(testProgramID) {
		return nil, solchain.ErrAccountNotFound
	}
	return f.program, nil
}

func (f *fakeLedger) Balance(context.Context, solana.PublicKey) (uint64, error) {
	return f.balance, nil
}

func newKey(t *testing.T) solana.PrivateKey {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key
}

type meta struct {
	key      solana.PublicKey
	writable bool
	signer   bool
}

func assertAccounts(t *testing.T, ix solana.Instruction, want []meta) {
	t.Helper()
	got := ix.Accounts()
	require.Len(t, got, len(want))
	for i, m := range want {
		assert.True(t, m.key.Equals(got[i].PublicKey), "account %d", i)
		assert.Equal(t, m.writable, got[i].IsWritable, "account %d writable", i)
		assert.Equal(t, m.signer, got[i].IsSigner, "account %d signer", i)
	}
}

// createAccountLamports reads the lamports of a system create-account
// instruction
func createAccountLamports(t *testing.T, ix solana.Instruction) (lamports, space uint64) {
	t.Helper()
	require.True(t, ix.ProgramID().Equals(solana.SystemProgramID))
	data, err := ix.Data()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 20)
	return binary.LittleEndian.Uint64(data[4:12]), binary.LittleEndian.Uint64(data[12:20])
}

func sampleParams() CreateTaskParams {
	return CreateTaskParams{
		TaskParams: TaskParams{
			Name:                       "abc",
			Description:                "counts things",
			AuditProgram:               "audit",
			ExecutableNetwork:          "IPFS",
			BountyAmountPerRound:       decimal.NewFromInt(1),
			Space:                      1_000_000,
			RoundTime:                  600,
			AuditWindow:                200,
			SubmissionWindow:           200,
			MinimumStakeAmount:         decimal.RequireFromString("2.5"),
			Metadata:                   "meta",
			LocalVars:                  "vars",
			AllowedFailedDistributions: 3,
		},
		TotalBountyAmount: decimal.NewFromInt(10),
	}
}

func TestCheckProgram(t *testing.T) {
	tests := []struct {
		name    string
		program *rpc.Account
		wantErr error
	}{
		{"missing", nil, ErrProgramNotFound},
		{"not executable", &rpc.Account{Executable: false}, ErrProgramNotExecutable},
		{"deployed", &rpc.Account{Executable: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(&fakeLedger{program: tt.program}, testProgramID)
			assert.Equal(t, tt.wantErr, client.CheckProgram(context.Background()))
		})
	}
}

func TestCheckPayer(t *testing.T) {
	client := NewClient(&fakeLedger{balance: 500}, testProgramID)
	payer := newKey(t).PublicKey()

	lamports, err := client.CheckPayer(context.Background(), payer, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), lamports)

	_, err = client.CheckPayer(context.Background(), payer, 1000)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
}

func TestCreateTask(t *testing.T) {
	ledger := &fakeLedger{}
	client := NewClient(ledger, testProgramID)
	payer := newKey(t)

	accounts, err := client.CreateTask(context.Background(), payer, sampleParams())
	require.NoError(t, err)
	require.Len(t, ledger.sent, 2)

	state := accounts.StateAccount.PublicKey()
	assert.True(t, strings.HasPrefix(accounts.StakePotAccount.String(), "stakepotaccount"))

	create := ledger.sent[0]
	require.Len(t, create.instructions, 1)
	lamports, space := createAccountLamports(t, create.instructions[0])
	assert.Equal(t, uint64(testRent+1000), lamports)
	assert.Equal(t, uint64(1_000_000), space)
	assert.Equal(t, []uint64{1_000_000}, ledger.rentAsks)
	assert.Equal(t, []solana.PublicKey{state}, create.signers)

	register := ledger.sent[1]
	require.Len(t, register.instructions, 1)
	ix := register.instructions[0]
	assert.True(t, ix.ProgramID().Equals(testProgramID))
	assertAccounts(t, ix, []meta{
		{payer.PublicKey(), true, true},
		{state, true, true},
		{accounts.StakePotAccount, true, false},
		{solana.SysVarClockPubkey, false, false},
	})

	data, err := ix.Data()
	require.NoError(t, err)
	fields, err := instruction.Decode(instruction.CreateTaskLayout, data)
	require.NoError(t, err)
	assert.Equal(t, "abc", fields["task_name"])
	assert.Equal(t, int64(10_000_000_000), fields["total_bounty_amount"])
	assert.Equal(t, int64(1_000_000_000), fields["bounty_amount_per_round"])
	assert.Equal(t, int64(2_500_000_000), fields["minimum_stake_amount"])
	assert.Equal(t, int64(600), fields["round_time"])
}

func TestCreateTaskKoiiVars(t *testing.T) {
	ledger := &fakeLedger{}
	client := NewClient(ledger, testProgramID)
	vars := newKey(t).PublicKey()

	params := sampleParams()
	params.KoiiVars = &vars
	_, err := client.CreateTask(context.Background(), newKey(t), params)
	require.NoError(t, err)

	accounts := ledger.sent[1].instructions[0].Accounts()
	require.Len(t, accounts, 5)
	assert.True(t, accounts[4].PublicKey.Equals(vars))
	assert.False(t, accounts[4].IsWritable)
	assert.False(t, accounts[4].IsSigner)
}

func TestCreateTaskValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *CreateTaskParams)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "round shorter than windows",
			mutate: func(p *CreateTaskParams) { p.RoundTime = 399 },
			check: func(t *testing.T, err error) {
				assert.Equal(t, ErrInvalidRoundTime, err)
			},
		},
		{
			name:   "description too long",
			mutate: func(p *CreateTaskParams) { p.Description = strings.Repeat("x", 65) },
			check: func(t *testing.T, err error) {
				var tooLong *instruction.FieldTooLongError
				require.True(t, errors.As(err, &tooLong))
				assert.Equal(t, "task_description", tooLong.Field)
			},
		},
		{
			name:   "negative bounty",
			mutate: func(p *CreateTaskParams) { p.TotalBountyAmount = decimal.NewFromInt(-1) },
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
		{
			name:   "total bounty above signed range",
			mutate: func(p *CreateTaskParams) { p.TotalBountyAmount = decimal.NewFromInt(10_000_000_000) },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrAmountOverflow)
			},
		},
		{
			name: "minimum stake one past signed range",
			mutate: func(p *CreateTaskParams) {
				p.MinimumStakeAmount = decimal.RequireFromString("9223372036.854775808")
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrAmountOverflow)
			},
		},
		{
			name:   "negative audit window",
			mutate: func(p *CreateTaskParams) { p.AuditWindow = -500 },
			check: func(t *testing.T, err error) {
				assert.Equal(t, ErrNegativeWindow, err)
			},
		},
		{
			name:   "negative round time",
			mutate: func(p *CreateTaskParams) { p.RoundTime, p.AuditWindow, p.SubmissionWindow = -1, 0, 0 },
			check: func(t *testing.T, err error) {
				assert.Equal(t, ErrNegativeWindow, err)
			},
		},
		{
			name: "windows overflow",
			mutate: func(p *CreateTaskParams) {
				p.RoundTime, p.AuditWindow, p.SubmissionWindow = math.MaxInt64, math.MaxInt64, 1
			},
			check: func(t *testing.T, err error) {
				assert.Equal(t, ErrInvalidRoundTime, err)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &fakeLedger{}
			params := sampleParams()
			tt.mutate(&params)

			_, err := NewClient(ledger, testProgramID).CreateTask(context.Background(), newKey(t), params)
			tt.check(t, err)
			assert.Empty(t, ledger.sent)
		})
	}
}

func TestUpdateTask(t *testing.T) {
	ledger := &fakeLedger{}
	client := NewClient(ledger, testProgramID)
	payer := newKey(t)
	oldState := newKey(t).PublicKey()
	oldPot, err := NewStakePotAccount()
	require.NoError(t, err)

	accounts, err := client.UpdateTask(
		context.Background(), payer, UpdateTaskParams{TaskParams: sampleParams().TaskParams}, oldState, oldPot,
	)
	require.NoError(t, err)
	require.Len(t, ledger.sent, 2)
	assert.False(t, accounts.StakePotAccount.Equals(oldPot))

	ix := ledger.sent[1].instructions[0]
	assertAccounts(t, ix, []meta{
		{payer.PublicKey(), true, true},
		{oldState, true, false},
		{oldPot, true, false},
		{solana.SysVarClockPubkey, false, false},
		{accounts.StateAccount.PublicKey(), true, true},
		{accounts.StakePotAccount, true, false},
	})

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, instruction.OpUpdateTask, data[0])
	assert.Len(t, data, instruction.UpdateTaskLayout.Span())
}

func TestFundTask(t *testing.T) {
	ledger := &fakeLedger{}
	client := NewClient(ledger, testProgramID)
	payer := newKey(t)
	state := newKey(t).PublicKey()
	pot, err := NewStakePotAccount()
	require.NoError(t, err)

	_, err = client.FundTask(context.Background(), payer, state, pot, 5_000)
	require.NoError(t, err)
	require.Len(t, ledger.sent, 2)

	lamports, space := createAccountLamports(t, ledger.sent[0].instructions[0])
	assert.Equal(t, uint64(5_000+testRent+1000), lamports)
	assert.Equal(t, uint64(100), space)

	funder := ledger.sent[0].signers[0]
	ix := ledger.sent[1].instructions[0]
	assertAccounts(t, ix, []meta{
		{state, true, false},
		{funder, true, true},
		{pot, true, false},
		{solana.SystemProgramID, false, false},
		{solana.SysVarClockPubkey, false, false},
	})

	data, err := ix.Data()
	require.NoError(t, err)
	fields, err := instruction.Decode(instruction.FundTaskLayout, data)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), fields["amount"])
}

func TestFundTaskRejectsOverflow(t *testing.T) {
	tests := []struct {
		name    string
		amount  uint64
		wantErr error
	}{
		{"above signed range", 1 << 63, ErrAmountOverflow},
		{"max uint64", math.MaxUint64, ErrAmountOverflow},
		{"largest signed amount", math.MaxInt64, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &fakeLedger{}
			pot, err := NewStakePotAccount()
			require.NoError(t, err)

			_, err = NewClient(ledger, testProgramID).FundTask(
				context.Background(), newKey(t), newKey(t).PublicKey(), pot, tt.amount,
			)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, ledger.sent)
				return
			}
			require.NoError(t, err)
			require.Len(t, ledger.sent, 2)

			data, err := ledger.sent[1].instructions[0].Data()
			require.NoError(t, err)
			fields, err := instruction.Decode(instruction.FundTaskLayout, data)
			require.NoError(t, err)
			assert.Equal(t, int64(math.MaxInt64), fields["amount"])
		})
	}
}

func TestSingleInstructionBuilders(t *testing.T) {
	payer := newKey(t)
	state := newKey(t).PublicKey()
	pot, err := NewStakePotAccount()
	require.NoError(t, err)
	claimer := newKey(t)
	beneficiary := newKey(t).PublicKey()
	programKey := newKey(t)
	submitter := newKey(t)

	tests := []struct {
		name    string
		call    func(c *Client) error
		opcode  uint8
		signers []solana.PublicKey
		metas   []meta
	}{
		{
			name: "claim reward",
			call: func(c *Client) error {
				_, err := c.ClaimReward(context.Background(), payer, state, pot, beneficiary, claimer)
				return err
			},
			opcode:  instruction.OpClaimReward,
			signers: []solana.PublicKey{claimer.PublicKey()},
			metas: []meta{
				{state, true, false},
				{claimer.PublicKey(), true, true},
				{pot, true, false},
				{beneficiary, true, false},
			},
		},
		{
			name: "whitelist",
			call: func(c *Client) error {
				_, err := c.Whitelist(context.Background(), payer, state, programKey, true)
				return err
			},
			opcode:  instruction.OpWhitelist,
			signers: []solana.PublicKey{programKey.PublicKey()},
			metas: []meta{
				{state, true, false},
				{programKey.PublicKey(), false, true},
			},
		},
		{
			name: "set active",
			call: func(c *Client) error {
				_, err := c.SetActive(context.Background(), payer, state, false)
				return err
			},
			opcode: instruction.OpSetActive,
			metas: []meta{
				{state, true, false},
				{payer.PublicKey(), false, true},
			},
		},
		{
			name: "withdraw",
			call: func(c *Client) error {
				_, err := c.Withdraw(context.Background(), payer, state, submitter)
				return err
			},
			opcode:  instruction.OpWithdraw,
			signers: []solana.PublicKey{submitter.PublicKey()},
			metas: []meta{
				{state, true, false},
				{submitter.PublicKey(), true, true},
				{solana.SysVarClockPubkey, false, false},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &fakeLedger{}
			require.NoError(t, tt.call(NewClient(ledger, testProgramID)))
			require.Len(t, ledger.sent, 1)

			tx := ledger.sent[0]
			assert.True(t, tx.feePayer.Equals(payer.PublicKey()))
			assert.Equal(t, tt.signers, tx.signers)
			require.Len(t, tx.instructions, 1)
			assertAccounts(t, tx.instructions[0], tt.metas)

			data, err := tx.instructions[0].Data()
			require.NoError(t, err)
			assert.Equal(t, tt.opcode, data[0])
		})
	}
}

func TestSetActiveEncodesFlag(t *testing.T) {
	ledger := &fakeLedger{}
	client := NewClient(ledger, testProgramID)

	_, err := client.SetActive(context.Background(), newKey(t), newKey(t).PublicKey(), true)
	require.NoError(t, err)

	data, err := ledger.sent[0].instructions[0].Data()
	require.NoError(t, err)
	fields, err := instruction.Decode(instruction.SetActiveLayout, data)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fields["isActive"])
}

func TestSendErrorIsWrapped(t *testing.T) {
	sendErr := errors.New("node unreachable")
	client := NewClient(&fakeLedger{sendErr: sendErr}, testProgramID)

	_, err := client.Withdraw(context.Background(), newKey(t), newKey(t).PublicKey(), newKey(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sendErr))
	assert.Contains(t, err.Error(), "node unreachable")
}

func TestStakePotAccount(t *testing.T) {
	for i := 0; i < 5; i++ {
		pot, err := NewStakePotAccount()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(pot.String(), "stakepotaccount"))
		assert.True(t, isOnCurve(pot))
	}
}
