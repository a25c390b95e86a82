package instruction

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCreateTask() CreateTask {
	return CreateTask{
		TaskName:                   "abc",
		TaskDescription:            "a task that counts",
		TaskAuditProgram:           "audit-program-id",
		TaskExecutableNetwork:      "IPFS",
		TotalBountyAmount:          10_000_000_000,
		BountyAmountPerRound:       1_000_000_000,
		RoundTime:                  600,
		AuditWindow:                200,
		SubmissionWindow:           200,
		MinimumStakeAmount:         5_000_000_000,
		TaskMetadata:               "metadata",
		LocalVars:                  "vars",
		AllowedFailedDistributions: 3,
	}
}

func TestLayoutSpan(t *testing.T) {
	tests := []struct {
		layout Layout
		span   int
	}{
		{CreateTaskLayout, 401},
		{UpdateTaskLayout, 393},
		{SubmitTaskLayout, 521},
		{AuditSubmissionsLayout, 17},
		{AuditDistributionLayout, 17},
		{PayoutLayout, 9},
		{WhitelistLayout, 9},
		{SetActiveLayout, 9},
		{ClaimRewardLayout, 1},
		{FundTaskLayout, 9},
		{StakeLayout, 9},
		{WithdrawLayout, 1},
		{UploadDistributionListLayout, 513},
		{SubmitDistributionListLayout, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.span, tt.layout.Span(), tt.layout.Name)
	}
}

func TestEncodePadsFixedStrings(t *testing.T) {
	data, err := EncodeInstruction(sampleCreateTask())
	require.NoError(t, err)

	assert.Len(t, data, CreateTaskLayout.Span())
	assert.Equal(t, OpCreateTask, data[0])
	assert.Equal(t, []byte("abc"+strings.Repeat(" ", 21)), data[1:25])
	assert.Equal(t, "a task that counts", strings.TrimRight(string(data[25:89]), " "))
	assert.Equal(t, byte(' '), data[88])
}

func TestEncodeInt64LittleEndian(t *testing.T) {
	data, err := EncodeInstruction(FundTask{Amount: 0x0102030405060708})
	require.NoError(t, err)

	assert.Equal(t, []byte{OpFundTask, 8, 7, 6, 5, 4, 3, 2, 1}, data)

	data, err = EncodeInstruction(Payout{Round: -2})
	require.NoError(t, err)
	assert.Equal(t, int64(-2), int64(binary.LittleEndian.Uint64(data[1:])))
}

func TestEncodeBooleans(t *testing.T) {
	data, err := EncodeInstruction(SetActive{IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, []byte{OpSetActive, 1, 0, 0, 0, 0, 0, 0, 0}, data)

	data, err = EncodeInstruction(Whitelist{})
	require.NoError(t, err)
	assert.Equal(t, []byte{OpWhitelist, 0, 0, 0, 0, 0, 0, 0, 0}, data)
}

func TestEncodeEmptyInstructions(t *testing.T) {
	data, err := EncodeInstruction(ClaimReward{})
	require.NoError(t, err)
	assert.Equal(t, []byte{OpClaimReward}, data)

	data, err = EncodeInstruction(Withdraw{})
	require.NoError(t, err)
	assert.Equal(t, []byte{OpWithdraw}, data)
}

func TestRoundTrip(t *testing.T) {
	tests := []Instruction{
		sampleCreateTask(),
		UpdateTask{
			TaskName:              "updated",
			TaskDescription:       "desc",
			TaskAuditProgram:      "prog",
			TaskExecutableNetwork: "ARWEAVE",
			BountyAmountPerRound:  7,
			RoundTime:             100,
			AuditWindow:           20,
			SubmissionWindow:      30,
			MinimumStakeAmount:    1,
			TaskMetadata:          "m",
			LocalVars:             "",
		},
		SubmitTask{Submission: "ipfs://cid", Round: 12},
		AuditSubmissions{IsValid: true, Round: 4},
		AuditDistribution{IsValid: false, Round: 5},
		Payout{Round: 9},
		Whitelist{IsWhitelisted: true},
		SetActive{IsActive: false},
		ClaimReward{},
		FundTask{Amount: 42},
		Stake{StakeAmount: 1 << 40},
		Withdraw{},
		UploadDistributionList{InstructionData: `{"a":1}`},
		SubmitDistributionList{Round: 77},
	}

	for _, ix := range tests {
		layout := ix.Layout()
		data, err := EncodeInstruction(ix)
		require.NoError(t, err, layout.Name)

		alloc, err := layout.Alloc(ix.Fields())
		require.NoError(t, err)
		assert.Len(t, data, alloc, layout.Name)

		decoded, err := Decode(layout, data)
		require.NoError(t, err, layout.Name)

		want := ix.Fields()
		for name, v := range want {
			if n, ok := toInt64(v); ok {
				assert.Equal(t, n, decoded[name], "%s.%s", layout.Name, name)
				continue
			}
			assert.Equal(t, v, decoded[name], "%s.%s", layout.Name, name)
		}

		got, values, err := DecodeAny(data)
		require.NoError(t, err)
		assert.Equal(t, layout.Name, got.Name)
		assert.Equal(t, decoded, values)
	}
}

func TestFieldTooLong(t *testing.T) {
	ix := sampleCreateTask()
	ix.TaskDescription = strings.Repeat("x", 65)

	_, err := EncodeInstruction(ix)
	require.Error(t, err)

	var tooLong *FieldTooLongError
	require.True(t, errors.As(err, &tooLong))
	assert.Equal(t, "task_description", tooLong.Field)
	assert.Equal(t, 64, tooLong.Width)
	assert.Equal(t, 65, tooLong.Length)

	ix.TaskDescription = strings.Repeat("x", 64)
	_, err = EncodeInstruction(ix)
	assert.NoError(t, err)
}

func TestFieldTooLongCountsBytes(t *testing.T) {
	// 9 runes, 27 bytes
	_, err := Encode(CreateTaskLayout, Fields{"task_name": strings.Repeat("日", 9)})
	var tooLong *FieldTooLongError
	require.True(t, errors.As(err, &tooLong))
	assert.Equal(t, 27, tooLong.Length)
}

func TestMissingField(t *testing.T) {
	values := sampleCreateTask().Fields()
	delete(values, "round_time")

	_, err := Encode(CreateTaskLayout, values)
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "CreateTask", missing.Instruction)
	assert.Equal(t, "round_time", missing.Field)
}

func TestFieldType(t *testing.T) {
	_, err := Encode(PayoutLayout, Fields{"round": "nine"})
	var typeErr *FieldTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "round", typeErr.Field)
}

func TestRustString(t *testing.T) {
	layout := Layout{
		Name:   "Memo",
		Index:  200,
		Fields: []Field{RustString("memo"), Int64("round"), PublicKey("owner")},
	}
	owner := solana.MustPublicKeyFromBase58("9cGCJvVacp5V6xjeshprS3KDN3e5VwEUszHmxxaZuHmJ")
	values := Fields{"memo": "hello", "round": int64(3), "owner": owner}

	assert.Equal(t, -1, layout.Span())
	alloc, err := layout.Alloc(values)
	require.NoError(t, err)
	assert.Equal(t, 1+8+5+8+32, alloc)

	data, err := Encode(layout, values)
	require.NoError(t, err)
	require.Len(t, data, alloc)
	assert.Equal(t, []byte{5, 0, 0, 0, 0, 0, 0, 0}, data[1:9])
	assert.Equal(t, []byte("hello"), data[9:14])
	assert.True(t, bytes.Equal(owner[:], data[22:]))

	decoded, err := Decode(layout, data)
	require.NoError(t, err)
	assert.Equal(t, values, decoded)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(PayoutLayout, nil)
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = Decode(PayoutLayout, []byte{OpStake, 0, 0, 0, 0, 0, 0, 0, 0})
	assert.ErrorIs(t, err, ErrOpcodeMismatch)

	_, err = Decode(PayoutLayout, []byte{OpPayout, 1, 2})
	assert.ErrorIs(t, err, ErrShortBuffer)

	_, _, err = DecodeAny([]byte{13})
	assert.ErrorIs(t, err, ErrUnknownOpcode)
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	createTask, err := EncodeInstruction(sampleCreateTask())
	require.NoError(t, err)

	tests := []struct {
		name   string
		layout Layout
		data   []byte
		extra  int
	}{
		{"payout", PayoutLayout, []byte{OpPayout, 1, 0, 0, 0, 0, 0, 0, 0, 0xff}, 1},
		{"create task", CreateTaskLayout, append(append([]byte{}, createTask...), 0, 0), 2},
		{"no fields", ClaimRewardLayout, []byte{OpClaimReward, 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.layout, tt.data)
			assert.ErrorIs(t, err, ErrTrailingData)

			_, _, err = DecodeAny(tt.data)
			assert.ErrorIs(t, err, ErrTrailingData)

			exact, err := Decode(tt.layout, tt.data[:len(tt.data)-tt.extra])
			require.NoError(t, err)
			assert.Len(t, exact, len(tt.layout.Fields))
		})
	}
}

func TestLookupName(t *testing.T) {
	l, ok := LookupName("UpdateTask")
	require.True(t, ok)
	assert.Equal(t, OpUpdateTask, l.Index)

	_, ok = LookupName("Unknown")
	assert.False(t, ok)
}
