package cmd

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskFieldsParams(t *testing.T) {
	tests := []struct {
		name    string
		fields  taskFields
		wantErr string
	}{
		{
			name: "valid",
			fields: taskFields{
				name:              "counter",
				description:       "counts",
				auditProgram:      "bafy",
				executableNetwork: "IPFS",
				bountyPerRound:    "1.25",
				minimumStake:      "5",
				space:             1000,
				roundTime:         600,
				auditWindow:       200,
				submissionWindow:  200,
				allowedFailedRuns: 3,
			},
		},
		{
			name:    "invalid bounty",
			fields:  taskFields{bountyPerRound: "ten", minimumStake: "1"},
			wantErr: "invalid bounty per round",
		},
		{
			name:    "invalid stake",
			fields:  taskFields{bountyPerRound: "1", minimumStake: ""},
			wantErr: "invalid minimum stake",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := tt.fields.params()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "counter", params.Name)
			assert.True(t, decimal.RequireFromString("1.25").Equal(params.BountyAmountPerRound))
			assert.True(t, decimal.NewFromInt(5).Equal(params.MinimumStakeAmount))
			assert.Equal(t, uint64(1000), params.Space)
			assert.Equal(t, int64(600), params.RoundTime)
			assert.Equal(t, int64(3), params.AllowedFailedDistributions)
		})
	}
}

func TestParseTaskAccount(t *testing.T) {
	pub, err := parseTaskAccount("task", "9cGCJvVacp5V6xjeshprS3KDN3e5VwEUszHmxxaZuHmJ")
	require.NoError(t, err)
	assert.Equal(t, "9cGCJvVacp5V6xjeshprS3KDN3e5VwEUszHmxxaZuHmJ", pub.String())

	_, err = parseTaskAccount("stake pot", "not-an-address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid stake pot")
}
