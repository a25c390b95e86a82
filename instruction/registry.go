package instruction

// Opcodes of the Koii task program. 13 is unassigned.
const (
	OpCreateTask             uint8 = 0
	OpSubmitTask             uint8 = 1
	OpAuditSubmissions       uint8 = 2
	OpAuditDistribution      uint8 = 3
	OpPayout                 uint8 = 4
	OpWhitelist              uint8 = 5
	OpSetActive              uint8 = 6
	OpClaimReward            uint8 = 7
	OpFundTask               uint8 = 8
	OpStake                  uint8 = 9
	OpWithdraw               uint8 = 10
	OpUploadDistributionList uint8 = 11
	OpSubmitDistributionList uint8 = 12
	OpUpdateTask             uint8 = 14
)

// Widths of the fixed string fields of task instructions
const (
	TaskNameWidth        = 24
	TaskDescriptionWidth = 64
	TaskProgramWidth     = 64
	TaskNetworkWidth     = 64
	TaskMetadataWidth    = 64
	LocalVarsWidth       = 64
	SubmissionWidth      = 512
	DistributionWidth    = 512
)

var (
	CreateTaskLayout = Layout{
		Name:  "CreateTask",
		Index: OpCreateTask,
		Fields: []Field{
			FixedString("task_name", TaskNameWidth),
			FixedString("task_description", TaskDescriptionWidth),
			FixedString("task_audit_program", TaskProgramWidth),
			FixedString("task_executable_network", TaskNetworkWidth),
			Int64("total_bounty_amount"),
			Int64("bounty_amount_per_round"),
			Int64("round_time"),
			Int64("audit_window"),
			Int64("submission_window"),
			Int64("minimum_stake_amount"),
			FixedString("task_metadata", TaskMetadataWidth),
			FixedString("local_vars", LocalVarsWidth),
			Int64("allowed_failed_distributions"),
		},
	}

	UpdateTaskLayout = Layout{
		Name:  "UpdateTask",
		Index: OpUpdateTask,
		Fields: []Field{
			FixedString("task_name", TaskNameWidth),
			FixedString("task_description", TaskDescriptionWidth),
			FixedString("task_audit_program", TaskProgramWidth),
			FixedString("task_executable_network", TaskNetworkWidth),
			Int64("bounty_amount_per_round"),
			Int64("round_time"),
			Int64("audit_window"),
			Int64("submission_window"),
			Int64("minimum_stake_amount"),
			FixedString("task_metadata", TaskMetadataWidth),
			FixedString("local_vars", LocalVarsWidth),
			Int64("allowed_failed_distributions"),
		},
	}

	SubmitTaskLayout = Layout{
		Name:  "SubmitTask",
		Index: OpSubmitTask,
		Fields: []Field{
			FixedString("submission", SubmissionWidth),
			Int64("round"),
		},
	}

	AuditSubmissionsLayout = Layout{
		Name:   "AuditSubmissions",
		Index:  OpAuditSubmissions,
		Fields: []Field{Int64("is_valid"), Int64("round")},
	}

	AuditDistributionLayout = Layout{
		Name:   "AuditDistribution",
		Index:  OpAuditDistribution,
		Fields: []Field{Int64("is_valid"), Int64("round")},
	}

	PayoutLayout = Layout{
		Name:   "Payout",
		Index:  OpPayout,
		Fields: []Field{Int64("round")},
	}

	WhitelistLayout = Layout{
		Name:   "Whitelist",
		Index:  OpWhitelist,
		Fields: []Field{Int64("isWhitelisted")},
	}

	SetActiveLayout = Layout{
		Name:   "SetActive",
		Index:  OpSetActive,
		Fields: []Field{Int64("isActive")},
	}

	ClaimRewardLayout = Layout{Name: "ClaimReward", Index: OpClaimReward}

	FundTaskLayout = Layout{
		Name:   "FundTask",
		Index:  OpFundTask,
		Fields: []Field{Int64("amount")},
	}

	StakeLayout = Layout{
		Name:   "Stake",
		Index:  OpStake,
		Fields: []Field{Int64("stakeAmount")},
	}

	WithdrawLayout = Layout{Name: "Withdraw", Index: OpWithdraw}

	UploadDistributionListLayout = Layout{
		Name:   "UploadDistributionList",
		Index:  OpUploadDistributionList,
		Fields: []Field{FixedString("instruction_data", DistributionWidth)},
	}

	SubmitDistributionListLayout = Layout{
		Name:   "SubmitDistributionList",
		Index:  OpSubmitDistributionList,
		Fields: []Field{Int64("round")},
	}
)

var registry = func() map[uint8]Layout {
	m := make(map[uint8]Layout)
	for _, l := range Layouts() {
		m[l.Index] = l
	}
	return m
}()

// Layouts returns every task program layout in opcode order
func Layouts() []Layout {
	return []Layout{
		CreateTaskLayout,
		SubmitTaskLayout,
		AuditSubmissionsLayout,
		AuditDistributionLayout,
		PayoutLayout,
		WhitelistLayout,
		SetActiveLayout,
		ClaimRewardLayout,
		FundTaskLayout,
		StakeLayout,
		WithdrawLayout,
		UploadDistributionListLayout,
		SubmitDistributionListLayout,
		UpdateTaskLayout,
	}
}

// Lookup returns the layout registered for opcode
func Lookup(opcode uint8) (Layout, bool) {
	l, ok := registry[opcode]
	return l, ok
}

// LookupName returns the layout with the given instruction name
func LookupName(name string) (Layout, bool) {
	for _, l := range registry {
		if l.Name == name {
			return l, true
		}
	}
	return Layout{}, false
}
