package instruction

// Instruction is a typed task program instruction
type Instruction interface {
	Layout() Layout
	Fields() Fields
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// CreateTask registers a new task. Amounts are in lamports, durations in
// slots.
type CreateTask struct {
	TaskName                   string
	TaskDescription            string
	TaskAuditProgram           string
	TaskExecutableNetwork      string
	TotalBountyAmount          int64
	BountyAmountPerRound       int64
	RoundTime                  int64
	AuditWindow                int64
	SubmissionWindow           int64
	MinimumStakeAmount         int64
	TaskMetadata               string
	LocalVars                  string
	AllowedFailedDistributions int64
}

func (CreateTask) Layout() Layout { return CreateTaskLayout }

func (ix CreateTask) Fields() Fields {
	return Fields{
		"task_name":                    ix.TaskName,
		"task_description":             ix.TaskDescription,
		"task_audit_program":           ix.TaskAuditProgram,
		"task_executable_network":      ix.TaskExecutableNetwork,
		"total_bounty_amount":          ix.TotalBountyAmount,
		"bounty_amount_per_round":      ix.BountyAmountPerRound,
		"round_time":                   ix.RoundTime,
		"audit_window":                 ix.AuditWindow,
		"submission_window":            ix.SubmissionWindow,
		"minimum_stake_amount":         ix.MinimumStakeAmount,
		"task_metadata":                ix.TaskMetadata,
		"local_vars":                   ix.LocalVars,
		"allowed_failed_distributions": ix.AllowedFailedDistributions,
	}
}

// UpdateTask replaces the parameters of an existing task
type UpdateTask struct {
	TaskName                   string
	TaskDescription            string
	TaskAuditProgram           string
	TaskExecutableNetwork      string
	BountyAmountPerRound       int64
	RoundTime                  int64
	AuditWindow                int64
	SubmissionWindow           int64
	MinimumStakeAmount         int64
	TaskMetadata               string
	LocalVars                  string
	AllowedFailedDistributions int64
}

func (UpdateTask) Layout() Layout { return UpdateTaskLayout }

func (ix UpdateTask) Fields() Fields {
	return Fields{
		"task_name":                    ix.TaskName,
		"task_description":             ix.TaskDescription,
		"task_audit_program":           ix.TaskAuditProgram,
		"task_executable_network":      ix.TaskExecutableNetwork,
		"bounty_amount_per_round":      ix.BountyAmountPerRound,
		"round_time":                   ix.RoundTime,
		"audit_window":                 ix.AuditWindow,
		"submission_window":            ix.SubmissionWindow,
		"minimum_stake_amount":         ix.MinimumStakeAmount,
		"task_metadata":                ix.TaskMetadata,
		"local_vars":                   ix.LocalVars,
		"allowed_failed_distributions": ix.AllowedFailedDistributions,
	}
}

type SubmitTask struct {
	Submission string
	Round      int64
}

func (SubmitTask) Layout() Layout { return SubmitTaskLayout }

func (ix SubmitTask) Fields() Fields {
	return Fields{"submission": ix.Submission, "round": ix.Round}
}

type AuditSubmissions struct {
	IsValid bool
	Round   int64
}

func (AuditSubmissions) Layout() Layout { return AuditSubmissionsLayout }

func (ix AuditSubmissions) Fields() Fields {
	return Fields{"is_valid": boolToInt64(ix.IsValid), "round": ix.Round}
}

type AuditDistribution struct {
	IsValid bool
	Round   int64
}

func (AuditDistribution) Layout() Layout { return AuditDistributionLayout }

func (ix AuditDistribution) Fields() Fields {
	return Fields{"is_valid": boolToInt64(ix.IsValid), "round": ix.Round}
}

type Payout struct {
	Round int64
}

func (Payout) Layout() Layout { return PayoutLayout }

func (ix Payout) Fields() Fields { return Fields{"round": ix.Round} }

type Whitelist struct {
	IsWhitelisted bool
}

func (Whitelist) Layout() Layout { return WhitelistLayout }

func (ix Whitelist) Fields() Fields {
	return Fields{"isWhitelisted": boolToInt64(ix.IsWhitelisted)}
}

type SetActive struct {
	IsActive bool
}

func (SetActive) Layout() Layout { return SetActiveLayout }

func (ix SetActive) Fields() Fields {
	return Fields{"isActive": boolToInt64(ix.IsActive)}
}

type ClaimReward struct{}

func (ClaimReward) Layout() Layout { return ClaimRewardLayout }

func (ClaimReward) Fields() Fields { return Fields{} }

// FundTask moves Amount lamports from the funder account into the stake pot
type FundTask struct {
	Amount int64
}

func (FundTask) Layout() Layout { return FundTaskLayout }

func (ix FundTask) Fields() Fields { return Fields{"amount": ix.Amount} }

type Stake struct {
	StakeAmount int64
}

func (Stake) Layout() Layout { return StakeLayout }

func (ix Stake) Fields() Fields { return Fields{"stakeAmount": ix.StakeAmount} }

type Withdraw struct{}

func (Withdraw) Layout() Layout { return WithdrawLayout }

func (Withdraw) Fields() Fields { return Fields{} }

type UploadDistributionList struct {
	InstructionData string
}

func (UploadDistributionList) Layout() Layout { return UploadDistributionListLayout }

func (ix UploadDistributionList) Fields() Fields {
	return Fields{"instruction_data": ix.InstructionData}
}

type SubmitDistributionList struct {
	Round int64
}

func (SubmitDistributionList) Layout() Layout { return SubmitDistributionListLayout }

func (ix SubmitDistributionList) Fields() Fields { return Fields{"round": ix.Round} }
