package cmd

import (
	"fmt"
	"path/filepath"

	solchain "github.com/chinmay1088/ktools/chains/solana"
	"github.com/chinmay1088/ktools/config"
	"github.com/chinmay1088/ktools/tasks"
	"github.com/chinmay1088/ktools/wallet"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	taskKeypairFlag   string
	taskUseWalletFlag bool
	taskStateFlag     string
	taskStakePotFlag  string
)

// taskFields holds the flags shared by task create and task update
type taskFields struct {
	name              string
	description       string
	auditProgram      string
	executableNetwork string
	totalBounty       string
	bountyPerRound    string
	space             uint64
	roundTime         int64
	auditWindow       int64
	submissionWindow  int64
	minimumStake      string
	metadata          string
	localVars         string
	koiiVars          string
	allowedFailedRuns int64
}

var taskInput taskFields

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create and manage Koii tasks on K2",
	Long: `Create and manage tasks of the Koii task program on K2.

The fee payer is read from the keypair named in the Koii CLI config
(~/.config/koii/cli/config.yml) unless --keypair or --use-wallet is given.
The RPC is K2_RPC when set, otherwise the Koii CLI config's json_rpc_url.

Examples:
  ktools task create --name counter --round-time 600 --audit-window 200 \
    --submission-window 200 --total-bounty 100 --bounty-per-round 10 \
    --min-stake 5 --space 1000000 --audit-program <cid>
  ktools task fund --task <address> --stake-pot <address> 50
  ktools task activate --task <address>`,
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new task",
	Args:  cobra.NoArgs,
	RunE:  runTaskCreate,
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Move a task to new accounts with new parameters",
	Args:  cobra.NoArgs,
	RunE:  runTaskUpdate,
}

var taskFundCmd = &cobra.Command{
	Use:   "fund [amount]",
	Short: "Fund the stake pot of a task with KOII",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskFund,
}

var taskClaimCmd = &cobra.Command{
	Use:   "claim [claimer-keypair] [beneficiary]",
	Short: "Claim the rewards of a node",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskClaim,
}

var taskWhitelistCmd = &cobra.Command{
	Use:   "whitelist [program-keypair]",
	Short: "Whitelist a task, signed by the task program keypair",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskWhitelist,
}

var taskActivateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Activate a task",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return runTaskSetActive(true) },
}

var taskDeactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Deactivate a task",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return runTaskSetActive(false) },
}

var taskWithdrawCmd = &cobra.Command{
	Use:   "withdraw [submitter-keypair]",
	Short: "Withdraw the stake of a submitter",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskWithdraw,
}

func init() {
	taskCmd.PersistentFlags().StringVar(&taskKeypairFlag, "keypair", "", "fee payer keypair file")
	taskCmd.PersistentFlags().BoolVar(&taskUseWalletFlag, "use-wallet", false, "pay fees with the stored K2 wallet")

	for _, c := range []*cobra.Command{taskCreateCmd, taskUpdateCmd} {
		f := c.Flags()
		f.StringVar(&taskInput.name, "name", "", "task name (up to 24 bytes)")
		f.StringVar(&taskInput.description, "description", "", "task description (up to 64 bytes)")
		f.StringVar(&taskInput.auditProgram, "audit-program", "", "audit program id")
		f.StringVar(&taskInput.executableNetwork, "executable-network", "IPFS", "network serving the task executable")
		f.StringVar(&taskInput.bountyPerRound, "bounty-per-round", "0", "KOII paid per round")
		f.Uint64Var(&taskInput.space, "space", 1_000_000, "task state account size in bytes")
		f.Int64Var(&taskInput.roundTime, "round-time", 0, "round length in slots")
		f.Int64Var(&taskInput.auditWindow, "audit-window", 0, "audit window in slots")
		f.Int64Var(&taskInput.submissionWindow, "submission-window", 0, "submission window in slots")
		f.StringVar(&taskInput.minimumStake, "min-stake", "0", "minimum KOII staked by nodes")
		f.StringVar(&taskInput.metadata, "metadata", "", "task metadata id")
		f.StringVar(&taskInput.localVars, "local-vars", "", "local variables id")
		f.Int64Var(&taskInput.allowedFailedRuns, "allowed-failed-distributions", 0, "distributions allowed to fail")
	}
	taskCreateCmd.Flags().StringVar(&taskInput.totalBounty, "total-bounty", "0", "KOII locked in the stake pot")
	taskCreateCmd.Flags().StringVar(&taskInput.koiiVars, "koii-vars", "", "koii vars account")

	for _, c := range []*cobra.Command{
		taskUpdateCmd, taskFundCmd, taskClaimCmd, taskWhitelistCmd,
		taskActivateCmd, taskDeactivateCmd, taskWithdrawCmd,
	} {
		c.Flags().StringVar(&taskStateFlag, "task", "", "task state account")
		c.MarkFlagRequired("task")
	}
	for _, c := range []*cobra.Command{taskUpdateCmd, taskFundCmd, taskClaimCmd} {
		c.Flags().StringVar(&taskStakePotFlag, "stake-pot", "", "stake pot account of the task")
		c.MarkFlagRequired("stake-pot")
	}

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskFundCmd)
	taskCmd.AddCommand(taskClaimCmd)
	taskCmd.AddCommand(taskWhitelistCmd)
	taskCmd.AddCommand(taskActivateCmd)
	taskCmd.AddCommand(taskDeactivateCmd)
	taskCmd.AddCommand(taskWithdrawCmd)
}

func (f taskFields) params() (tasks.TaskParams, error) {
	perRound, err := decimal.NewFromString(f.bountyPerRound)
	if err != nil {
		return tasks.TaskParams{}, fmt.Errorf("invalid bounty per round: %w", err)
	}
	minStake, err := decimal.NewFromString(f.minimumStake)
	if err != nil {
		return tasks.TaskParams{}, fmt.Errorf("invalid minimum stake: %w", err)
	}
	return tasks.TaskParams{
		Name:                       f.name,
		Description:                f.description,
		AuditProgram:               f.auditProgram,
		ExecutableNetwork:          f.executableNetwork,
		BountyAmountPerRound:       perRound,
		Space:                      f.space,
		RoundTime:                  f.roundTime,
		AuditWindow:                f.auditWindow,
		SubmissionWindow:           f.submissionWindow,
		MinimumStakeAmount:         minStake,
		Metadata:                   f.metadata,
		LocalVars:                  f.localVars,
		AllowedFailedDistributions: f.allowedFailedRuns,
	}, nil
}

// taskPayer returns the fee payer selected by the task flags
func taskPayer() (solana.PrivateKey, error) {
	switch {
	case taskUseWalletFlag:
		manager, err := unlockedManager()
		if err != nil {
			return nil, err
		}
		tool, err := loadTool(manager, wallet.KindK2)
		if err != nil {
			return nil, err
		}
		k2, ok := tool.(*wallet.SolanaTool)
		if !ok {
			return nil, fmt.Errorf("unexpected %s wallet type", wallet.KindK2)
		}
		return k2.PrivateKey()
	case taskKeypairFlag != "":
		return solchain.LoadKeypairFile(taskKeypairFlag)
	default:
		path, err := config.KoiiCLIConfigPath()
		if err != nil {
			return nil, err
		}
		return config.KoiiPayer(path)
	}
}

func taskEndpoint() string {
	if endpoint := config.GetEndpoint(wallet.KindK2); endpoint != "" {
		return endpoint
	}
	path, err := config.KoiiCLIConfigPath()
	if err != nil {
		return config.KoiiCLIFallbackRPC
	}
	return config.KoiiRPCURL(path)
}

// newTaskClient checks the payer and the task program on the cluster
func newTaskClient() (*tasks.Client, solana.PrivateKey, error) {
	payer, err := taskPayer()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load fee payer: %w", err)
	}
	programID, err := solana.PublicKeyFromBase58(config.GetString(config.TaskProgramIDKey))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid task program id: %w", err)
	}

	endpoint := taskEndpoint()
	client := tasks.NewClient(solchain.NewClient(endpoint), programID)

	ctx, cancel := requestContext()
	defer cancel()

	if err := client.CheckProgram(ctx); err != nil {
		return nil, nil, err
	}
	lamports, err := client.CheckPayer(ctx, payer.PublicKey(), 1)
	if err != nil {
		return nil, nil, err
	}

	fmt.Printf("🌐 Cluster: %s\n", endpoint)
	fmt.Printf("💳 Using account %s containing %s KOII to pay for fees\n",
		payer.PublicKey(), solchain.LamportsToSOL(lamports).String())
	fmt.Println()
	return client, payer, nil
}

func parseTaskAccount(name, value string) (solana.PublicKey, error) {
	pub, err := solchain.ParseAddress(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return pub, nil
}

func saveTaskState(key solana.PrivateKey) (string, error) {
	path := filepath.Join(config.GetDatadir(), "tasks", key.PublicKey().String()+".json")
	if err := solchain.SaveKeypairFile(path, key); err != nil {
		return "", err
	}
	return path, nil
}

func printTaskAccounts(accounts *tasks.TaskAccounts) error {
	path, err := saveTaskState(accounts.StateAccount)
	if err != nil {
		return err
	}
	fmt.Printf("📍 Task state account: %s\n", accounts.StateAccount.PublicKey())
	fmt.Printf("🏦 Stake pot account:  %s\n", accounts.StakePotAccount)
	fmt.Printf("🔑 State keypair saved to: %s\n", path)
	return nil
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	base, err := taskInput.params()
	if err != nil {
		return err
	}
	total, err := decimal.NewFromString(taskInput.totalBounty)
	if err != nil {
		return fmt.Errorf("invalid total bounty: %w", err)
	}
	params := tasks.CreateTaskParams{TaskParams: base, TotalBountyAmount: total}
	if taskInput.koiiVars != "" {
		vars, err := parseTaskAccount("koii vars account", taskInput.koiiVars)
		if err != nil {
			return err
		}
		params.KoiiVars = &vars
	}

	client, payer, err := newTaskClient()
	if err != nil {
		return err
	}
	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Println("🛠️  Creating task...")
	accounts, err := client.CreateTask(ctx, payer, params)
	if err != nil {
		return err
	}
	fmt.Println("✅ Task created successfully!")
	return printTaskAccounts(accounts)
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	base, err := taskInput.params()
	if err != nil {
		return err
	}
	state, err := parseTaskAccount("task", taskStateFlag)
	if err != nil {
		return err
	}
	stakePot, err := parseTaskAccount("stake pot", taskStakePotFlag)
	if err != nil {
		return err
	}

	client, payer, err := newTaskClient()
	if err != nil {
		return err
	}
	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Println("🛠️  Updating task...")
	accounts, err := client.UpdateTask(ctx, payer, tasks.UpdateTaskParams{TaskParams: base}, state, stakePot)
	if err != nil {
		return err
	}
	fmt.Println("✅ Task updated successfully!")
	return printTaskAccounts(accounts)
}

func runTaskFund(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	lamports, err := solchain.SOLToLamports(amount)
	if err != nil {
		return err
	}
	state, err := parseTaskAccount("task", taskStateFlag)
	if err != nil {
		return err
	}
	stakePot, err := parseTaskAccount("stake pot", taskStakePotFlag)
	if err != nil {
		return err
	}

	client, payer, err := newTaskClient()
	if err != nil {
		return err
	}
	ctx, cancel := interruptContext()
	defer cancel()

	sig, err := client.FundTask(ctx, payer, state, stakePot, lamports)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Funded task with %s KOII\n", amount.String())
	fmt.Printf("🔗 Transaction: %s\n", sig)
	return nil
}

func runTaskClaim(cmd *cobra.Command, args []string) error {
	claimer, err := solchain.LoadKeypairFile(args[0])
	if err != nil {
		return err
	}
	beneficiary, err := parseTaskAccount("beneficiary", args[1])
	if err != nil {
		return err
	}
	state, err := parseTaskAccount("task", taskStateFlag)
	if err != nil {
		return err
	}
	stakePot, err := parseTaskAccount("stake pot", taskStakePotFlag)
	if err != nil {
		return err
	}

	client, payer, err := newTaskClient()
	if err != nil {
		return err
	}
	ctx, cancel := interruptContext()
	defer cancel()

	sig, err := client.ClaimReward(ctx, payer, state, stakePot, beneficiary, claimer)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Reward claimed to %s\n", beneficiary)
	fmt.Printf("🔗 Transaction: %s\n", sig)
	return nil
}

func runTaskWhitelist(cmd *cobra.Command, args []string) error {
	programKey, err := solchain.LoadKeypairFile(args[0])
	if err != nil {
		return err
	}
	state, err := parseTaskAccount("task", taskStateFlag)
	if err != nil {
		return err
	}

	client, payer, err := newTaskClient()
	if err != nil {
		return err
	}
	ctx, cancel := interruptContext()
	defer cancel()

	sig, err := client.Whitelist(ctx, payer, state, programKey, true)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Task %s whitelisted\n", state)
	fmt.Printf("🔗 Transaction: %s\n", sig)
	return nil
}

func runTaskSetActive(active bool) error {
	state, err := parseTaskAccount("task", taskStateFlag)
	if err != nil {
		return err
	}

	client, payer, err := newTaskClient()
	if err != nil {
		return err
	}
	ctx, cancel := interruptContext()
	defer cancel()

	sig, err := client.SetActive(ctx, payer, state, active)
	if err != nil {
		return err
	}
	status := "deactivated"
	if active {
		status = "activated"
	}
	fmt.Printf("✅ Task %s %s\n", state, status)
	fmt.Printf("🔗 Transaction: %s\n", sig)
	return nil
}

func runTaskWithdraw(cmd *cobra.Command, args []string) error {
	submitter, err := solchain.LoadKeypairFile(args[0])
	if err != nil {
		return err
	}
	state, err := parseTaskAccount("task", taskStateFlag)
	if err != nil {
		return err
	}

	client, payer, err := newTaskClient()
	if err != nil {
		return err
	}
	ctx, cancel := interruptContext()
	defer cancel()

	sig, err := client.Withdraw(ctx, payer, state, submitter)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Stake of %s withdrawn\n", submitter.PublicKey())
	fmt.Printf("🔗 Transaction: %s\n", sig)
	return nil
}
