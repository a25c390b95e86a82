package cmd

import (
	"errors"
	"fmt"

	ethchain "github.com/chinmay1088/ktools/chains/ethereum"
	"github.com/chinmay1088/ktools/config"
	"github.com/chinmay1088/ktools/wallet"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var payCmd = &cobra.Command{
	Use:   "pay [chain] [amount] [address]",
	Short: "Send coins",
	Long: `Send coins to another address.

Supported chains: ar, sol, k2, eth

Examples:
  ktools pay eth 0.1 0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b6
  ktools pay sol 1.5 7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU
  ktools pay eth 20 0x742d... --usd       # Send 20 USD worth of ETH`,
	Args: cobra.ExactArgs(3),
	RunE: runPay,
}

var receiptCmd = &cobra.Command{
	Use:   "receipt [hash]",
	Short: "Show the status of an Ethereum transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runReceipt,
}

func init() {
	payCmd.Flags().Bool("usd", false, "amount is given in USD")
}

func runPay(cmd *cobra.Command, args []string) error {
	kind, err := wallet.ParseKind(args[0])
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be greater than zero")
	}
	recipient := args[2]

	manager, err := unlockedManager()
	if err != nil {
		return err
	}
	tool, err := loadTool(manager, kind)
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	if usdFlag, _ := cmd.Flags().GetBool("usd"); usdFlag {
		client := newAPIClient()
		price, err := client.GetPrice(ctx, priceIDs[kind])
		if err != nil {
			return fmt.Errorf("failed to get %s price: %w", kind.Symbol(), err)
		}
		if !price.USD.IsPositive() {
			return fmt.Errorf("invalid %s price: %s", kind.Symbol(), price.USD)
		}
		amount = amount.Div(price.USD).Round(kind.Decimals())
	}

	fmt.Printf("🔷 Sending %s Transaction\n", chainName(kind))
	fmt.Println()
	fmt.Printf("   From:    %s\n", tool.Address())
	fmt.Printf("   To:      %s\n", recipient)
	fmt.Printf("   Amount:  %s %s\n", amount.String(), kind.Symbol())
	fmt.Printf("   Network: %s\n", tool.Network())

	balance, err := tool.Balance(ctx)
	if err != nil {
		return fmt.Errorf("failed to check balance: %w", err)
	}
	if coins := kind.ToCoins(balance); coins.LessThan(amount) {
		return fmt.Errorf(
			"insufficient funds in your %s wallet. You're trying to send %s %s but your balance is only %s %s",
			chainName(kind), amount, kind.Symbol(), coins, kind.Symbol(),
		)
	}

	if !getTransactionConfirmation() {
		fmt.Println("❌ Transaction cancelled by user")
		return nil
	}

	fmt.Println("📡 Broadcasting transaction...")
	txID, err := tool.Transfer(ctx, recipient, amount)
	if err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}

	fmt.Println("✅ Transaction sent successfully!")
	fmt.Printf("🔗 Transaction: %s\n", txID)
	if kind == wallet.KindEthereum {
		fmt.Printf("💡 Run 'ktools receipt %s' to check its status\n", txID)
	}
	return nil
}

func runReceipt(cmd *cobra.Command, args []string) error {
	tool, err := wallet.NewEthereumTool(config.GetToolOptions(wallet.KindEthereum, nil))
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()

	ok, err := tool.TransactionStatus(ctx, args[0])
	switch {
	case errors.Is(err, ethchain.ErrPending):
		fmt.Println("⏳ Transaction is pending")
		return nil
	case err != nil:
		return fmt.Errorf("failed to fetch receipt: %w", err)
	case ok:
		fmt.Println("✅ Transaction succeeded")
	default:
		fmt.Println("❌ Transaction failed")
	}
	return nil
}
