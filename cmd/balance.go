package cmd

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/chinmay1088/ktools/api"
	"github.com/chinmay1088/ktools/config"
	"github.com/chinmay1088/ktools/wallet"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [chain]",
	Short: "Check balances",
	Long: `Check your balances for supported chains.

Supported chains: ar, sol, k2, eth

Examples:
  ktools balance          # Check all balances
  ktools balance eth      # Check Ethereum balance
  ktools balance --usd    # Include USD values`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBalance,
}

func init() {
	balanceCmd.Flags().Bool("usd", false, "show USD values")
}

// priceIDs are the price service ids of the chains' coins
var priceIDs = map[wallet.Kind]string{
	wallet.KindArweave:  "arweave",
	wallet.KindSolana:   "solana",
	wallet.KindK2:       "koii",
	wallet.KindEthereum: "ethereum",
}

func runBalance(cmd *cobra.Command, args []string) error {
	kinds, err := parseChains(args)
	if err != nil {
		return err
	}
	manager, err := unlockedManager()
	if err != nil {
		return err
	}

	usdFlag, _ := cmd.Flags().GetBool("usd")
	client := newAPIClient()

	fmt.Println("💰 Wallet Balances")
	fmt.Printf("🌐 Network: %s\n", networkLabel())
	fmt.Println()

	for _, kind := range kinds {
		tool, err := loadTool(manager, kind)
		if err != nil {
			if errors.Is(err, wallet.ErrNoCredential) && len(args) == 0 {
				continue
			}
			fmt.Printf("❌ %s: Error - %v\n", chainName(kind), err)
			continue
		}
		if err := displayBalance(tool, client, usdFlag); err != nil {
			fmt.Printf("❌ %s: Error - %v\n", chainName(kind), err)
		}
	}

	return nil
}

func displayBalance(tool wallet.Tool, client *api.Client, usdFlag bool) error {
	ctx, cancel := requestContext()
	defer cancel()

	kind := tool.Kind()
	balance, err := tool.Balance(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch balance: %w", err)
	}
	fmt.Printf("🔷 %s (%s): %s\n", chainName(kind), tool.Network(), formatAmount(kind, balance))

	if kind == wallet.KindArweave {
		koii, err := client.KoiiBalance(ctx, tool.Address())
		if err != nil {
			fmt.Printf("   🪙 KOII: Error fetching balance - %v\n", err)
		} else {
			fmt.Printf("   🪙 KOII: %s\n", koii.String())
		}
	}

	if usdFlag && !config.IsTestnet() {
		price, err := client.GetPrice(ctx, priceIDs[kind])
		if err != nil {
			fmt.Printf("   💵 USD: Error fetching price - %v\n", err)
		} else {
			usdValue := kind.ToCoins(balance).Mul(price.USD)
			fmt.Printf("   💵 USD: $%s\n", usdValue.StringFixed(2))
		}
	}
	return nil
}

func formatAmount(kind wallet.Kind, amount *big.Int) string {
	return fmt.Sprintf("%s %s", kind.ToCoins(amount).String(), kind.Symbol())
}
