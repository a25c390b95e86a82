package cmd

import (
	"fmt"
	"strings"

	"github.com/chinmay1088/ktools/config"
	"github.com/chinmay1088/ktools/wallet"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network [mainnet|testnet]",
	Short: "Show or change network",
	Long: `Show the current network or switch between mainnet and testnet.

Testnet maps to Solana devnet, K2 testnet and Ethereum Sepolia. Arweave has
no testnet and always uses the configured gateway.

Examples:
  ktools network            # Show current network
  ktools network mainnet    # Switch to mainnet
  ktools network testnet    # Switch to testnet`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNetwork,
}

func runNetwork(cmd *cobra.Command, args []string) error {
	// If no arguments provided, show current network
	if len(args) == 0 {
		return showCurrentNetwork()
	}

	network := strings.ToLower(args[0])
	if network == config.GetNetwork() {
		fmt.Printf("✅ Already on %s\n", network)
		return nil
	}
	if err := config.SetNetwork(network); err != nil {
		return err
	}

	fmt.Printf("✅ Switched to %s\n", networkLabel())
	fmt.Println("💡 Session credentials are kept, balances now come from the new network")
	return nil
}

func showCurrentNetwork() error {
	fmt.Printf("🌐 Current network: %s\n", networkLabel())
	fmt.Println()
	fmt.Println("Network details:")
	for _, kind := range []wallet.Kind{wallet.KindSolana, wallet.KindK2, wallet.KindEthereum} {
		endpoint := config.GetEndpoint(kind)
		if endpoint == "" {
			endpoint = "default"
		}
		fmt.Printf("   - %s: %s (%s)\n", chainName(kind), config.GetChainNetwork(kind), endpoint)
	}

	client := newAPIClient()
	ctx, cancel := requestContext()
	defer cancel()

	info, err := client.Info(ctx)
	if err != nil {
		fmt.Printf("   - Arweave: %s\n", color.RedString("unreachable (%v)", err))
		return nil
	}
	fmt.Printf("   - Arweave: %s (%s, height %d, %d peers)\n",
		info.Network, client.Gateway(), info.Height, info.Peers)
	return nil
}
