package cmd

import (
	"errors"
	"fmt"

	"github.com/chinmay1088/ktools/config"
	"github.com/chinmay1088/ktools/wallet"
	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address [chain]",
	Short: "Show wallet address",
	Long: `Show your wallet address for the specified blockchain.
Supported chains: ar, sol, k2, eth

Examples:
  ktools address eth     # Show Ethereum address
  ktools address k2      # Show K2 address
  ktools address         # Show all addresses`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAddress,
}

func runAddress(cmd *cobra.Command, args []string) error {
	kinds, err := parseChains(args)
	if err != nil {
		return err
	}
	manager, err := unlockedManager()
	if err != nil {
		return err
	}

	fmt.Println("🔑 Your wallet addresses:")
	fmt.Printf("🌐 Network: %s\n", networkLabel())
	fmt.Println()

	for _, kind := range kinds {
		creds, err := manager.Credential(kind)
		if errors.Is(err, wallet.ErrNoCredential) {
			if len(args) > 0 {
				return fmt.Errorf("no %s wallet stored. Run 'ktools import %s' first", kind, kind)
			}
			continue
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s - %s): %s\n",
			chainName(kind), kind.Symbol(), config.GetChainNetwork(kind), creds.Address)
	}

	return nil
}

func chainName(kind wallet.Kind) string {
	switch kind {
	case wallet.KindArweave:
		return "Arweave"
	case wallet.KindSolana:
		return "Solana"
	case wallet.KindK2:
		return "Koii K2"
	case wallet.KindEthereum:
		return "Ethereum"
	default:
		return string(kind)
	}
}
