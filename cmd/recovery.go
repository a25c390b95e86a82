package cmd

import (
	"fmt"

	"github.com/chinmay1088/ktools/wallet"
	"github.com/spf13/cobra"
)

var recoveryPhraseCmd = &cobra.Command{
	Use:   "recovery-phrase [chain]",
	Short: "Show the recovery phrase of stored wallets",
	Long: `Show the recovery phrase (mnemonic) the stored wallets were created from.

Wallets imported from a private key or an Arweave key file have no phrase.

Examples:
  ktools recovery-phrase        # every stored wallet
  ktools recovery-phrase sol    # the Solana wallet only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecoveryPhrase,
}

func runRecoveryPhrase(cmd *cobra.Command, args []string) error {
	manager, err := unlockedManager()
	if err != nil {
		return err
	}

	kinds, err := storedChains(manager, args)
	if err != nil {
		return err
	}

	shown := 0
	for _, kind := range kinds {
		creds, err := manager.Credential(kind)
		if err != nil {
			return err
		}
		if creds.Mnemonic == "" {
			if len(args) > 0 {
				return fmt.Errorf("the %s wallet was imported without a recovery phrase", kind)
			}
			continue
		}
		fmt.Printf("🔐 %s Recovery Phrase:\n", chainName(kind))
		fmt.Println()
		fmt.Printf("   %s\n", creds.Mnemonic)
		fmt.Println()
		shown++
	}
	if shown == 0 {
		return fmt.Errorf("no stored wallet has a recovery phrase")
	}

	fmt.Println("⚠️  Security Warning:")
	fmt.Println("   - Keep this phrase secure and private")
	fmt.Println("   - Anyone with this phrase can access your funds")
	fmt.Println("   - Write it down and store it safely")
	fmt.Println("   - Never share it with anyone")
	return nil
}

// storedChains narrows the stored wallets to the chain named in args
func storedChains(manager *wallet.Manager, args []string) ([]wallet.Kind, error) {
	if len(args) > 0 {
		return parseChains(args)
	}
	kinds, err := manager.StoredKinds()
	if err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("no wallet found. Run 'ktools generate' or 'ktools import' first")
	}
	return kinds, nil
}
