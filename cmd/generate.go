package cmd

import (
	"fmt"

	"github.com/chinmay1088/ktools/config"
	"github.com/chinmay1088/ktools/wallet"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [chain]",
	Short: "Generate a new wallet",
	Long: `Generate a new wallet for the given chain and store it in the vault.

Solana, K2 and Ethereum wallets are created from a new 12-word recovery
phrase. Arweave wallets are RSA-4096 keys exported as JWK.

Supported chains: ar, sol, k2, eth

Examples:
  ktools generate sol
  ktools generate ar`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kind, err := wallet.ParseKind(args[0])
	if err != nil {
		return err
	}

	manager := newManager()
	fmt.Printf("🚀 Generating %s wallet\n", kind)
	fmt.Printf("🌐 Network: %s\n", networkLabel())
	fmt.Println()

	password, err := readVaultPassword(manager)
	if err != nil {
		return err
	}

	progress, done := recoveryProgress()
	opts := config.GetToolOptions(kind, nil)
	opts.Progress = progress
	tool, err := wallet.New(kind, opts)
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Println("Generating wallet...")
	secret, err := tool.GenerateWallet(ctx)
	done()
	if err != nil {
		return fmt.Errorf("failed to generate wallet: %w", err)
	}

	mnemonic := secret
	if kind == wallet.KindArweave {
		mnemonic = ""
	}
	creds, err := storeWallet(manager, tool, mnemonic, password)
	if err != nil {
		return err
	}

	fmt.Println("✅ Wallet generated successfully!")
	fmt.Printf("🔑 Address: %s\n", creds.Address)
	fmt.Println()
	if mnemonic != "" {
		fmt.Println("🔐 Recovery Phrase (12 words):")
		fmt.Println()
		fmt.Printf("   %s\n", mnemonic)
		fmt.Println()
		fmt.Println("⚠️  IMPORTANT:")
		fmt.Println("   - Write down this recovery phrase and store it securely")
		fmt.Println("   - Anyone with this phrase can access your funds")
		fmt.Println("   - Keep it offline and never share it with anyone")
	} else {
		fmt.Println("⚠️  IMPORTANT:")
		fmt.Println("   - Arweave keys have no recovery phrase")
		fmt.Println("   - Run 'ktools export ar' and keep the key file offline")
	}
	fmt.Println()
	fmt.Println("🔑 Next steps:")
	fmt.Printf("   - Run 'ktools address %s' to see your address\n", kind)
	fmt.Printf("   - Run 'ktools balance %s' to check your balance\n", kind)

	return nil
}
