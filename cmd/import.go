package cmd

import (
	"fmt"
	"os"

	"github.com/chinmay1088/ktools/config"
	"github.com/chinmay1088/ktools/wallet"
	"github.com/spf13/cobra"
)

var (
	importKeyFlag     bool
	importKeyFileFlag string
)

var importCmd = &cobra.Command{
	Use:   "import [chain]",
	Short: "Import a wallet from its recovery phrase or private key",
	Long: `Import a wallet and store it in the vault.

With a recovery phrase the default derivation path is checked first. When
it holds no funds the common alternative paths used by other wallets are
searched and the first funded account is imported.

Keys are base58 secret keys for Solana and K2, hex for Ethereum and JWK
files for Arweave.

Examples:
  ktools import sol                       # Prompt for a recovery phrase
  ktools import eth --key                 # Prompt for a private key
  ktools import ar --key-file wallet.json # Import an Arweave JWK`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importKeyFlag, "key", false, "import a private key instead of a recovery phrase")
	importCmd.Flags().StringVar(&importKeyFileFlag, "key-file", "", "read the private key from a file")
}

func runImport(cmd *cobra.Command, args []string) error {
	kind, err := wallet.ParseKind(args[0])
	if err != nil {
		return err
	}

	method := wallet.ImportSeedPhrase
	if importKeyFlag || importKeyFileFlag != "" || kind == wallet.KindArweave {
		method = wallet.ImportKey
	}

	fmt.Printf("📝 Import %s Wallet\n", kind)
	fmt.Printf("🌐 Network: %s\n", networkLabel())
	fmt.Println()

	var secret string
	switch {
	case importKeyFileFlag != "":
		data, err := os.ReadFile(importKeyFileFlag)
		if err != nil {
			return fmt.Errorf("failed to read key file: %w", err)
		}
		secret = string(data)
	case method == wallet.ImportKey:
		if kind == wallet.KindArweave {
			return fmt.Errorf("arweave wallets are imported from a JWK file, use --key-file")
		}
		if secret, err = readPassword("Enter private key: "); err != nil {
			return err
		}
	default:
		if secret, err = readLine("Enter recovery phrase: "); err != nil {
			return err
		}
		if !wallet.IsMnemonic(secret) {
			return wallet.ErrInvalidMnemonic
		}
	}

	manager := newManager()
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

	w, err := tool.ImportWallet(ctx, secret, method)
	done()
	if err != nil {
		return fmt.Errorf("failed to import wallet: %w", err)
	}

	mnemonic := ""
	if method == wallet.ImportSeedPhrase {
		mnemonic = secret
	}
	if _, err := storeWallet(manager, tool, mnemonic, password); err != nil {
		return err
	}

	fmt.Println("✅ Wallet imported successfully!")
	fmt.Printf("🔑 Address: %s\n", w.Address)
	fmt.Println()
	fmt.Println("🔑 Next steps:")
	fmt.Printf("   - Run 'ktools balance %s' to check your balance\n", kind)

	return nil
}
