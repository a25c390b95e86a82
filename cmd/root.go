package cmd

import (
	"fmt"

	"github.com/chinmay1088/ktools/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ktools",
	Short: "Wallet and task toolkit for Arweave, Solana, K2 and Ethereum",
	Long: `ktools manages wallets on Arweave, Solana, Koii K2 and Ethereum and
submits instructions to the Koii task program.

Features:
  • Wallet generation and import (key or recovery phrase)
  • Recovery of funded accounts across common derivation paths
  • AES-256-GCM encrypted vault storage
  • Balances, transfers and payload signing
  • Koii task creation, funding and management on K2
  • Mainnet and Testnet support

Examples:
  ktools generate sol               # Create a new Solana wallet
  ktools import k2                  # Import a K2 wallet from its phrase
  ktools unlock                     # Unlock the vault
  ktools balance --usd              # Check balances with USD values
  ktools pay eth 0.1 0x1234...      # Send 0.1 ETH
  ktools network testnet            # Switch to testnet mode
  ktools task create --name ...     # Create a task on K2`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		log.SetLevel(config.GetLogLevel())
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(receiptCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(transactionsCmd)
	rootCmd.AddCommand(koiiCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(recoveryPhraseCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ktools v%s\n", version)
	},
}
