package cmd

import (
	"fmt"

	"github.com/chinmay1088/ktools/wallet"
	"github.com/spf13/cobra"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock wallet for session",
	Long: fmt.Sprintf(`Unlock your ktools vault for the current session.
This command will decrypt your vault and keep your keys available for %d minutes
or until you run 'ktools lock'.

Example:
  ktools unlock`, wallet.SessionDuration),
	RunE: runUnlock,
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock wallet and end the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		newManager().Lock()
		fmt.Println("🔒 Wallet locked")
		return nil
	},
}

func runUnlock(cmd *cobra.Command, args []string) error {
	manager := newManager()

	// Check if wallet exists
	if !manager.VaultExists() {
		return fmt.Errorf("no wallet found. Run 'ktools generate' or 'ktools import' first")
	}

	// Check if already unlocked
	if manager.IsUnlocked() {
		fmt.Println("✅ Wallet is already unlocked")
		return nil
	}

	password, err := readPassword("Enter your wallet password: ")
	if err != nil {
		return err
	}

	fmt.Println("Unlocking wallet...")
	if err := manager.Unlock(password); err != nil {
		return fmt.Errorf("failed to unlock wallet: %w", err)
	}

	fmt.Println("✅ Wallet unlocked successfully!")
	fmt.Println("💡 Use 'ktools address [chain]' to see your addresses")
	fmt.Println("💡 Use 'ktools balance [chain]' to check your balances")

	return nil
}
