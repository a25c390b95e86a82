package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chinmay1088/ktools/config"
	"github.com/chinmay1088/ktools/wallet"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

const minPasswordLength = 8

func newManager() *wallet.Manager {
	return wallet.NewManager(config.GetDatadir())
}

// unlockedManager returns the manager of an unlocked vault
func unlockedManager() (*wallet.Manager, error) {
	manager := newManager()
	if !manager.VaultExists() {
		return nil, fmt.Errorf("no wallet found. Run 'ktools generate' or 'ktools import' first")
	}
	if !manager.IsUnlocked() {
		return nil, fmt.Errorf("wallet is locked. Run 'ktools unlock' first")
	}
	return manager, nil
}

// loadTool restores the stored wallet of kind
func loadTool(manager *wallet.Manager, kind wallet.Kind) (wallet.Tool, error) {
	creds, err := manager.Credential(kind)
	if err != nil {
		if errors.Is(err, wallet.ErrNoCredential) {
			return nil, fmt.Errorf("%w. Run 'ktools import %s' first", err, kind)
		}
		return nil, err
	}
	return wallet.New(kind, config.GetToolOptions(kind, creds))
}

// parseChains returns every kind when args is empty
func parseChains(args []string) ([]wallet.Kind, error) {
	if len(args) == 0 {
		return wallet.Kinds(), nil
	}
	kind, err := wallet.ParseKind(args[0])
	if err != nil {
		return nil, fmt.Errorf("unsupported chain: %s. Supported chains: ar, sol, k2, eth", args[0])
	}
	return []wallet.Kind{kind}, nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// readVaultPassword asks for the existing vault password, or a new
// confirmed one when no vault exists yet
func readVaultPassword(manager *wallet.Manager) (string, error) {
	if manager.VaultExists() {
		return readPassword("Enter your wallet password: ")
	}

	password, err := readPassword("Enter a password for your wallet: ")
	if err != nil {
		return "", err
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func networkLabel() string {
	if config.IsTestnet() {
		return color.YellowString("Testnet")
	}
	return color.GreenString("Mainnet")
}

func getTransactionConfirmation() bool {
	fmt.Println()
	if config.IsTestnet() {
		fmt.Printf("⚠️ You are on testnet. By confirming this transaction no real funds will be sent.\n")
	} else {
		fmt.Printf("🚨 You are on main network. By confirming this transaction real funds will be sent.\n")
	}

	fmt.Printf("Press y to confirm or n to stop (y/n): ")

	var response string
	fmt.Scanln(&response)

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// requestContext bounds a single remote call
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.GetRequestTimeout())
}

// interruptContext runs until the user interrupts the command
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// recoveryProgress renders the recovery search on a progress bar created
// on the first query
func recoveryProgress() (wallet.ProgressFunc, func()) {
	var bar *progressbar.ProgressBar
	progress := func(step, total int, path string) {
		if bar == nil {
			bar = newProgressBar(total, "[cyan]Searching funded account...[reset]")
		}
		bar.Describe(fmt.Sprintf("[cyan]Checking[reset] %s", path))
		bar.Set(step)
	}
	done := func() {
		if bar != nil {
			bar.Finish()
			fmt.Println()
		}
	}
	return progress, done
}

// storeWallet persists the wallet currently imported into tool
func storeWallet(manager *wallet.Manager, tool wallet.Tool, mnemonic, password string) (*wallet.Credentials, error) {
	w, err := tool.Export()
	if err != nil {
		return nil, err
	}
	creds := wallet.Credentials{
		Address:  w.Address,
		Key:      w.PrivateKey,
		Mnemonic: mnemonic,
	}
	if err := manager.Store(tool.Kind(), creds, password); err != nil {
		return nil, fmt.Errorf("failed to store wallet: %w", err)
	}
	return &creds, nil
}
