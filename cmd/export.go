package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chinmay1088/ktools/config"
	"github.com/chinmay1088/ktools/wallet"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [chain]",
	Short: "Export stored wallets",
	Long: `Export the stored wallets with their addresses, private keys and
current balances.

The private key uses the chain's native encoding: a JWK for Arweave, a
secret key byte array for Solana and K2, hex for Ethereum.

File formats:
  --json       Export to JSON format (default)
  --csv        Export to CSV format
  --txt        Export to txt format

Examples:
  ktools export                   # every stored wallet to JSON
  ktools export k2 --json --csv   # the K2 wallet to JSON and CSV
  ktools export --no-keys --txt   # addresses and balances only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var (
	csvFlag    bool
	jsonFlag   bool
	txtFlag    bool
	noKeysFlag bool
	outputFlag string
)

func init() {
	exportCmd.Flags().BoolVar(&csvFlag, "csv", false, "Export to CSV format")
	exportCmd.Flags().BoolVar(&jsonFlag, "json", false, "Export to JSON format")
	exportCmd.Flags().BoolVar(&txtFlag, "txt", false, "Export to txt format")
	exportCmd.Flags().BoolVar(&noKeysFlag, "no-keys", false, "Leave private keys out of the export")
	exportCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Directory for the export files")
}

// ExportData is the content of an export file
type ExportData struct {
	ExportDate string         `json:"export_date"`
	Network    string         `json:"network"`
	Wallets    []ExportWallet `json:"wallets"`
}

// ExportWallet is one exported wallet
type ExportWallet struct {
	Chain      string `json:"chain"`
	Symbol     string `json:"symbol"`
	Network    string `json:"network"`
	Address    string `json:"address"`
	Balance    string `json:"balance"`
	PrivateKey string `json:"private_key,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	manager, err := unlockedManager()
	if err != nil {
		return err
	}
	kinds, err := storedChains(manager, args)
	if err != nil {
		return err
	}
	if !csvFlag && !jsonFlag && !txtFlag {
		jsonFlag = true
	}

	network := config.GetNetwork()
	fmt.Printf("🌐 Current Network: %s\n", networkLabel())
	fmt.Println("📊 Preparing export data...")

	exportData := &ExportData{
		ExportDate: time.Now().Format("2006-01-02 15:04:05"),
		Network:    network,
	}

	bar := newProgressBar(len(kinds)+1, "[cyan][1/2][reset] Collecting wallets...")
	for _, kind := range kinds {
		exported, err := collectWallet(manager, kind)
		if err != nil {
			return fmt.Errorf("failed to export %s wallet: %w", kind, err)
		}
		exportData.Wallets = append(exportData.Wallets, *exported)
		bar.Add(1)
	}

	bar.Describe("[cyan][2/2][reset] Writing export files...")
	exportDir, err := prepareExportDirectory()
	if err != nil {
		return fmt.Errorf("failed to prepare export directory: %w", err)
	}
	files, err := writeExportFiles(exportData, exportDir)
	if err != nil {
		return fmt.Errorf("failed to write export files: %w", err)
	}
	bar.Add(1)
	bar.Describe("[green][✓][reset] Export completed!")
	bar.Finish()
	fmt.Println()
	fmt.Println()

	fmt.Println("📁 Export completed successfully!")
	for _, file := range files {
		fmt.Printf("📍 %s\n", file)
	}
	if !noKeysFlag {
		fmt.Println()
		fmt.Println("⚠️  The export contains private keys. Anyone with these files can access your funds.")
	}
	return nil
}

// collectWallet restores the wallet of kind and reads its balance. A
// balance that cannot be fetched is exported as "unavailable".
func collectWallet(manager *wallet.Manager, kind wallet.Kind) (*ExportWallet, error) {
	tool, err := loadTool(manager, kind)
	if err != nil {
		return nil, err
	}
	w, err := tool.Export()
	if err != nil {
		return nil, err
	}

	exported := &ExportWallet{
		Chain:   chainName(kind),
		Symbol:  kind.Symbol(),
		Network: tool.Network(),
		Address: w.Address,
		Balance: "unavailable",
	}
	if !noKeysFlag {
		exported.PrivateKey = w.PrivateKey
	}

	ctx, cancel := requestContext()
	defer cancel()
	if balance, err := fetchBalance(ctx, tool); err != nil {
		log.WithError(err).WithField("chain", kind).Debug("balance not exported")
	} else {
		exported.Balance = balance
	}
	return exported, nil
}

func fetchBalance(ctx context.Context, tool wallet.Tool) (string, error) {
	balance, err := tool.Balance(ctx)
	if err != nil {
		return "", err
	}
	return tool.Kind().ToCoins(balance).String(), nil
}

func prepareExportDirectory() (string, error) {
	exportDir := outputFlag
	if exportDir == "" {
		exportDir = filepath.Join(config.GetDatadir(), "exports")
	}
	if err := os.MkdirAll(exportDir, 0700); err != nil {
		return "", err
	}
	return exportDir, nil
}

func writeExportFiles(exportData *ExportData, exportDir string) ([]string, error) {
	base := filepath.Join(exportDir, fmt.Sprintf("ktools_%s_%s", exportData.Network, time.Now().Format("20060102_150405")))

	var files []string
	if jsonFlag {
		if err := writeJSONExport(exportData, base+".json"); err != nil {
			return nil, fmt.Errorf("failed to write JSON export: %w", err)
		}
		files = append(files, base+".json")
	}
	if csvFlag {
		if err := writeCSVExport(exportData, base+".csv"); err != nil {
			return nil, fmt.Errorf("failed to write CSV export: %w", err)
		}
		files = append(files, base+".csv")
	}
	if txtFlag {
		if err := writeTXTExport(exportData, base+".txt"); err != nil {
			return nil, fmt.Errorf("failed to write txt export: %w", err)
		}
		files = append(files, base+".txt")
	}
	return files, nil
}

func writeJSONExport(exportData *ExportData, filename string) error {
	data, err := json.MarshalIndent(exportData, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}

func writeCSVExport(exportData *ExportData, filename string) error {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Chain", "Symbol", "Network", "Address", "Balance", "Private Key"}); err != nil {
		return err
	}
	for _, w := range exportData.Wallets {
		if err := writer.Write([]string{w.Chain, w.Symbol, w.Network, w.Address, w.Balance, w.PrivateKey}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTXTExport(exportData *ExportData, filename string) error {
	var content strings.Builder
	content.WriteString("KTOOLS WALLET EXPORT\n")
	content.WriteString("====================\n\n")
	content.WriteString(fmt.Sprintf("Export Date: %s\n", exportData.ExportDate))
	content.WriteString(fmt.Sprintf("Network: %s\n", strings.ToUpper(exportData.Network)))

	for _, w := range exportData.Wallets {
		content.WriteString(fmt.Sprintf("\n%s (%s) on %s\n", w.Chain, w.Symbol, w.Network))
		content.WriteString(fmt.Sprintf("  Address: %s\n", w.Address))
		content.WriteString(fmt.Sprintf("  Balance: %s %s\n", w.Balance, w.Symbol))
		if w.PrivateKey != "" {
			content.WriteString(fmt.Sprintf("  Private Key: %s\n", w.PrivateKey))
		}
	}
	return os.WriteFile(filename, []byte(content.String()), 0600)
}
