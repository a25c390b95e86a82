package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/chinmay1088/ktools/api"
	"github.com/chinmay1088/ktools/wallet"
	"github.com/spf13/cobra"
)

var (
	limitFlag  int
	cursorFlag string
)

// directionResult is one side of the transaction history
type directionResult struct {
	Direction string
	Page      *api.TransactionsPage
	Error     error
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Show Arweave transaction history",
	Long: `Show the transactions sent and received by your Arweave wallet, read
from the gateway's GraphQL endpoint.

Examples:
  ktools transactions                 # Latest 10 sent and received
  ktools transactions --limit 25
  ktools transactions --cursor <c>    # Continue after a previous page`,
	Args: cobra.NoArgs,
	RunE: runTransactions,
}

func init() {
	transactionsCmd.Flags().IntVarP(&limitFlag, "limit", "l", 10, "Transactions per page (1-100)")
	transactionsCmd.Flags().StringVar(&cursorFlag, "cursor", "", "Cursor of the last transaction of a previous page")
}

func runTransactions(cmd *cobra.Command, args []string) error {
	if limitFlag < 1 || limitFlag > 100 {
		return fmt.Errorf("limit must be between 1 and 100")
	}

	manager, err := unlockedManager()
	if err != nil {
		return err
	}
	creds, err := manager.Credential(wallet.KindArweave)
	if err != nil {
		return err
	}
	client := newAPIClient()

	fmt.Println("🔄 Loading transactions...")
	startTime := time.Now()

	ctx, cancel := requestContext()
	defer cancel()

	results := make([]directionResult, 2)
	var wg sync.WaitGroup
	for i, direction := range []string{"Sent", "Received"} {
		wg.Add(1)
		go func(i int, direction string) {
			defer wg.Done()
			fetch := client.OwnedTransactions
			if direction == "Received" {
				fetch = client.RecipientTransactions
			}
			page, err := fetch(ctx, creds.Address, limitFlag, cursorFlag)
			results[i] = directionResult{Direction: direction, Page: page, Error: err}
		}(i, direction)
	}
	wg.Wait()

	fmt.Printf("📜 Transaction history of %s\n", creds.Address)
	for _, result := range results {
		fmt.Println()
		fmt.Printf("%s:\n", result.Direction)
		if result.Error != nil {
			fmt.Printf("   ❌ Error - %v\n", result.Error)
			continue
		}
		displayTransactions(result.Page)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\n⏱️ Loaded in %v\n", elapsed.Round(time.Millisecond*10))
	return nil
}

func displayTransactions(page *api.TransactionsPage) {
	if len(page.Edges) == 0 {
		fmt.Println("   No transactions found")
		return
	}

	for _, edge := range page.Edges {
		tx := edge.Node
		status := "⏳ pending"
		if tx.Block != nil {
			status = fmt.Sprintf("✅ block %d, %s", tx.Block.Height,
				time.Unix(tx.Block.Timestamp, 0).Format("2006-01-02 15:04"))
		}
		fmt.Printf("   🔗 %s (%s)\n", tx.ID, status)
		if tx.Recipient != "" {
			fmt.Printf("      %s AR → %s\n", tx.Quantity.AR, tx.Recipient)
		}
		fmt.Printf("      fee %s AR, %s bytes", tx.Fee.AR, tx.Data.Size)
		if tx.Data.Type != "" {
			fmt.Printf(" (%s)", tx.Data.Type)
		}
		fmt.Println()
	}

	if page.PageInfo.HasNextPage {
		last := page.Edges[len(page.Edges)-1]
		fmt.Printf("   💡 More available: --cursor %s\n", last.Cursor)
	}
}
