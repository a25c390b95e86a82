package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/chinmay1088/ktools/api"
	"github.com/chinmay1088/ktools/chains/arweave"
	"github.com/chinmay1088/ktools/config"
	"github.com/chinmay1088/ktools/wallet"
	"github.com/spf13/cobra"
)

var koiiCmd = &cobra.Command{
	Use:   "koii",
	Short: "Query and call the Koii contract on Arweave",
	Long: `Query the Koii contract state served by the bundler and submit
contract interactions signed by your Arweave wallet.

Examples:
  ktools koii balance                 # KOII held by your Arweave wallet
  ktools koii nft <id>                # Attention state of an NFT
  ktools koii nodes                   # Service nodes of the bundler
  ktools koii stake 100               # Stake 100 KOII
  ktools koii transfer 5 <address>    # Send 5 KOII`,
}

var koiiBalanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show the KOII balance of an address",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := ""
		if len(args) == 1 {
			address = args[0]
		} else {
			manager, err := unlockedManager()
			if err != nil {
				return err
			}
			creds, err := manager.Credential(wallet.KindArweave)
			if err != nil {
				return err
			}
			address = creds.Address
		}

		ctx, cancel := requestContext()
		defer cancel()
		balance, err := newAPIClient().KoiiBalance(ctx, address)
		if err != nil {
			return err
		}
		fmt.Printf("🪙 %s: %s KOII\n", address, balance.String())
		return nil
	},
}

var koiiStateCmd = &cobra.Command{
	Use:   "state [contract-id]",
	Short: "Print the state of the Koii contract or of another contract",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		client := newAPIClient()
		var raw json.RawMessage
		if len(args) == 1 {
			state, err := client.State(ctx, args[0])
			if err != nil {
				return err
			}
			raw = state
		} else {
			state, err := client.KoiiState(ctx)
			if err != nil {
				return err
			}
			raw = state.Raw
		}
		return printJSON(raw)
	},
}

var koiiNftCmd = &cobra.Command{
	Use:   "nft [id]",
	Short: "Show the attention state of an NFT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		nft, err := newAPIClient().NftState(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("🖼️  %s\n", nft.Title)
		fmt.Printf("   ID:        %s\n", nft.ID)
		fmt.Printf("   Owner:     %s\n", nft.Owner)
		fmt.Printf("   Attention: %d\n", nft.Attention)
		fmt.Printf("   Reward:    %s KOII\n", nft.Reward.String())
		return nil
	},
}

var koiiAttentionCmd = &cobra.Command{
	Use:   "attention",
	Short: "Show the id of the attention contract",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		id, err := newAPIClient().AttentionID(ctx)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var koiiNodesCmd = &cobra.Command{
	Use:   "nodes [bundler-url]",
	Short: "List the service nodes registered with a bundler",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := ""
		if len(args) == 1 {
			base = args[0]
		}

		ctx, cancel := requestContext()
		defer cancel()

		nodes, err := newAPIClient().Nodes(ctx, base)
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			fmt.Println("No nodes registered")
			return nil
		}
		for _, node := range nodes {
			valid := "❌"
			if arweave.VerifyPayload(&node) == nil {
				valid = "✅"
			}
			fmt.Printf("%s %s\n", valid, string(node.Data))
		}
		return nil
	},
}

var koiiStakeCmd = &cobra.Command{
	Use:   "stake [qty]",
	Short: "Stake KOII",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := parseQty(args[0])
		if err != nil {
			return err
		}
		return interact(arweave.Stake{Qty: qty})
	},
}

var koiiWithdrawCmd = &cobra.Command{
	Use:   "withdraw [qty]",
	Short: "Withdraw staked KOII",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := parseQty(args[0])
		if err != nil {
			return err
		}
		return interact(arweave.Withdraw{Qty: qty})
	},
}

var koiiTransferCmd = &cobra.Command{
	Use:   "transfer [qty] [target]",
	Short: "Transfer KOII to another Arweave address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := parseQty(args[0])
		if err != nil {
			return err
		}
		return interact(arweave.Transfer{Qty: qty, Target: args[1]})
	},
}

var koiiSyncCmd = &cobra.Command{
	Use:   "sync-ownership [txid...]",
	Short: "Sync the ownership of NFTs with the Koii contract",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return interact(arweave.SyncOwnership{TxIDs: args})
	},
}

var koiiPostCmd = &cobra.Command{
	Use:   "post [file]",
	Short: "Store a JSON document on Arweave",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		var doc interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("file is not valid JSON: %w", err)
		}

		tool, err := arweaveTool()
		if err != nil {
			return err
		}
		ctx, cancel := interruptContext()
		defer cancel()

		id, err := tool.PostData(ctx, doc)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Stored as %s\n", id)
		return nil
	},
}

func init() {
	koiiCmd.AddCommand(koiiBalanceCmd)
	koiiCmd.AddCommand(koiiStateCmd)
	koiiCmd.AddCommand(koiiNftCmd)
	koiiCmd.AddCommand(koiiAttentionCmd)
	koiiCmd.AddCommand(koiiNodesCmd)
	koiiCmd.AddCommand(koiiStakeCmd)
	koiiCmd.AddCommand(koiiWithdrawCmd)
	koiiCmd.AddCommand(koiiTransferCmd)
	koiiCmd.AddCommand(koiiSyncCmd)
	koiiCmd.AddCommand(koiiPostCmd)
}

func newAPIClient() *api.Client {
	return api.NewClient(config.GetAPIConfig())
}

func arweaveTool() (*wallet.ArweaveTool, error) {
	manager, err := unlockedManager()
	if err != nil {
		return nil, err
	}
	tool, err := loadTool(manager, wallet.KindArweave)
	if err != nil {
		return nil, err
	}
	return tool.(*wallet.ArweaveTool), nil
}

func parseQty(s string) (int64, error) {
	qty, err := strconv.ParseInt(s, 10, 64)
	if err != nil || qty < 1 {
		return 0, fmt.Errorf("qty must be a positive integer: %s", s)
	}
	return qty, nil
}

// interact submits in to the Koii contract
func interact(in arweave.Input) error {
	tool, err := arweaveTool()
	if err != nil {
		return err
	}

	contractID := config.GetString(config.KoiiContractIDKey)
	fmt.Printf("📝 Calling %s on %s\n", in.Function(), contractID)
	if !getTransactionConfirmation() {
		fmt.Println("❌ Interaction cancelled by user")
		return nil
	}

	ctx, cancel := interruptContext()
	defer cancel()

	id, err := tool.InteractWrite(ctx, contractID, in)
	if err != nil {
		return fmt.Errorf("failed to submit interaction: %w", err)
	}
	fmt.Println("✅ Interaction submitted!")
	fmt.Printf("🔗 Transaction: %s\n", id)
	return nil
}

func printJSON(raw json.RawMessage) error {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
