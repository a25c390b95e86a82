package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chinmay1088/ktools/wallet"
	"github.com/spf13/cobra"
)

var signCmd = &cobra.Command{
	Use:   "sign [chain] [payload]",
	Short: "Sign a payload with your wallet",
	Long: `Sign a payload with the stored wallet of a chain and print the signed
payload as JSON.

Arweave payloads are signed the way the Koii bundler expects them, Ethereum
payloads as personal messages and Solana/K2 payloads with ed25519.

Examples:
  ktools sign ar '{"vote":true}'
  ktools sign sol hello > signed.json`,
	Args: cobra.ExactArgs(2),
	RunE: runSign,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [chain] [file]",
	Short: "Verify a signed payload produced by 'ktools sign'",
	Args:  cobra.ExactArgs(2),
	RunE:  runVerify,
}

func runSign(cmd *cobra.Command, args []string) error {
	kind, err := wallet.ParseKind(args[0])
	if err != nil {
		return err
	}
	manager, err := unlockedManager()
	if err != nil {
		return err
	}
	tool, err := loadTool(manager, kind)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()

	payload, err := tool.SignPayload(ctx, []byte(args[1]))
	if err != nil {
		return fmt.Errorf("failed to sign payload: %w", err)
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	kind, err := wallet.ParseKind(args[0])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	var payload wallet.SignedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	ok, err := wallet.VerifyPayload(kind, &payload)
	if err != nil {
		return fmt.Errorf("failed to verify payload: %w", err)
	}
	if !ok {
		return fmt.Errorf("signature is not valid for %s", payload.Signer)
	}
	fmt.Printf("✅ Valid signature by %s\n", payload.Signer)
	return nil
}
