package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

// Transaction collects instructions and signers before a recent blockhash
// is known
type Transaction struct {
	Instructions    []solana.Instruction
	Signers         []solana.PrivateKey
	FeePayer        solana.PublicKey
	RecentBlockhash solana.Hash
}

func NewTransaction(feePayer solana.PublicKey) *Transaction {
	return &Transaction{
		Instructions: make([]solana.Instruction, 0),
		Signers:      make([]solana.PrivateKey, 0),
		FeePayer:     feePayer,
	}
}

func (tx *Transaction) AddInstruction(instructions ...solana.Instruction) {
	tx.Instructions = append(tx.Instructions, instructions...)
}

func (tx *Transaction) AddTransferInstruction(from solana.PublicKey, to solana.PublicKey, lamports uint64) {
	tx.AddInstruction(system.NewTransferInstruction(lamports, from, to).Build())
}

// AddCreateAccountInstruction allocates space bytes for newAccount, owned
// by owner and funded with lamports from payer
func (tx *Transaction) AddCreateAccountInstruction(
	payer, newAccount, owner solana.PublicKey, lamports, space uint64,
) {
	tx.AddInstruction(
		system.NewCreateAccountInstruction(lamports, space, owner, payer, newAccount).Build(),
	)
}

// AddSigner registers a signer once. Signers are matched to required
// signatures by public key.
func (tx *Transaction) AddSigner(signers ...solana.PrivateKey) {
	for _, signer := range signers {
		if tx.hasSigner(signer.PublicKey()) {
			continue
		}
		tx.Signers = append(tx.Signers, signer)
	}
}

func (tx *Transaction) hasSigner(key solana.PublicKey) bool {
	for _, signer := range tx.Signers {
		if signer.PublicKey().Equals(key) {
			return true
		}
	}
	return false
}

func (tx *Transaction) SetRecentBlockhash(blockhash solana.Hash) {
	tx.RecentBlockhash = blockhash
}

// Build assembles and signs the transaction
func (tx *Transaction) Build() (*solana.Transaction, error) {
	if tx.RecentBlockhash == (solana.Hash{}) {
		return nil, fmt.Errorf("blockhash is empty")
	}
	if len(tx.Instructions) == 0 {
		return nil, fmt.Errorf("transaction has no instructions")
	}
	if len(tx.Signers) == 0 {
		return nil, fmt.Errorf("no signers provided for transaction")
	}

	stx, err := solana.NewTransaction(
		tx.Instructions,
		tx.RecentBlockhash,
		solana.TransactionPayer(tx.FeePayer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = stx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for _, signer := range tx.Signers {
			if key.Equals(signer.PublicKey()) {
				return &signer
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return stx, nil
}
