package solana

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

var lamportsPerSOL = decimal.NewFromInt(int64(solana.LAMPORTS_PER_SOL))

// LamportsToSOL converts lamports to whole coins. K2 shares the 10^9
// denomination, so this serves KOII amounts too.
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -9)
}

// SOLToLamports converts a whole-coin amount to lamports, truncating
// anything below one lamport
func SOLToLamports(amount decimal.Decimal) (uint64, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative: %s", amount)
	}
	lamports := amount.Mul(lamportsPerSOL).Truncate(0)
	if !lamports.BigInt().IsUint64() {
		return 0, fmt.Errorf("amount %s overflows lamports", amount)
	}
	return lamports.BigInt().Uint64(), nil
}

func FormatBalance(lamports uint64, symbol string) string {
	return fmt.Sprintf("%s %s", LamportsToSOL(lamports).StringFixed(9), symbol)
}
