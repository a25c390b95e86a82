package arweave

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// winstonExp is the number of decimals between AR and winston
const winstonExp = 12

func WinstonToAR(winston *big.Int) decimal.Decimal {
	if winston == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(winston, -winstonExp)
}

// ARToWinston converts AR to winston, truncating below one winston
func ARToWinston(ar decimal.Decimal) (*big.Int, error) {
	if ar.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative: %s", ar)
	}
	return ar.Shift(winstonExp).Truncate(0).BigInt(), nil
}
