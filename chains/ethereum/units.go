package ethereum

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var weiPerEther = decimal.New(1, 18)

func WeiToEther(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -18)
}

// EtherToWei converts ether to wei, truncating below one wei
func EtherToWei(ether decimal.Decimal) (*big.Int, error) {
	if ether.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative: %s", ether)
	}
	return ether.Mul(weiPerEther).Truncate(0).BigInt(), nil
}
