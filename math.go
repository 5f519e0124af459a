package keymaterial

import (
	"math/big"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// number of Miller-Rabin rounds used whenever a field is checked for primality
const primalityRounds = 20

// returns an independent copy of x, or nil for nil
func copyInt(x *big.Int) *big.Int {
	if x == nil {
		return nil
	}
	return new(big.Int).Set(x)
}

// check that lo < x < hi
func between(x *big.Int, lo *big.Int, hi *big.Int) bool {
	return x.Cmp(lo) > 0 && x.Cmp(hi) < 0
}

// check that 0 < x < hi
func positiveBelow(x *big.Int, hi *big.Int) bool {
	return between(x, bigZero, hi)
}

// returns x - 1
func minusOne(x *big.Int) *big.Int {
	return new(big.Int).Sub(x, bigOne)
}

// returns true if any of the values are nil
func anyNil(values ...*big.Int) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
	}
	return false
}
