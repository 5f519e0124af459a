// Package math holds the big-integer helpers shared by the key model: congruences and the
// products and the Carmichael function taken over a modulus' prime factors.
package math

import (
	"math/big"
)

var bigOne = big.NewInt(1)

// CongruentModN reports whether N divides (a - b)
func CongruentModN(a *big.Int, b *big.Int, N *big.Int) bool {
	aModN := new(big.Int).Mod(a, N)
	bModN := new(big.Int).Mod(b, N)

	return aModN.Cmp(bModN) == 0
}

// Product multiplies the given primes together, in order. An empty slice yields 1
func Product(primes []*big.Int) *big.Int {
	result := big.NewInt(1)
	for _, p := range primes {
		result.Mul(result, p)
	}
	return result
}

// Carmichael calculates lambda(n) = lcm(p[0] - 1, p[1] - 1, ...) from the distinct prime factors of n.
// This is the modulus that e * d must be congruent to 1 under
func Carmichael(primes []*big.Int) *big.Int {
	lambda := big.NewInt(1)

	for _, p := range primes {
		pm1 := new(big.Int).Sub(p, bigOne)
		lambda = Lcm(lambda, pm1)
	}

	return lambda
}

// Lcm returns the least common multiple of two positive integers
func Lcm(a *big.Int, b *big.Int) *big.Int {
	// lcm <- a * b / gcd(a, b)
	gcd := new(big.Int).GCD(nil, nil, a, b)
	lcm := new(big.Int).Div(a, gcd)
	return lcm.Mul(lcm, b)
}
