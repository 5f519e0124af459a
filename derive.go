package keymaterial

import (
	"fmt"
	"math/big"

	kmath "github.com/bastionzero/keymaterial/math"
)

// DeriveRsaPrivateCrtKey computes n, dP, dQ and qInv from (e, d, p, q) and builds a two-prime CRT key
func DeriveRsaPrivateCrtKey(e *big.Int, d *big.Int, p *big.Int, q *big.Int) (*RsaPrivateCrtKey, error) {
	fields, _, err := deriveCrtFields(e, d, []*big.Int{p, q})
	if err != nil {
		return nil, err
	}
	return NewRsaPrivateCrtKey(fields)
}

// DeriveRsaMultiPrimePrivateCrtKey computes every CRT field from (e, d) and the prime factors of n.
// primes[0] and primes[1] become p and q; the rest become the additional primes, in the order given
func DeriveRsaMultiPrimePrivateCrtKey(e *big.Int, d *big.Int, primes []*big.Int) (*RsaMultiPrimePrivateCrtKey, error) {
	fields, others, err := deriveCrtFields(e, d, primes)
	if err != nil {
		return nil, err
	}
	return NewRsaMultiPrimePrivateCrtKey(fields, others)
}

func deriveCrtFields(e *big.Int, d *big.Int, primes []*big.Int) (RsaCrtFields, []OtherPrimeInfo, error) {
	if len(primes) < 2 {
		return RsaCrtFields{}, nil, fmt.Errorf("%w: rsa: at least 2 primes are required, got %d", ErrInvalidKeyMaterial, len(primes))
	}
	if anyNil(append([]*big.Int{e, d}, primes...)...) {
		return RsaCrtFields{}, nil, fmt.Errorf("%w: rsa: missing exponent or prime", ErrInvalidKeyMaterial)
	}
	for _, r := range primes {
		if r.Cmp(bigOne) <= 0 {
			return RsaCrtFields{}, nil, fmt.Errorf("%w: rsa: primes must be greater than 1", ErrInvalidKeyMaterial)
		}
	}

	p, q := primes[0], primes[1]

	// qInv <- q^-1 mod p
	qInv := new(big.Int).ModInverse(q, p)
	if qInv == nil {
		return RsaCrtFields{}, nil, fmt.Errorf("%w: rsa: primeQ has no inverse mod primeP", ErrInvalidKeyMaterial)
	}

	fields := RsaCrtFields{
		Modulus:         kmath.Product(primes),
		PublicExponent:  e,
		PrivateExponent: d,
		PrimeP:          p,
		PrimeQ:          q,
		PrimeExponentP:  new(big.Int).Mod(d, minusOne(p)),
		PrimeExponentQ:  new(big.Int).Mod(d, minusOne(q)),
		CrtCoefficient:  qInv,
	}

	// R <- p * q, and each further coefficient inverts the product of everything before it
	others := make([]OtherPrimeInfo, 0, len(primes)-2)
	R := new(big.Int).Mul(p, q)
	for i, r := range primes[2:] {
		coeff := new(big.Int).ModInverse(R, r)
		if coeff == nil {
			return RsaCrtFields{}, nil, fmt.Errorf("%w: rsa: primes[%d] shares a factor with the preceding primes", ErrInvalidKeyMaterial, i+2)
		}
		others = append(others, OtherPrimeInfo{
			Prime:          r,
			Exponent:       new(big.Int).Mod(d, minusOne(r)),
			CrtCoefficient: coeff,
		})
		R.Mul(R, r)
	}

	return fields, others, nil
}
