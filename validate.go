package keymaterial

import (
	"fmt"
	"math/big"

	"go.uber.org/multierr"

	kmath "github.com/bastionzero/keymaterial/math"
)

// Validate runs the consistency checks that construction skips because they are too expensive to run
// on every key, or because they need more than range checks:
//
//   - CRT keys: every prime is prime, each CRT exponent is d reduced mod (prime - 1), each coefficient is
//     the inverse of the running product of the primes before it, and e * d ≡ 1 (mod λ(n))
//   - DSA public keys: y lies in the order-q subgroup
//   - EC public keys on curves with a cofactor: w has the base point's order
//
// Every violation found is reported, combined with multierr, and each one wraps ErrKeyConsistency.
// Keys with nothing further to check return nil
func Validate(key Key) error {
	switch k := key.(type) {
	case nil:
		return fmt.Errorf("%w: nil key", ErrUnsupportedKey)
	case *RsaPrivateCrtKey:
		if k == nil {
			return fmt.Errorf("%w: nil RSA CRT key", ErrUnsupportedKey)
		}
		return validateCrt(&k.crtCore, nil)
	case *RsaMultiPrimePrivateCrtKey:
		if k == nil {
			return fmt.Errorf("%w: nil RSA multi-prime CRT key", ErrUnsupportedKey)
		}
		return validateCrt(&k.crtCore, k.others)
	case *DsaPublicKey:
		if k == nil {
			return fmt.Errorf("%w: nil DSA public key", ErrUnsupportedKey)
		}
		return validateDsaPublic(k)
	case *EcPublicKey:
		if k == nil {
			return fmt.Errorf("%w: nil EC public key", ErrUnsupportedKey)
		}
		return validateEcPublic(k)
	case *DsaPrivateKey, *RsaPublicKey, *RsaPrivateKey, *EcPrivateKey, *OpaqueKey:
		// construction already checked everything that can be checked
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
}

// ValidateAll validates every key and combines the failures, labelled by position
func ValidateAll(keys ...Key) error {
	var result error
	for i, key := range keys {
		if err := Validate(key); err != nil {
			result = multierr.Append(result, fmt.Errorf("keys[%d]: %w", i, err))
		}
	}
	return result
}

func inconsistent(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrKeyConsistency, fmt.Sprintf(format, args...))
}

func validateCrt(core *crtCore, others []OtherPrimeInfo) error {
	var err error

	primes := []*big.Int{core.p, core.q}
	for _, opi := range others {
		primes = append(primes, opi.Prime)
	}

	if !core.p.ProbablyPrime(primalityRounds) {
		err = multierr.Append(err, inconsistent("primeP is not prime"))
	}
	if !core.q.ProbablyPrime(primalityRounds) {
		err = multierr.Append(err, inconsistent("primeQ is not prime"))
	}

	// dP ≡ d (mod p-1), dQ ≡ d (mod q-1)
	if !kmath.CongruentModN(core.dP, core.d, minusOne(core.p)) {
		err = multierr.Append(err, inconsistent("primeExponentP != d mod (primeP - 1)"))
	}
	if !kmath.CongruentModN(core.dQ, core.d, minusOne(core.q)) {
		err = multierr.Append(err, inconsistent("primeExponentQ != d mod (primeQ - 1)"))
	}

	// qInv == q^-1 mod p
	qInv := new(big.Int).ModInverse(core.q, core.p)
	if qInv == nil || qInv.Cmp(core.qInv) != 0 {
		err = multierr.Append(err, inconsistent("crtCoefficient != primeQ^-1 mod primeP"))
	}

	// R <- p * q, then each coefficient must invert the product of the primes before it
	R := new(big.Int).Mul(core.p, core.q)
	for i, opi := range others {
		if !opi.Prime.ProbablyPrime(primalityRounds) {
			err = multierr.Append(err, inconsistent("otherPrimeInfo[%d].prime is not prime", i))
		}
		if !kmath.CongruentModN(opi.Exponent, core.d, minusOne(opi.Prime)) {
			err = multierr.Append(err, inconsistent("otherPrimeInfo[%d].exponent != d mod (prime - 1)", i))
		}
		coeff := new(big.Int).ModInverse(R, opi.Prime)
		if coeff == nil || coeff.Cmp(opi.CrtCoefficient) != 0 {
			err = multierr.Append(err, inconsistent("otherPrimeInfo[%d].crtCoefficient is not the inverse of the preceding primes' product", i))
		}
		R.Mul(R, opi.Prime)
	}

	// e * d ≡ 1 (mod λ(n))
	lambda := kmath.Carmichael(primes)
	ed := new(big.Int).Mul(core.e, core.d)
	if !kmath.CongruentModN(ed, bigOne, lambda) {
		err = multierr.Append(err, inconsistent("publicExponent * privateExponent != 1 mod λ(n)"))
	}

	return err
}

// y^q ≡ 1 (mod p)
func validateDsaPublic(k *DsaPublicKey) error {
	if new(big.Int).Exp(k.y, k.params.q, k.params.p).Cmp(bigOne) != 0 {
		return inconsistent("dsa: y is not in the order-q subgroup")
	}
	return nil
}

// on curves with a cofactor, order·w must be the point at infinity
func validateEcPublic(k *EcPublicKey) error {
	if k.params.cofactor == 1 {
		return nil
	}
	cp := k.params.curve.Params()
	x, y := k.params.curve.ScalarMult(k.x, k.y, cp.N.Bytes())
	if x.Sign() != 0 || y.Sign() != 0 {
		return inconsistent("ec: w does not have the order of the base point")
	}
	return nil
}
