package keymaterial

import (
	"fmt"
	"math/big"
)

// CRTDecrypt computes c^d mod n using the factorization carried by key.
//
// For the two primes p and q (PKCS #1 §5.1.2):
//
//	m1 <- c^dP mod p
//	m2 <- c^dQ mod q
//	h  <- qInv * (m1 - m2) mod p
//	m  <- m2 + h * q
//
// Every additional prime r_i is then folded in, in the order the key lists them (Garner's algorithm):
//
//	m_i <- c^d_i mod r_i
//	t   <- coeff_i * (m_i - m) mod r_i
//	m   <- m + t * R
//	R   <- R * r_i
//
// where R starts as p * q. c must lie in [0, n). A c that shares a factor with n is not an error
func CRTDecrypt(key CrtKey, c *big.Int) (*big.Int, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil CRT key", ErrUnsupportedKey)
	}
	core, others := key.crtView()
	if core == nil {
		return nil, fmt.Errorf("%w: nil CRT key", ErrUnsupportedKey)
	}
	if err := checkDomain(c, core.n); err != nil {
		return nil, err
	}

	m := crtRecombine(core, c)
	if len(others) == 0 {
		return m, nil
	}

	// R <- p * q
	R := new(big.Int).Mul(core.p, core.q)
	for _, opi := range others {
		// m_i <- c^d_i mod r_i
		mi := new(big.Int).Exp(c, opi.Exponent, opi.Prime)

		// t <- coeff_i * (m_i - m) mod r_i. big.Int.Mod is Euclidean, so t is never negative
		t := new(big.Int).Sub(mi, m)
		t.Mul(t, opi.CrtCoefficient)
		t.Mod(t, opi.Prime)

		// m <- m + t * R
		t.Mul(t, R)
		m.Add(m, t)

		// R <- R * r_i
		R.Mul(R, opi.Prime)
	}

	return m, nil
}

// two-prime recombination, giving c^d mod (p * q)
func crtRecombine(core *crtCore, c *big.Int) *big.Int {
	// m1 <- c^dP mod p
	m1 := new(big.Int).Exp(c, core.dP, core.p)
	// m2 <- c^dQ mod q
	m2 := new(big.Int).Exp(c, core.dQ, core.q)

	// h <- qInv * (m1 - m2) mod p
	h := new(big.Int).Sub(m1, m2)
	if h.Sign() < 0 {
		h.Add(h, core.p)
	}
	h.Mul(h, core.qInv)
	h.Mod(h, core.p)

	// m <- m2 + h * q
	h.Mul(h, core.q)
	return h.Add(h, m2)
}

// PrivateExp computes c^d mod n with whatever algorithm the key variant supports:
// a full-width exponentiation for a plain [RsaPrivateKey], CRT recombination for the CRT variants.
// Any other variant yields ErrUnsupportedKey
func PrivateExp(key Key, c *big.Int) (*big.Int, error) {
	switch k := key.(type) {
	case *RsaPrivateKey:
		if k == nil {
			return nil, fmt.Errorf("%w: nil RSA private key", ErrUnsupportedKey)
		}
		if err := checkDomain(c, k.n); err != nil {
			return nil, err
		}
		return new(big.Int).Exp(c, k.d, k.n), nil
	case *RsaPrivateCrtKey:
		if k == nil {
			return nil, fmt.Errorf("%w: nil RSA CRT key", ErrUnsupportedKey)
		}
		return CRTDecrypt(k, c)
	case *RsaMultiPrimePrivateCrtKey:
		if k == nil {
			return nil, fmt.Errorf("%w: nil RSA multi-prime CRT key", ErrUnsupportedKey)
		}
		return CRTDecrypt(k, c)
	case nil:
		return nil, fmt.Errorf("%w: nil key", ErrUnsupportedKey)
	default:
		return nil, fmt.Errorf("%w: no private RSA operation for %T", ErrUnsupportedKey, key)
	}
}

// PublicExp computes m^e mod n. m must lie in [0, n)
func PublicExp(key *RsaPublicKey, m *big.Int) (*big.Int, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil RSA public key", ErrUnsupportedKey)
	}
	if err := checkDomain(m, key.n); err != nil {
		return nil, err
	}
	return new(big.Int).Exp(m, key.e, key.n), nil
}

// 0 <= x < n
func checkDomain(x *big.Int, n *big.Int) error {
	if x == nil {
		return fmt.Errorf("%w: missing input", ErrDomain)
	}
	if x.Sign() < 0 || x.Cmp(n) >= 0 {
		return fmt.Errorf("%w: input must lie in [0, n)", ErrDomain)
	}
	return nil
}
