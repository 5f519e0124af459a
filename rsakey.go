package keymaterial

import (
	"fmt"
	"math/big"

	kmath "github.com/bastionzero/keymaterial/math"
)

// RsaPrivate is any RSA key holding the private exponent d.
// It is satisfied by *RsaPrivateKey, *RsaPrivateCrtKey and *RsaMultiPrimePrivateCrtKey
type RsaPrivate interface {
	RsaKey
	PrivateExponent() *big.Int
}

// An RsaPublicKey is the pair (n, e)
type RsaPublicKey struct {
	n *big.Int // modulus
	e *big.Int // public exponent
}

// NewRsaPublicKey checks that n is an odd composite and 1 < e < n
func NewRsaPublicKey(n *big.Int, e *big.Int) (*RsaPublicKey, error) {
	if err := checkModulus(n); err != nil {
		return nil, err
	}
	if err := checkPublicExponent(e, n); err != nil {
		return nil, err
	}
	return &RsaPublicKey{n: copyInt(n), e: copyInt(e)}, nil
}

func (k *RsaPublicKey) Family() Family           { return FamilyRSA }
func (k *RsaPublicKey) IsPrivate() bool          { return false }
func (k *RsaPublicKey) sealed()                  {}
func (k *RsaPublicKey) Modulus() *big.Int        { return copyInt(k.n) }
func (k *RsaPublicKey) PublicExponent() *big.Int { return copyInt(k.e) }
func (k *RsaPublicKey) Size() int                { return (k.n.BitLen() + 7) / 8 }

// Equal reports whether both keys have the same modulus and exponent
func (k *RsaPublicKey) Equal(other *RsaPublicKey) bool {
	return other != nil && k.n.Cmp(other.n) == 0 && k.e.Cmp(other.e) == 0
}

func (k *RsaPublicKey) String() string {
	return fmt.Sprintf("%s public key (%d bits)", FamilyRSA, k.n.BitLen())
}

// An RsaPrivateKey is the pair (n, d) with no factorization attached. Private operations on it
// fall back to a full-width modular exponentiation
type RsaPrivateKey struct {
	n *big.Int // modulus
	d *big.Int // private exponent
}

// NewRsaPrivateKey checks that n is an odd composite and 0 < d < n
func NewRsaPrivateKey(n *big.Int, d *big.Int) (*RsaPrivateKey, error) {
	if err := checkModulus(n); err != nil {
		return nil, err
	}
	if err := checkPrivateExponent(d, n); err != nil {
		return nil, err
	}
	return &RsaPrivateKey{n: copyInt(n), d: copyInt(d)}, nil
}

func (k *RsaPrivateKey) Family() Family            { return FamilyRSA }
func (k *RsaPrivateKey) IsPrivate() bool           { return true }
func (k *RsaPrivateKey) sealed()                   {}
func (k *RsaPrivateKey) Modulus() *big.Int         { return copyInt(k.n) }
func (k *RsaPrivateKey) PrivateExponent() *big.Int { return copyInt(k.d) }

func (k *RsaPrivateKey) String() string {
	return describePrivate(FamilyRSA, "private key", k.n.BitLen())
}

// RsaCrtFields carries the raw fields of a two-prime CRT key into a constructor.
// The constructor copies every value, so the caller may reuse or wipe the struct afterwards
type RsaCrtFields struct {
	Modulus         *big.Int // n = p * q (* other primes)
	PublicExponent  *big.Int // e
	PrivateExponent *big.Int // d
	PrimeP          *big.Int // p
	PrimeQ          *big.Int // q
	PrimeExponentP  *big.Int // dP = d mod (p-1)
	PrimeExponentQ  *big.Int // dQ = d mod (q-1)
	CrtCoefficient  *big.Int // qInv = q^-1 mod p
}

// OtherPrimeInfo describes the third and subsequent primes of a multi-prime key
type OtherPrimeInfo struct {
	Prime          *big.Int // r_i
	Exponent       *big.Int // d mod (r_i - 1)
	CrtCoefficient *big.Int // (r_1 * r_2 * ... * r_{i-1})^-1 mod r_i
}

func (opi OtherPrimeInfo) clone() OtherPrimeInfo {
	return OtherPrimeInfo{
		Prime:          copyInt(opi.Prime),
		Exponent:       copyInt(opi.Exponent),
		CrtCoefficient: copyInt(opi.CrtCoefficient),
	}
}

// fields shared by both CRT variants
type crtCore struct {
	n, e, d *big.Int
	p, q    *big.Int
	dP, dQ  *big.Int
	qInv    *big.Int
}

func newCrtCore(f RsaCrtFields) *crtCore {
	return &crtCore{
		n:    copyInt(f.Modulus),
		e:    copyInt(f.PublicExponent),
		d:    copyInt(f.PrivateExponent),
		p:    copyInt(f.PrimeP),
		q:    copyInt(f.PrimeQ),
		dP:   copyInt(f.PrimeExponentP),
		dQ:   copyInt(f.PrimeExponentQ),
		qInv: copyInt(f.CrtCoefficient),
	}
}

func (c *crtCore) Family() Family            { return FamilyRSA }
func (c *crtCore) IsPrivate() bool           { return true }
func (c *crtCore) Modulus() *big.Int         { return copyInt(c.n) }
func (c *crtCore) PublicExponent() *big.Int  { return copyInt(c.e) }
func (c *crtCore) PrivateExponent() *big.Int { return copyInt(c.d) }
func (c *crtCore) PrimeP() *big.Int          { return copyInt(c.p) }
func (c *crtCore) PrimeQ() *big.Int          { return copyInt(c.q) }
func (c *crtCore) PrimeExponentP() *big.Int  { return copyInt(c.dP) }
func (c *crtCore) PrimeExponentQ() *big.Int  { return copyInt(c.dQ) }
func (c *crtCore) CrtCoefficient() *big.Int  { return copyInt(c.qInv) }

// PublicKey returns the public half (n, e)
func (c *crtCore) PublicKey() *RsaPublicKey {
	return &RsaPublicKey{n: copyInt(c.n), e: copyInt(c.e)}
}

// An RsaPrivateCrtKey carries the two-prime factorization of n and the precomputed values that let
// private operations run as two half-width exponentiations
type RsaPrivateCrtKey struct {
	crtCore
}

// NewRsaPrivateCrtKey runs the structural checks on f. It does not recompute dP, dQ or qInv; use [Validate] for that
func NewRsaPrivateCrtKey(f RsaCrtFields) (*RsaPrivateCrtKey, error) {
	if err := checkCrtFields(f, nil); err != nil {
		return nil, err
	}
	return &RsaPrivateCrtKey{crtCore: *newCrtCore(f)}, nil
}

func (k *RsaPrivateCrtKey) sealed() {}

func (k *RsaPrivateCrtKey) crtView() (*crtCore, []OtherPrimeInfo) {
	if k == nil {
		return nil, nil
	}
	return &k.crtCore, nil
}

func (k *RsaPrivateCrtKey) String() string {
	return describePrivate(FamilyRSA, "private CRT key", k.n.BitLen())
}

// An RsaMultiPrimePrivateCrtKey extends the two-prime CRT key with any number of additional primes.
// The order of the additional primes is significant: each coefficient is an inverse of the product of
// every prime before it
type RsaMultiPrimePrivateCrtKey struct {
	crtCore
	others []OtherPrimeInfo
}

// NewRsaMultiPrimePrivateCrtKey runs the structural checks on f and on each additional prime. An empty
// others slice produces a key that behaves exactly like an [RsaPrivateCrtKey]
func NewRsaMultiPrimePrivateCrtKey(f RsaCrtFields, others []OtherPrimeInfo) (*RsaMultiPrimePrivateCrtKey, error) {
	if err := checkCrtFields(f, others); err != nil {
		return nil, err
	}

	copied := make([]OtherPrimeInfo, len(others))
	for i, opi := range others {
		copied[i] = opi.clone()
	}
	return &RsaMultiPrimePrivateCrtKey{crtCore: *newCrtCore(f), others: copied}, nil
}

func (k *RsaMultiPrimePrivateCrtKey) sealed() {}

func (k *RsaMultiPrimePrivateCrtKey) crtView() (*crtCore, []OtherPrimeInfo) {
	if k == nil {
		return nil, nil
	}
	return &k.crtCore, k.others
}

// OtherPrimeInfo returns a copy of the additional primes, in recombination order
func (k *RsaMultiPrimePrivateCrtKey) OtherPrimeInfo() []OtherPrimeInfo {
	result := make([]OtherPrimeInfo, len(k.others))
	for i, opi := range k.others {
		result[i] = opi.clone()
	}
	return result
}

// Primes returns every prime factor of n: p, q, then the additional primes in order
func (k *RsaMultiPrimePrivateCrtKey) Primes() []*big.Int {
	primes := []*big.Int{copyInt(k.p), copyInt(k.q)}
	for _, opi := range k.others {
		primes = append(primes, copyInt(opi.Prime))
	}
	return primes
}

func (k *RsaMultiPrimePrivateCrtKey) String() string {
	return describePrivate(FamilyRSA, fmt.Sprintf("%d-prime private CRT key", len(k.others)+2), k.n.BitLen())
}

// CrtKey is the set of RSA private keys that carry a factorization of n.
// It is satisfied by *RsaPrivateCrtKey and *RsaMultiPrimePrivateCrtKey only
type CrtKey interface {
	RsaPrivate
	PublicExponent() *big.Int
	PrimeP() *big.Int
	PrimeQ() *big.Int
	PrimeExponentP() *big.Int
	PrimeExponentQ() *big.Int
	CrtCoefficient() *big.Int
	PublicKey() *RsaPublicKey

	crtView() (*crtCore, []OtherPrimeInfo)
}

// n > 1, odd, and not prime
func checkModulus(n *big.Int) error {
	if n == nil || n.Cmp(bigOne) <= 0 {
		return fmt.Errorf("%w: rsa: modulus must be greater than 1", ErrInvalidKeyMaterial)
	}
	if n.Bit(0) == 0 {
		return fmt.Errorf("%w: rsa: modulus must be odd", ErrInvalidKeyMaterial)
	}
	if n.ProbablyPrime(primalityRounds) {
		return fmt.Errorf("%w: rsa: modulus must be composite", ErrInvalidKeyMaterial)
	}
	return nil
}

// 1 < e < n
func checkPublicExponent(e *big.Int, n *big.Int) error {
	if e == nil || !between(e, bigOne, n) {
		return fmt.Errorf("%w: rsa: public exponent must lie in (1, n)", ErrInvalidKeyMaterial)
	}
	return nil
}

// 0 < d < n
func checkPrivateExponent(d *big.Int, n *big.Int) error {
	if d == nil || !positiveBelow(d, n) {
		return fmt.Errorf("%w: rsa: private exponent must lie in (0, n)", ErrInvalidKeyMaterial)
	}
	return nil
}

// structural checks on a CRT key: field ranges and that the primes multiply out to n.
// None of these need d to be related to the primes; that is the job of Validate
func checkCrtFields(f RsaCrtFields, others []OtherPrimeInfo) error {
	if anyNil(f.Modulus, f.PublicExponent, f.PrivateExponent, f.PrimeP, f.PrimeQ,
		f.PrimeExponentP, f.PrimeExponentQ, f.CrtCoefficient) {
		return fmt.Errorf("%w: rsa: missing CRT field", ErrInvalidKeyMaterial)
	}

	n := f.Modulus
	if err := checkModulus(n); err != nil {
		return err
	}
	if err := checkPublicExponent(f.PublicExponent, n); err != nil {
		return err
	}
	if err := checkPrivateExponent(f.PrivateExponent, n); err != nil {
		return err
	}

	if err := checkPrime("primeP", f.PrimeP, f.PrimeExponentP, "primeExponentP"); err != nil {
		return err
	}
	if err := checkPrime("primeQ", f.PrimeQ, f.PrimeExponentQ, "primeExponentQ"); err != nil {
		return err
	}
	if !positiveBelow(f.CrtCoefficient, f.PrimeP) {
		return fmt.Errorf("%w: rsa: crtCoefficient must lie in (0, primeP)", ErrInvalidKeyMaterial)
	}

	primes := []*big.Int{f.PrimeP, f.PrimeQ}
	for i, opi := range others {
		if anyNil(opi.Prime, opi.Exponent, opi.CrtCoefficient) {
			return fmt.Errorf("%w: rsa: otherPrimeInfo[%d] is missing a field", ErrInvalidKeyMaterial, i)
		}
		name := fmt.Sprintf("otherPrimeInfo[%d].prime", i)
		if err := checkPrime(name, opi.Prime, opi.Exponent, fmt.Sprintf("otherPrimeInfo[%d].exponent", i)); err != nil {
			return err
		}
		if !positiveBelow(opi.CrtCoefficient, opi.Prime) {
			return fmt.Errorf("%w: rsa: otherPrimeInfo[%d].crtCoefficient must lie in (0, prime)", ErrInvalidKeyMaterial, i)
		}
		primes = append(primes, opi.Prime)
	}

	for i := range primes {
		for j := i + 1; j < len(primes); j++ {
			if primes[i].Cmp(primes[j]) == 0 {
				return fmt.Errorf("%w: rsa: prime factors must be distinct", ErrInvalidKeyMaterial)
			}
		}
	}

	if kmath.Product(primes).Cmp(n) != 0 {
		if len(others) == 0 {
			return fmt.Errorf("%w: rsa: primeP * primeQ != modulus", ErrInvalidKeyMaterial)
		}
		return fmt.Errorf("%w: rsa: product of primes != modulus", ErrInvalidKeyMaterial)
	}
	return nil
}

// r > 2 and 0 < exponent < r-1
func checkPrime(name string, r *big.Int, exponent *big.Int, exponentName string) error {
	if r.Cmp(big.NewInt(2)) <= 0 {
		return fmt.Errorf("%w: rsa: %s must be an odd prime greater than 2", ErrInvalidKeyMaterial, name)
	}
	if !positiveBelow(exponent, minusOne(r)) {
		return fmt.Errorf("%w: rsa: %s must lie in (0, %s - 1)", ErrInvalidKeyMaterial, exponentName, name)
	}
	return nil
}
