package keymaterial

import (
	"crypto/elliptic"
	"fmt"
	"math/big"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// DsaParams are the domain parameters (p, q, g) shared by every key of a DSA family.
// A DsaParams is immutable once constructed and is meant to be shared by reference
type DsaParams struct {
	p *big.Int // group prime
	q *big.Int // subgroup order, divides p-1
	g *big.Int // generator of the order-q subgroup
}

// NewDsaParams checks that p and q are prime, q divides p-1, and g has order q mod p
func NewDsaParams(p *big.Int, q *big.Int, g *big.Int) (*DsaParams, error) {
	if anyNil(p, q, g) {
		return nil, fmt.Errorf("%w: dsa: missing p, q or g", ErrInvalidParameter)
	}
	if p.Cmp(bigOne) <= 0 || q.Cmp(bigOne) <= 0 {
		return nil, fmt.Errorf("%w: dsa: p and q must be greater than 1", ErrInvalidParameter)
	}
	if q.Cmp(p) >= 0 {
		return nil, fmt.Errorf("%w: dsa: q must be smaller than p", ErrInvalidParameter)
	}
	if !p.ProbablyPrime(primalityRounds) {
		return nil, fmt.Errorf("%w: dsa: p is not prime", ErrInvalidParameter)
	}
	if !q.ProbablyPrime(primalityRounds) {
		return nil, fmt.Errorf("%w: dsa: q is not prime", ErrInvalidParameter)
	}

	// q | (p - 1)
	pm1 := minusOne(p)
	if new(big.Int).Mod(pm1, q).Sign() != 0 {
		return nil, fmt.Errorf("%w: dsa: q does not divide p-1", ErrInvalidParameter)
	}

	// 1 < g < p and g^q ≡ 1 (mod p). Because q is prime, g != 1 makes the order exactly q
	if !between(g, bigOne, p) {
		return nil, fmt.Errorf("%w: dsa: g must lie in (1, p)", ErrInvalidParameter)
	}
	if new(big.Int).Exp(g, q, p).Cmp(bigOne) != 0 {
		return nil, fmt.Errorf("%w: dsa: g does not have order q", ErrInvalidParameter)
	}

	return &DsaParams{p: copyInt(p), q: copyInt(q), g: copyInt(g)}, nil
}

func (dp *DsaParams) P() *big.Int { return copyInt(dp.p) }
func (dp *DsaParams) Q() *big.Int { return copyInt(dp.q) }
func (dp *DsaParams) G() *big.Int { return copyInt(dp.g) }

// Equal reports value equality on (p, q, g)
func (dp *DsaParams) Equal(other *DsaParams) bool {
	if dp == nil || other == nil {
		return dp == other
	}
	return dp.p.Cmp(other.p) == 0 && dp.q.Cmp(other.q) == 0 && dp.g.Cmp(other.g) == 0
}

// EcParams describes an elliptic curve domain: the field, curve coefficients, base point, order and cofactor.
// The curve arithmetic itself is delegated to the wrapped elliptic.Curve
type EcParams struct {
	name     string
	curve    elliptic.Curve
	cofactor int
}

// NewEcParams checks that the curve has a usable order and field, and that its base point lies on it
func NewEcParams(name string, curve elliptic.Curve, cofactor int) (*EcParams, error) {
	if curve == nil || curve.Params() == nil {
		return nil, fmt.Errorf("%w: ec: missing curve", ErrInvalidParameter)
	}
	cp := curve.Params()
	if anyNil(cp.P, cp.N, cp.Gx, cp.Gy) {
		return nil, fmt.Errorf("%w: ec: incomplete curve parameters", ErrInvalidParameter)
	}
	if cp.P.Cmp(bigOne) <= 0 || cp.N.Cmp(bigOne) <= 0 {
		return nil, fmt.Errorf("%w: ec: field prime and order must be greater than 1", ErrInvalidParameter)
	}
	if cofactor < 1 {
		return nil, fmt.Errorf("%w: ec: cofactor must be positive", ErrInvalidParameter)
	}
	if !curve.IsOnCurve(cp.Gx, cp.Gy) {
		return nil, fmt.Errorf("%w: ec: base point is not on the curve", ErrInvalidParameter)
	}
	if name == "" {
		name = cp.Name
	}

	return &EcParams{name: name, curve: curve, cofactor: cofactor}, nil
}

func (ep *EcParams) Name() string          { return ep.name }
func (ep *EcParams) Curve() elliptic.Curve { return ep.curve }
func (ep *EcParams) Cofactor() int         { return ep.cofactor }
func (ep *EcParams) BitSize() int          { return ep.curve.Params().BitSize }

// Order returns the order of the base point
func (ep *EcParams) Order() *big.Int { return copyInt(ep.curve.Params().N) }

// IsOnCurve reports whether (x, y) is a point on the curve, the point at infinity excluded
func (ep *EcParams) IsOnCurve(x *big.Int, y *big.Int) bool {
	if x == nil || y == nil || (x.Sign() == 0 && y.Sign() == 0) {
		return false
	}
	p := ep.curve.Params().P
	if x.Sign() < 0 || y.Sign() < 0 || x.Cmp(p) >= 0 || y.Cmp(p) >= 0 {
		return false
	}
	return ep.curve.IsOnCurve(x, y)
}

// ScalarBaseMult returns s·G. s is reduced mod the order first, so negative and oversized scalars
// give the same point as their residue. A nil s, or one that reduces to 0, gives the point at infinity (0, 0)
func (ep *EcParams) ScalarBaseMult(s *big.Int) (*big.Int, *big.Int) {
	if s == nil {
		return new(big.Int), new(big.Int)
	}
	order := ep.curve.Params().N
	k := new(big.Int).Mod(s, order)
	if k.Sign() == 0 {
		return new(big.Int), new(big.Int)
	}
	return ep.curve.ScalarBaseMult(scalarBytes(k, order))
}

// Equal compares the curve definitions and cofactors. Names are not compared
func (ep *EcParams) Equal(other *EcParams) bool {
	if ep == nil || other == nil {
		return ep == other
	}
	if ep == other {
		return true
	}
	a, b := ep.curve.Params(), other.curve.Params()
	return ep.cofactor == other.cofactor &&
		a.BitSize == b.BitSize &&
		a.P.Cmp(b.P) == 0 &&
		a.N.Cmp(b.N) == 0 &&
		bigEqual(a.B, b.B) &&
		a.Gx.Cmp(b.Gx) == 0 &&
		a.Gy.Cmp(b.Gy) == 0
}

// B is nil for curves like secp256k1 that don't describe themselves as a = -3 curves
func bigEqual(a *big.Int, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

// encodes s, already in [0, order), as a big-endian byte string as wide as the curve order
func scalarBytes(s *big.Int, order *big.Int) []byte {
	return s.FillBytes(make([]byte, (order.BitLen()+7)/8))
}

// shared, lazily built parameter sets for the named curves
type namedCurve struct {
	once   sync.Once
	params *EcParams
	curve  func() elliptic.Curve
	name   string
}

func (nc *namedCurve) get() *EcParams {
	nc.once.Do(func() {
		params, err := NewEcParams(nc.name, nc.curve(), 1)
		if err != nil {
			panic(fmt.Sprintf("named curve %s failed validation: %s", nc.name, err))
		}
		nc.params = params
	})
	return nc.params
}

var (
	p224       = &namedCurve{name: "P-224", curve: elliptic.P224}
	p256       = &namedCurve{name: "P-256", curve: elliptic.P256}
	p384       = &namedCurve{name: "P-384", curve: elliptic.P384}
	p521       = &namedCurve{name: "P-521", curve: elliptic.P521}
	koblitz256 = &namedCurve{name: "secp256k1", curve: func() elliptic.Curve { return secp256k1.S256() }}
)

// P224 returns the shared parameters for NIST P-224
func P224() *EcParams { return p224.get() }

// P256 returns the shared parameters for NIST P-256
func P256() *EcParams { return p256.get() }

// P384 returns the shared parameters for NIST P-384
func P384() *EcParams { return p384.get() }

// P521 returns the shared parameters for NIST P-521
func P521() *EcParams { return p521.get() }

// Secp256k1 returns the shared parameters for the secp256k1 Koblitz curve
func Secp256k1() *EcParams { return koblitz256.get() }
