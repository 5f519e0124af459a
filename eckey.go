package keymaterial

import (
	"fmt"
	"math/big"
)

// An EcPublicKey is a point w on the curve, other than the point at infinity
type EcPublicKey struct {
	params *EcParams
	x, y   *big.Int
}

// NewEcPublicKey checks that (x, y) is a finite point on the curve described by params
func NewEcPublicKey(params *EcParams, x *big.Int, y *big.Int) (*EcPublicKey, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: ec: missing domain parameters", ErrInvalidKeyMaterial)
	}
	if x == nil || y == nil {
		return nil, fmt.Errorf("%w: ec: missing point coordinates", ErrInvalidKeyMaterial)
	}
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, fmt.Errorf("%w: ec: w is the point at infinity", ErrInvalidKeyMaterial)
	}
	if !params.IsOnCurve(x, y) {
		return nil, fmt.Errorf("%w: ec: w is not on curve %s", ErrInvalidKeyMaterial, params.name)
	}
	return &EcPublicKey{params: params, x: copyInt(x), y: copyInt(y)}, nil
}

func (k *EcPublicKey) Family() Family    { return FamilyEC }
func (k *EcPublicKey) IsPrivate() bool   { return false }
func (k *EcPublicKey) sealed()           {}
func (k *EcPublicKey) Params() *EcParams { return k.params }

// W returns the affine coordinates of the public point
func (k *EcPublicKey) W() (*big.Int, *big.Int) { return copyInt(k.x), copyInt(k.y) }

// Equal reports whether both keys are the same point on equal curves
func (k *EcPublicKey) Equal(other *EcPublicKey) bool {
	return other != nil && k.params.Equal(other.params) && k.x.Cmp(other.x) == 0 && k.y.Cmp(other.y) == 0
}

func (k *EcPublicKey) String() string {
	return fmt.Sprintf("%s public key (%s)", FamilyEC, k.params.name)
}

// An EcPrivateKey holds the secret scalar s, 0 < s < order
type EcPrivateKey struct {
	params *EcParams
	s      *big.Int
}

// NewEcPrivateKey checks that 0 < s < order(params)
func NewEcPrivateKey(params *EcParams, s *big.Int) (*EcPrivateKey, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: ec: missing domain parameters", ErrInvalidKeyMaterial)
	}
	if s == nil || !positiveBelow(s, params.curve.Params().N) {
		return nil, fmt.Errorf("%w: ec: s must lie in [1, order-1]", ErrInvalidKeyMaterial)
	}
	return &EcPrivateKey{params: params, s: copyInt(s)}, nil
}

func (k *EcPrivateKey) Family() Family    { return FamilyEC }
func (k *EcPrivateKey) IsPrivate() bool   { return true }
func (k *EcPrivateKey) sealed()           {}
func (k *EcPrivateKey) Params() *EcParams { return k.params }
func (k *EcPrivateKey) S() *big.Int       { return copyInt(k.s) }

// PublicKey derives the matching public point w = s·G
func (k *EcPrivateKey) PublicKey() *EcPublicKey {
	x, y := k.params.ScalarBaseMult(k.s)
	return &EcPublicKey{params: k.params, x: x, y: y}
}

func (k *EcPrivateKey) String() string {
	return describePrivate(FamilyEC, "private key", k.params.BitSize())
}
