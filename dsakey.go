package keymaterial

import (
	"fmt"
	"math/big"
)

// A DsaPublicKey is y = g^x mod p for some private x
type DsaPublicKey struct {
	params *DsaParams
	y      *big.Int
}

// NewDsaPublicKey checks that 0 < y < p. Whether y really is g^x for a valid x can't be checked from the public key alone
func NewDsaPublicKey(params *DsaParams, y *big.Int) (*DsaPublicKey, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: dsa: missing domain parameters", ErrInvalidKeyMaterial)
	}
	if y == nil || !positiveBelow(y, params.p) {
		return nil, fmt.Errorf("%w: dsa: y must lie in [1, p-1]", ErrInvalidKeyMaterial)
	}
	return &DsaPublicKey{params: params, y: copyInt(y)}, nil
}

func (k *DsaPublicKey) Family() Family     { return FamilyDSA }
func (k *DsaPublicKey) IsPrivate() bool    { return false }
func (k *DsaPublicKey) sealed()            {}
func (k *DsaPublicKey) Params() *DsaParams { return k.params }
func (k *DsaPublicKey) Y() *big.Int        { return copyInt(k.y) }

func (k *DsaPublicKey) String() string {
	return fmt.Sprintf("%s public key (%d bits)", FamilyDSA, k.params.p.BitLen())
}

// A DsaPrivateKey holds the secret exponent x, 0 < x < q
type DsaPrivateKey struct {
	params *DsaParams
	x      *big.Int
}

// NewDsaPrivateKey checks that 0 < x < q
func NewDsaPrivateKey(params *DsaParams, x *big.Int) (*DsaPrivateKey, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: dsa: missing domain parameters", ErrInvalidKeyMaterial)
	}
	if x == nil || !positiveBelow(x, params.q) {
		return nil, fmt.Errorf("%w: dsa: x must lie in [1, q-1]", ErrInvalidKeyMaterial)
	}
	return &DsaPrivateKey{params: params, x: copyInt(x)}, nil
}

func (k *DsaPrivateKey) Family() Family     { return FamilyDSA }
func (k *DsaPrivateKey) IsPrivate() bool    { return true }
func (k *DsaPrivateKey) sealed()            {}
func (k *DsaPrivateKey) Params() *DsaParams { return k.params }
func (k *DsaPrivateKey) X() *big.Int        { return copyInt(k.x) }

// PublicKey derives the matching public key y = g^x mod p
func (k *DsaPrivateKey) PublicKey() *DsaPublicKey {
	y := new(big.Int).Exp(k.params.g, k.x, k.params.p)
	return &DsaPublicKey{params: k.params, y: y}
}

func (k *DsaPrivateKey) String() string {
	return describePrivate(FamilyDSA, "private key", k.params.p.BitLen())
}
