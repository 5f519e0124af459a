package keymaterial

import (
	"fmt"
	"math/big"
)

// Family identifies which algebraic key family a key belongs to
type Family int

const (
	FamilyDSA Family = iota + 1
	FamilyRSA
	FamilyEC
)

// String returns the family name
func (f Family) String() string {
	switch f {
	case FamilyDSA:
		return "DSA"
	case FamilyRSA:
		return "RSA"
	case FamilyEC:
		return "EC"
	default:
		return "Unknown"
	}
}

// Key is the closed set of key variants:
//
//	*DsaPublicKey, *DsaPrivateKey,
//	*RsaPublicKey, *RsaPrivateKey, *RsaPrivateCrtKey, *RsaMultiPrimePrivateCrtKey,
//	*EcPublicKey, *EcPrivateKey,
//	*OpaqueKey
//
// Callers switch on the concrete type to choose an algorithm. No type outside this package can
// implement Key
type Key interface {
	// Family returns the key family
	Family() Family

	// IsPrivate reports whether the key holds private material
	IsPrivate() bool

	sealed()
}

// DsaKey is any key carrying DSA domain parameters
type DsaKey interface {
	Key
	Params() *DsaParams
}

// RsaKey is any key carrying an RSA modulus
type RsaKey interface {
	Key
	Modulus() *big.Int
}

// EcKey is any key carrying EC domain parameters
type EcKey interface {
	Key
	Params() *EcParams
}

// An OpaqueKey stands in for key material a provider does not expose, such as an HSM or PKCS#11 object.
// Only its family and visibility are known to this package
type OpaqueKey struct {
	family  Family
	private bool
	handle  any
}

// NewOpaqueKey wraps a provider handle
func NewOpaqueKey(family Family, private bool, handle any) (*OpaqueKey, error) {
	switch family {
	case FamilyDSA, FamilyRSA, FamilyEC:
	default:
		return nil, fmt.Errorf("%w: unknown key family %d", ErrInvalidKeyMaterial, family)
	}
	return &OpaqueKey{family: family, private: private, handle: handle}, nil
}

func (k *OpaqueKey) Family() Family  { return k.family }
func (k *OpaqueKey) IsPrivate() bool { return k.private }
func (k *OpaqueKey) sealed()         {}

// Handle returns the provider's handle, unchanged
func (k *OpaqueKey) Handle() any { return k.handle }

func (k *OpaqueKey) String() string {
	return fmt.Sprintf("opaque %s key (private: %t)", k.family, k.private)
}

// describes private keys without printing any of their fields
func describePrivate(family Family, kind string, bits int) string {
	return fmt.Sprintf("%s %s (%d bits)", family, kind, bits)
}
