package provider

import (
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/bastionzero/keymaterial"
	kmath "github.com/bastionzero/keymaterial/math"
)

// FromRSAPrivateKey converts a crypto/rsa key. Two-prime keys become *keymaterial.RsaPrivateCrtKey,
// keys with more primes become *keymaterial.RsaMultiPrimePrivateCrtKey with the primes in the order priv lists them,
// and a key with no primes becomes a plain *keymaterial.RsaPrivateKey
func FromRSAPrivateKey(priv *rsa.PrivateKey) (keymaterial.RsaPrivate, error) {
	if priv == nil || priv.N == nil || priv.D == nil {
		return nil, fmt.Errorf("%w: rsa: nil private key", keymaterial.ErrInvalidKeyMaterial)
	}

	if len(priv.Primes) == 0 {
		key, err := keymaterial.NewRsaPrivateKey(priv.N, priv.D)
		if err != nil {
			return nil, err
		}
		return key, nil
	}
	if len(priv.Primes) == 1 {
		return nil, fmt.Errorf("%w: rsa: a single prime is not a factorization", keymaterial.ErrInvalidKeyMaterial)
	}

	// the CRT keys take n to be the product of their primes, so make sure that is the n we were given
	if kmath.Product(priv.Primes).Cmp(priv.N) != 0 {
		return nil, fmt.Errorf("%w: rsa: product of primes != modulus", keymaterial.ErrInvalidKeyMaterial)
	}

	e := big.NewInt(int64(priv.E))
	if len(priv.Primes) == 2 {
		key, err := keymaterial.DeriveRsaPrivateCrtKey(e, priv.D, priv.Primes[0], priv.Primes[1])
		if err != nil {
			return nil, err
		}
		return key, nil
	}

	key, err := keymaterial.DeriveRsaMultiPrimePrivateCrtKey(e, priv.D, priv.Primes)
	if err != nil {
		return nil, err
	}
	return key, nil
}

// ToRSAPrivateKey converts a CRT key back into a crypto/rsa key, for handing to engines built on the standard library
func ToRSAPrivateKey(key keymaterial.CrtKey) (*rsa.PrivateKey, error) {
	switch k := key.(type) {
	case nil:
		return nil, fmt.Errorf("%w: rsa: nil CRT key", keymaterial.ErrInvalidKeyMaterial)
	case *keymaterial.RsaPrivateCrtKey:
		if k == nil {
			return nil, fmt.Errorf("%w: rsa: nil CRT key", keymaterial.ErrInvalidKeyMaterial)
		}
	case *keymaterial.RsaMultiPrimePrivateCrtKey:
		if k == nil {
			return nil, fmt.Errorf("%w: rsa: nil CRT key", keymaterial.ErrInvalidKeyMaterial)
		}
	}

	pub, err := ToRSAPublicKey(key.PublicKey())
	if err != nil {
		return nil, err
	}

	primes := []*big.Int{key.PrimeP(), key.PrimeQ()}
	if multi, ok := key.(*keymaterial.RsaMultiPrimePrivateCrtKey); ok {
		primes = multi.Primes()
	}

	priv := &rsa.PrivateKey{
		PublicKey: *pub,
		D:         key.PrivateExponent(),
		Primes:    primes,
	}
	priv.Precompute()
	return priv, nil
}

// FromRSAPublicKey converts a crypto/rsa public key
func FromRSAPublicKey(pub *rsa.PublicKey) (*keymaterial.RsaPublicKey, error) {
	if pub == nil || pub.N == nil {
		return nil, fmt.Errorf("%w: rsa: nil public key", keymaterial.ErrInvalidKeyMaterial)
	}
	return keymaterial.NewRsaPublicKey(pub.N, big.NewInt(int64(pub.E)))
}

// ToRSAPublicKey converts back to a crypto/rsa public key. It fails if e does not fit in an int
func ToRSAPublicKey(pub *keymaterial.RsaPublicKey) (*rsa.PublicKey, error) {
	e := pub.PublicExponent()
	if !e.IsInt64() || e.Int64() > int64(maxInt) {
		return nil, fmt.Errorf("%w: rsa: public exponent too large for crypto/rsa", keymaterial.ErrUnsupportedKey)
	}
	return &rsa.PublicKey{N: pub.Modulus(), E: int(e.Int64())}, nil
}

const maxInt = int(^uint(0) >> 1)

// FromDSAPrivateKey converts a crypto/dsa key using the default cache. See [ParamsCache.FromDSAPrivateKey]
func FromDSAPrivateKey(priv *dsa.PrivateKey) (*keymaterial.DsaPrivateKey, *keymaterial.DsaPublicKey, error) {
	return defaultCache.FromDSAPrivateKey(priv)
}

// FromDSAPrivateKey converts a crypto/dsa key into its private and public halves.
// The source's Y must equal g^X mod p, otherwise the result wraps ErrKeyConsistency
func (pc *ParamsCache) FromDSAPrivateKey(priv *dsa.PrivateKey) (*keymaterial.DsaPrivateKey, *keymaterial.DsaPublicKey, error) {
	if priv == nil {
		return nil, nil, fmt.Errorf("%w: dsa: nil private key", keymaterial.ErrInvalidKeyMaterial)
	}
	pub, err := pc.FromDSAPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, nil, err
	}

	key, err := keymaterial.NewDsaPrivateKey(pub.Params(), priv.X)
	if err != nil {
		return nil, nil, err
	}
	if key.PublicKey().Y().Cmp(pub.Y()) != 0 {
		return nil, nil, fmt.Errorf("%w: dsa: y != g^x mod p", keymaterial.ErrKeyConsistency)
	}
	return key, pub, nil
}

// FromDSAPublicKey converts a crypto/dsa public key using the default cache
func FromDSAPublicKey(pub *dsa.PublicKey) (*keymaterial.DsaPublicKey, error) {
	return defaultCache.FromDSAPublicKey(pub)
}

// FromDSAPublicKey converts a crypto/dsa public key
func (pc *ParamsCache) FromDSAPublicKey(pub *dsa.PublicKey) (*keymaterial.DsaPublicKey, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: dsa: nil public key", keymaterial.ErrInvalidKeyMaterial)
	}
	params, err := pc.DsaParams(pub.P, pub.Q, pub.G)
	if err != nil {
		return nil, err
	}
	return keymaterial.NewDsaPublicKey(params, pub.Y)
}

// FromECDSAPrivateKey converts a crypto/ecdsa key using the default cache
func FromECDSAPrivateKey(priv *ecdsa.PrivateKey) (*keymaterial.EcPrivateKey, *keymaterial.EcPublicKey, error) {
	return defaultCache.FromECDSAPrivateKey(priv)
}

// FromECDSAPrivateKey converts a crypto/ecdsa key into its private and public halves.
// The source's public point must equal s·G, otherwise the result wraps ErrKeyConsistency
func (pc *ParamsCache) FromECDSAPrivateKey(priv *ecdsa.PrivateKey) (*keymaterial.EcPrivateKey, *keymaterial.EcPublicKey, error) {
	if priv == nil {
		return nil, nil, fmt.Errorf("%w: ec: nil private key", keymaterial.ErrInvalidKeyMaterial)
	}
	pub, err := pc.FromECDSAPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, nil, err
	}

	key, err := keymaterial.NewEcPrivateKey(pub.Params(), priv.D)
	if err != nil {
		return nil, nil, err
	}
	if !key.PublicKey().Equal(pub) {
		return nil, nil, fmt.Errorf("%w: ec: w != s·G", keymaterial.ErrKeyConsistency)
	}
	return key, pub, nil
}

// FromECDSAPublicKey converts a crypto/ecdsa public key using the default cache
func FromECDSAPublicKey(pub *ecdsa.PublicKey) (*keymaterial.EcPublicKey, error) {
	return defaultCache.FromECDSAPublicKey(pub)
}

// FromECDSAPublicKey converts a crypto/ecdsa public key
func (pc *ParamsCache) FromECDSAPublicKey(pub *ecdsa.PublicKey) (*keymaterial.EcPublicKey, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: ec: nil public key", keymaterial.ErrInvalidKeyMaterial)
	}
	params, err := pc.EcParams(pub.Curve)
	if err != nil {
		return nil, err
	}
	return keymaterial.NewEcPublicKey(params, pub.X, pub.Y)
}
