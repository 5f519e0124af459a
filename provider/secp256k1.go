package provider

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/bastionzero/keymaterial"
)

// FromSecp256k1PrivateKey converts a decred secp256k1 key into its private and public halves
func FromSecp256k1PrivateKey(priv *secp256k1.PrivateKey) (*keymaterial.EcPrivateKey, *keymaterial.EcPublicKey, error) {
	if priv == nil {
		return nil, nil, fmt.Errorf("%w: secp256k1: nil private key", keymaterial.ErrInvalidKeyMaterial)
	}
	return FromECDSAPrivateKey(priv.ToECDSA())
}

// FromSecp256k1PublicKey converts a decred secp256k1 public key
func FromSecp256k1PublicKey(pub *secp256k1.PublicKey) (*keymaterial.EcPublicKey, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: secp256k1: nil public key", keymaterial.ErrInvalidKeyMaterial)
	}
	return FromECDSAPublicKey(pub.ToECDSA())
}

// ParseSecp256k1PublicKey parses a 33-byte compressed or 65-byte uncompressed SEC 1 encoding
func ParseSecp256k1PublicKey(serialized []byte) (*keymaterial.EcPublicKey, error) {
	pub, err := secp256k1.ParsePubKey(serialized)
	if err != nil {
		return nil, fmt.Errorf("%w: secp256k1: %s", keymaterial.ErrInvalidKeyMaterial, err)
	}
	return FromSecp256k1PublicKey(pub)
}

// ToSecp256k1PublicKey converts an EC public key on secp256k1 into a decred public key
func ToSecp256k1PublicKey(pub *keymaterial.EcPublicKey) (*secp256k1.PublicKey, error) {
	if pub == nil || !pub.Params().Equal(keymaterial.Secp256k1()) {
		return nil, fmt.Errorf("%w: secp256k1: key is not on secp256k1", keymaterial.ErrUnsupportedKey)
	}

	// 0x04 || X || Y
	x, y := pub.W()
	uncompressed := make([]byte, secp256k1.PubKeyBytesLenUncompressed)
	uncompressed[0] = secp256k1.PubKeyFormatUncompressed
	x.FillBytes(uncompressed[1:33])
	y.FillBytes(uncompressed[33:])

	return secp256k1.ParsePubKey(uncompressed)
}

// ToSecp256k1PrivateKey converts an EC private key on secp256k1 into a decred private key
func ToSecp256k1PrivateKey(priv *keymaterial.EcPrivateKey) (*secp256k1.PrivateKey, error) {
	if priv == nil || !priv.Params().Equal(keymaterial.Secp256k1()) {
		return nil, fmt.Errorf("%w: secp256k1: key is not on secp256k1", keymaterial.ErrUnsupportedKey)
	}
	return secp256k1.PrivKeyFromBytes(priv.S().FillBytes(make([]byte, secp256k1.PrivKeyBytesLen))), nil
}
