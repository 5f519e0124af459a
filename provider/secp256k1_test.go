package provider

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bastionzero/keymaterial"
)

var _ = Describe("secp256k1", func() {
	var priv *secp256k1.PrivateKey

	BeforeEach(func() {
		var err error
		priv, err = secp256k1.GeneratePrivateKey()
		Expect(err).To(BeNil())
	})

	It("Converts both halves onto the shared curve", func() {
		key, pub, err := FromSecp256k1PrivateKey(priv)
		Expect(err).To(BeNil())
		Expect(key.Params()).To(BeIdenticalTo(keymaterial.Secp256k1()))
		Expect(key.PublicKey().Equal(pub)).To(BeTrue())
		Expect(keymaterial.ValidateAll(key, pub)).To(BeNil())
	})

	It("Converts back to decred keys", func() {
		key, pub, err := FromSecp256k1PrivateKey(priv)
		Expect(err).To(BeNil())

		backPriv, err := ToSecp256k1PrivateKey(key)
		Expect(err).To(BeNil())
		Expect(backPriv.Serialize()).To(Equal(priv.Serialize()))

		backPub, err := ToSecp256k1PublicKey(pub)
		Expect(err).To(BeNil())
		Expect(backPub.IsEqual(priv.PubKey())).To(BeTrue())
	})

	It("Parses compressed and uncompressed encodings to the same key", func() {
		compressed, err := ParseSecp256k1PublicKey(priv.PubKey().SerializeCompressed())
		Expect(err).To(BeNil())
		uncompressed, err := ParseSecp256k1PublicKey(priv.PubKey().SerializeUncompressed())
		Expect(err).To(BeNil())

		Expect(compressed.Equal(uncompressed)).To(BeTrue())
		Expect(compressed.Params()).To(BeIdenticalTo(keymaterial.Secp256k1()))
	})

	It("Rejects garbage encodings", func() {
		_, err := ParseSecp256k1PublicKey([]byte{0x02, 0x01})
		Expect(err).To(MatchError(keymaterial.ErrInvalidKeyMaterial))
	})

	It("Refuses keys on other curves", func() {
		other, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		Expect(err).To(BeNil())
		key, pub, err := FromECDSAPrivateKey(other)
		Expect(err).To(BeNil())

		_, err = ToSecp256k1PrivateKey(key)
		Expect(err).To(MatchError(keymaterial.ErrUnsupportedKey))
		_, err = ToSecp256k1PublicKey(pub)
		Expect(err).To(MatchError(keymaterial.ErrUnsupportedKey))
	})
})
