package provider

import (
	"crypto"
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"math/big"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bastionzero/keymaterial"
	kmath "github.com/bastionzero/keymaterial/math"
)

var bigOne = big.NewInt(1)

// builds a crypto/rsa key over k random primes without going through rsa.GenerateMultiPrimeKey
func multiPrimeRSAKey(k int, bits int) *rsa.PrivateKey {
	e := big.NewInt(65537)
	for {
		primes := make([]*big.Int, k)
		for i := range primes {
			r, err := rand.Prime(rand.Reader, bits)
			Expect(err).To(BeNil())
			primes[i] = r
		}

		// d <- e^-1 mod λ(n), retrying when e and λ(n) share a factor or two primes collide
		d := new(big.Int).ModInverse(e, kmath.Carmichael(primes))
		if d == nil {
			continue
		}
		distinct := true
		for i := range primes {
			for j := i + 1; j < len(primes); j++ {
				if primes[i].Cmp(primes[j]) == 0 {
					distinct = false
				}
			}
		}
		if !distinct {
			continue
		}

		return &rsa.PrivateKey{
			PublicKey: rsa.PublicKey{N: kmath.Product(primes), E: 65537},
			D:         d,
			Primes:    primes,
		}
	}
}

var _ = Describe("crypto/rsa", func() {
	var priv *rsa.PrivateKey

	BeforeEach(func() {
		var err error
		priv, err = rsa.GenerateKey(rand.Reader, 2048)
		Expect(err).To(BeNil(), fmt.Sprintf("failed to generate rsa key: %s", err))
		priv.Precompute()
	})

	Context("Two-prime keys", func() {
		It("Derives the same CRT fields the standard library precomputes", func() {
			key, err := FromRSAPrivateKey(priv)
			Expect(err).To(BeNil())

			crt, ok := key.(*keymaterial.RsaPrivateCrtKey)
			Expect(ok).To(BeTrue(), fmt.Sprintf("expected a two-prime CRT key, got %T", key))

			Expect(crt.Modulus()).To(Equal(priv.N))
			Expect(crt.PrivateExponent()).To(Equal(priv.D))
			Expect(crt.PrimeP()).To(Equal(priv.Primes[0]))
			Expect(crt.PrimeQ()).To(Equal(priv.Primes[1]))
			Expect(crt.PrimeExponentP().Cmp(priv.Precomputed.Dp)).To(Equal(0), "dP mismatch")
			Expect(crt.PrimeExponentQ().Cmp(priv.Precomputed.Dq)).To(Equal(0), "dQ mismatch")
			Expect(crt.CrtCoefficient().Cmp(priv.Precomputed.Qinv)).To(Equal(0), "qInv mismatch")
			Expect(keymaterial.Validate(crt)).To(BeNil())
		})

		It("Produces the same PKCS#1 v1.5 signature as crypto/rsa", func() {
			key, err := FromRSAPrivateKey(priv)
			Expect(err).To(BeNil())

			hashed := sha256.Sum256([]byte("signed by two implementations"))
			ours, err := keymaterial.SignPKCS1v15(key, crypto.SHA256, hashed[:])
			Expect(err).To(BeNil())

			theirs, err := rsa.SignPKCS1v15(nil, priv, crypto.SHA256, hashed[:])
			Expect(err).To(BeNil())

			Expect(ours).To(Equal(theirs))
		})

		It("Converts back into a usable crypto/rsa key", func() {
			key, err := FromRSAPrivateKey(priv)
			Expect(err).To(BeNil())

			back, err := ToRSAPrivateKey(key.(keymaterial.CrtKey))
			Expect(err).To(BeNil())
			Expect(back.N).To(Equal(priv.N))
			Expect(back.E).To(Equal(priv.E))
			Expect(back.D).To(Equal(priv.D))
			Expect(back.Primes).To(Equal(priv.Primes))
			Expect(back.Validate()).To(BeNil())

			hashed := sha256.Sum256([]byte("round trip"))
			sig, err := rsa.SignPKCS1v15(nil, back, crypto.SHA256, hashed[:])
			Expect(err).To(BeNil())
			Expect(rsa.VerifyPKCS1v15(&priv.PublicKey, crypto.SHA256, hashed[:], sig)).To(BeNil())
		})
	})

	Context("Multi-prime keys", func() {
		It("Keeps the primes in the order the source lists them", func() {
			src := multiPrimeRSAKey(3, 512)

			key, err := FromRSAPrivateKey(src)
			Expect(err).To(BeNil())

			multi, ok := key.(*keymaterial.RsaMultiPrimePrivateCrtKey)
			Expect(ok).To(BeTrue(), fmt.Sprintf("expected a multi-prime CRT key, got %T", key))
			Expect(multi.Primes()).To(Equal(src.Primes))
			Expect(multi.OtherPrimeInfo()).To(HaveLen(1))
			Expect(keymaterial.Validate(multi)).To(BeNil())

			m, err := rand.Int(rand.Reader, src.N)
			Expect(err).To(BeNil())
			c, err := keymaterial.PublicExp(multi.PublicKey(), m)
			Expect(err).To(BeNil())
			recovered, err := keymaterial.CRTDecrypt(multi, c)
			Expect(err).To(BeNil())
			Expect(recovered.Cmp(m)).To(Equal(0))
		})
	})

	Context("Malformed sources", func() {
		It("Rejects a nil key", func() {
			_, err := FromRSAPrivateKey(nil)
			Expect(err).To(MatchError(keymaterial.ErrInvalidKeyMaterial))
		})

		It("Refuses to convert a nil CRT key back", func() {
			for _, key := range []keymaterial.CrtKey{nil, (*keymaterial.RsaPrivateCrtKey)(nil), (*keymaterial.RsaMultiPrimePrivateCrtKey)(nil)} {
				_, err := ToRSAPrivateKey(key)
				Expect(err).To(MatchError(keymaterial.ErrInvalidKeyMaterial), fmt.Sprintf("expected %T to be refused", key))
			}
		})

		It("Rejects primes whose product is not the modulus", func() {
			bad := *priv
			bad.N = new(big.Int).Add(priv.N, big.NewInt(2))

			_, err := FromRSAPrivateKey(&bad)
			Expect(err).To(MatchError(keymaterial.ErrInvalidKeyMaterial))
		})

		It("Rejects a single prime", func() {
			bad := *priv
			bad.Primes = priv.Primes[:1]

			_, err := FromRSAPrivateKey(&bad)
			Expect(err).To(MatchError(keymaterial.ErrInvalidKeyMaterial))
		})

		It("Falls back to a plain private key when no primes are given", func() {
			bare := *priv
			bare.Primes = nil

			key, err := FromRSAPrivateKey(&bare)
			Expect(err).To(BeNil())
			Expect(key).To(BeAssignableToTypeOf(&keymaterial.RsaPrivateKey{}))
		})
	})

	Context("Public keys", func() {
		It("Round trips", func() {
			pub, err := FromRSAPublicKey(&priv.PublicKey)
			Expect(err).To(BeNil())

			back, err := ToRSAPublicKey(pub)
			Expect(err).To(BeNil())
			Expect(back.Equal(&priv.PublicKey)).To(BeTrue())
		})

		It("Refuses an exponent crypto/rsa cannot hold", func() {
			e := new(big.Int).Lsh(bigOne, 80)
			e.Add(e, bigOne)
			pub, err := keymaterial.NewRsaPublicKey(priv.N, e)
			Expect(err).To(BeNil())

			_, err = ToRSAPublicKey(pub)
			Expect(err).To(MatchError(keymaterial.ErrUnsupportedKey))
		})
	})
})

var _ = Describe("crypto/dsa", Ordered, func() {
	var params dsa.Parameters

	BeforeAll(func() {
		err := dsa.GenerateParameters(&params, rand.Reader, dsa.L1024N160)
		Expect(err).To(BeNil(), fmt.Sprintf("failed to generate dsa parameters: %s", err))
	})

	newKey := func() *dsa.PrivateKey {
		priv := &dsa.PrivateKey{PublicKey: dsa.PublicKey{Parameters: params}}
		Expect(dsa.GenerateKey(priv, rand.Reader)).To(BeNil())
		return priv
	}

	It("Converts both halves of a key", func() {
		priv := newKey()

		key, pub, err := FromDSAPrivateKey(priv)
		Expect(err).To(BeNil())
		Expect(key.X()).To(Equal(priv.X))
		Expect(pub.Y()).To(Equal(priv.Y))
		Expect(key.Params().P()).To(Equal(params.P))
		Expect(keymaterial.ValidateAll(key, pub)).To(BeNil())
	})

	It("Shares one parameter set between keys of the same family", func() {
		cache := NewParamsCache()

		first, _, err := cache.FromDSAPrivateKey(newKey())
		Expect(err).To(BeNil())
		second, err := cache.FromDSAPublicKey(&newKey().PublicKey)
		Expect(err).To(BeNil())

		Expect(first.Params()).To(BeIdenticalTo(second.Params()))
	})

	It("Rejects a public value that does not match x", func() {
		priv := newKey()
		tampered := *priv
		tampered.Y = new(big.Int).Mod(new(big.Int).Mul(priv.Y, params.G), params.P)

		_, _, err := FromDSAPrivateKey(&tampered)
		Expect(err).To(MatchError(keymaterial.ErrKeyConsistency))
	})

	It("Rejects broken parameters", func() {
		broken := dsa.PublicKey{Parameters: params, Y: big.NewInt(2)}
		broken.Q = new(big.Int).Add(params.Q, big.NewInt(2))

		_, err := FromDSAPublicKey(&broken)
		Expect(err).To(MatchError(keymaterial.ErrInvalidParameter))
	})

	It("Hands out one instance to concurrent callers", func() {
		cache := NewParamsCache()
		results := make([]*keymaterial.DsaParams, 16)

		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()

				p, err := cache.DsaParams(params.P, params.Q, params.G)
				Expect(err).To(BeNil())
				results[i] = p
			}(i)
		}
		wg.Wait()

		for _, p := range results {
			Expect(p).To(BeIdenticalTo(results[0]))
		}
	})
})

var _ = Describe("crypto/ecdsa", func() {
	DescribeTable("Maps the standard curves onto the shared parameter sets",
		func(curve elliptic.Curve, expected *keymaterial.EcParams) {
			priv, err := ecdsa.GenerateKey(curve, rand.Reader)
			Expect(err).To(BeNil())

			key, pub, err := FromECDSAPrivateKey(priv)
			Expect(err).To(BeNil())
			Expect(key.Params()).To(BeIdenticalTo(expected))
			Expect(pub.Params()).To(BeIdenticalTo(expected))
			Expect(key.S()).To(Equal(priv.D))

			x, y := pub.W()
			Expect(x).To(Equal(priv.X))
			Expect(y).To(Equal(priv.Y))
			Expect(keymaterial.ValidateAll(key, pub)).To(BeNil())
		},
		Entry("P-224", elliptic.P224(), keymaterial.P224()),
		Entry("P-256", elliptic.P256(), keymaterial.P256()),
		Entry("P-384", elliptic.P384(), keymaterial.P384()),
		Entry("P-521", elliptic.P521(), keymaterial.P521()),
	)

	It("Caches curves it does not know by name", func() {
		cache := NewParamsCache()
		generic := elliptic.P256().Params()

		first, err := cache.EcParams(generic)
		Expect(err).To(BeNil())
		second, err := cache.EcParams(generic)
		Expect(err).To(BeNil())

		Expect(first).To(BeIdenticalTo(second))
		Expect(first).NotTo(BeIdenticalTo(keymaterial.P256()))
		Expect(first.Equal(keymaterial.P256())).To(BeTrue())
	})

	It("Rejects a private scalar that does not match the public point", func() {
		priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		Expect(err).To(BeNil())

		tampered := &ecdsa.PrivateKey{PublicKey: priv.PublicKey, D: new(big.Int).Add(priv.D, bigOne)}
		_, _, err = FromECDSAPrivateKey(tampered)
		Expect(err).To(MatchError(keymaterial.ErrKeyConsistency))
	})

	It("Rejects a point off the curve", func() {
		priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		Expect(err).To(BeNil())

		off := priv.PublicKey
		off.Y = new(big.Int).Add(priv.Y, bigOne)
		_, err = FromECDSAPublicKey(&off)
		Expect(err).To(MatchError(keymaterial.ErrInvalidKeyMaterial))
	})
})
