/*
Package keymaterial defines the in-memory shape of asymmetric key material (DSA, RSA and EC keys) and the
algebra that has to hold between a key's fields for it to be usable

# Overview

Providers (software keystores, hardware tokens, PKCS#11 modules) produce keys; signature and cipher engines
consume them. This package sits in between. Each key variant is an immutable value whose constructor runs the
cheap structural checks, so that a key which exists is at least well formed:

	params, err := keymaterial.NewDsaParams(p, q, g)
	pub, err := keymaterial.NewDsaPublicKey(params, y)

The set of variants is closed: [Key] can only be one of the types declared here, and callers pick an algorithm
with a type switch. [OpaqueKey] is the one escape hatch, for material a provider keeps to itself.

# RSA private keys and the CRT

An RSA private key comes in three shapes. [RsaPrivateKey] only knows (n, d) and every private operation is a
full-width exponentiation c^d mod n. [RsaPrivateCrtKey] also carries p, q, dP = d mod (p-1), dQ = d mod (q-1) and
qInv = q^-1 mod p, which lets [CRTDecrypt] replace the full-width exponentiation with two half-width ones and
recombine the results. [RsaMultiPrimePrivateCrtKey] generalizes this to any number of primes, folding each
additional prime into the result with Garner's algorithm:

	key, err := keymaterial.DeriveRsaMultiPrimePrivateCrtKey(e, d, []*big.Int{p, q, r})
	m, err := keymaterial.CRTDecrypt(key, c) // == c^d mod n

The additional primes are recombined strictly in the order the key lists them. Each one's coefficient is the
inverse of the product of all the primes before it, so reordering the primes without recomputing the
coefficients produces wrong results for most, but not all, inputs.

# Structural vs. consistency checks

Constructors check ranges and shapes only: 0 < x < q, p * q == n, 0 < dP < p-1, and so on. Failures wrap
[ErrInvalidKeyMaterial] (or [ErrInvalidParameter] for domain parameters) and never include field values.

[Validate] goes further and recomputes what a provider should have derived: dP and dQ from d, qInv and the
multi-prime coefficients from the primes, and checks e * d ≡ 1 (mod λ(n)). Every mismatch is reported, each
wrapping [ErrKeyConsistency]. A consistency failure almost always means the provider that built the key is broken.

# Concurrency

Nothing in this package is mutated after construction. Accessors hand out copies, and keys and parameter sets
may be shared freely between goroutines.

# Sources

	[1] RFC 8017, PKCS #1: RSA Cryptography Specifications Version 2.2, §3.2 and §5.1.2
	[2] FIPS 186-4, Digital Signature Standard, §4.1
*/
package keymaterial
