// Package provider adapts concrete key sources into keymaterial variants: the Go standard library's
// crypto/rsa, crypto/dsa and crypto/ecdsa keys, and secp256k1 keys from github.com/decred/dcrd/dcrec/secp256k1/v4.
//
// RSA private keys arrive with their primes, so the CRT fields are always derived here rather than copied
// from whatever precomputed values the source carries. Domain parameters are deduplicated through a
// [ParamsCache], so that every key of one DSA family or one curve shares a single parameter set.
package provider
