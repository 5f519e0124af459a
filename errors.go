package keymaterial

import "errors"

// Parameter and key construction errors
var (
	// ErrInvalidParameter is returned when a DsaParams or EcParams fails its defining invariant
	ErrInvalidParameter = errors.New("invalid domain parameter")

	// ErrInvalidKeyMaterial is returned when a key's fields fail a structural range or shape check
	ErrInvalidKeyMaterial = errors.New("invalid key material")
)

// Validation and operation errors
var (
	// ErrKeyConsistency is returned when CRT auxiliary fields are well formed but do not agree with d and n.
	// This normally means the provider that derived them is broken
	ErrKeyConsistency = errors.New("inconsistent key material")

	// ErrDomain is returned when an operation receives an integer outside [0, n)
	ErrDomain = errors.New("input out of range for modulus")

	// ErrUnsupportedKey is returned when an operation is handed a key variant it has no algorithm for
	ErrUnsupportedKey = errors.New("unsupported key variant")
)
