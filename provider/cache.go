package provider

import (
	"crypto/elliptic"
	"fmt"
	"math/big"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/bastionzero/keymaterial"
)

// ParamsCache hands out one shared, read-only parameter set per DSA family or curve.
// It is safe for concurrent use
type ParamsCache struct {
	mu  sync.RWMutex
	dsa map[string]*keymaterial.DsaParams
	ec  map[string]*keymaterial.EcParams
}

// NewParamsCache returns an empty cache
func NewParamsCache() *ParamsCache {
	return &ParamsCache{
		dsa: make(map[string]*keymaterial.DsaParams),
		ec:  make(map[string]*keymaterial.EcParams),
	}
}

var defaultCache = NewParamsCache()

// DefaultCache returns the cache used by the package-level conversion functions
func DefaultCache() *ParamsCache { return defaultCache }

// DsaParams returns the cached parameter set equal to (p, q, g), validating and caching it on first use
func (pc *ParamsCache) DsaParams(p *big.Int, q *big.Int, g *big.Int) (*keymaterial.DsaParams, error) {
	if p == nil || q == nil || g == nil {
		return nil, fmt.Errorf("%w: dsa: missing p, q or g", keymaterial.ErrInvalidParameter)
	}
	id := p.Text(16) + "/" + q.Text(16) + "/" + g.Text(16)

	pc.mu.RLock()
	params, ok := pc.dsa[id]
	pc.mu.RUnlock()
	if ok {
		return params, nil
	}

	params, err := keymaterial.NewDsaParams(p, q, g)
	if err != nil {
		return nil, err
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()
	// another goroutine may have won the race; keep the first instance so references stay shared
	if existing, ok := pc.dsa[id]; ok {
		return existing, nil
	}
	pc.dsa[id] = params
	return params, nil
}

// EcParams maps a curve to its shared parameter set. The named curves of the standard library and
// secp256k1 map to the keymaterial singletons; any other curve is validated and cached by its parameters
func (pc *ParamsCache) EcParams(curve elliptic.Curve) (*keymaterial.EcParams, error) {
	if curve == nil || curve.Params() == nil {
		return nil, fmt.Errorf("%w: ec: missing curve", keymaterial.ErrInvalidParameter)
	}

	switch curve {
	case elliptic.P224():
		return keymaterial.P224(), nil
	case elliptic.P256():
		return keymaterial.P256(), nil
	case elliptic.P384():
		return keymaterial.P384(), nil
	case elliptic.P521():
		return keymaterial.P521(), nil
	}
	if k, ok := curve.(*secp256k1.KoblitzCurve); ok && k == secp256k1.S256() {
		return keymaterial.Secp256k1(), nil
	}

	cp := curve.Params()
	if cp.P == nil || cp.N == nil || cp.Gx == nil || cp.Gy == nil {
		return nil, fmt.Errorf("%w: ec: incomplete curve parameters", keymaterial.ErrInvalidParameter)
	}
	id := fmt.Sprintf("%s/%x/%x/%x/%x", cp.Name, cp.P, cp.N, cp.Gx, cp.Gy)

	pc.mu.RLock()
	params, ok := pc.ec[id]
	pc.mu.RUnlock()
	if ok {
		return params, nil
	}

	params, err := keymaterial.NewEcParams(cp.Name, curve, 1)
	if err != nil {
		return nil, err
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()
	if existing, ok := pc.ec[id]; ok {
		return existing, nil
	}
	pc.ec[id] = params
	return params, nil
}
