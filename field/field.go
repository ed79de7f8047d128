// Package field implements residue arithmetic over a fixed prime modulus.
//
// Every value handled by the access-control contract lives in Z/pZ for a
// prime p shared with the off-ledger vector producers. The modulus is an
// explicit property of a Field value, never package state, so alternate
// moduli can be injected (tests use small primes). All operations are pure:
// they allocate fresh big.Ints and never mutate their arguments, which keeps
// results bit-identical across replicas.
package field

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/fentec-project/bn256"
)

// Field performs arithmetic modulo a fixed prime p.
type Field struct {
	p *big.Int
}

// DefaultModulus returns the order of the bn256 pairing groups, the scalar
// field the predicate-encryption scheme operates over. Policy and comparison
// vectors produced off-ledger are residues of this field.
func DefaultModulus() *big.Int {
	return new(big.Int).Set(bn256.Order)
}

// New returns a Field over the given modulus. The modulus must be > 1;
// primality is the caller's responsibility (the contract injects a known
// group order).
func New(p *big.Int) (*Field, error) {
	if p == nil || p.Cmp(big.NewInt(2)) < 0 {
		return nil, fmt.Errorf("field modulus must be an integer > 1")
	}
	return &Field{p: new(big.Int).Set(p)}, nil
}

// Default returns a Field over DefaultModulus.
func Default() *Field {
	f, _ := New(DefaultModulus())
	return f
}

// Modulus returns a copy of the field modulus.
func (f *Field) Modulus() *big.Int { return new(big.Int).Set(f.p) }

// Normalize maps any integer to its canonical representative in [0, p).
// Negative inputs map to their positive residue (big.Int.Mod is Euclidean).
func (f *Field) Normalize(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, f.p)
}

// Add returns (a + b) mod p.
func (f *Field) Add(a, b *big.Int) *big.Int {
	z := new(big.Int).Add(a, b)
	return z.Mod(z, f.p)
}

// Mul returns (a * b) mod p.
func (f *Field) Mul(a, b *big.Int) *big.Int {
	z := new(big.Int).Mul(a, b)
	return z.Mod(z, f.p)
}

// MulAdd returns (acc + a*b) mod p without mutating acc.
func (f *Field) MulAdd(acc, a, b *big.Int) *big.Int {
	z := new(big.Int).Mul(a, b)
	z.Add(z, acc)
	return z.Mod(z, f.p)
}

// InnerProduct returns sum_i a[i]*b[i] mod p. Elements are normalized before
// use, so callers may pass raw integers. The vectors must have equal length;
// the caller owns the dimension check error taxonomy, so the mismatch here
// is a plain error to wrap.
func (f *Field) InnerProduct(a, b []*big.Int) (*big.Int, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("inner product over %d and %d elements", len(a), len(b))
	}
	acc := new(big.Int)
	for i := range a {
		acc = f.MulAdd(acc, f.Normalize(a[i]), f.Normalize(b[i]))
	}
	return acc, nil
}

// ParseElement parses a decimal-string-encoded integer of arbitrary
// precision. Negative values are accepted; callers normalize. Decimal
// strings are the only numeric wire format the contract accepts, so values
// near (or beyond) the modulus never lose precision in a native integer.
func ParseElement(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	z, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("bad decimal integer: %q", s)
	}
	return z, nil
}

// ParseVector parses a slice of decimal strings into big.Ints.
func ParseVector(ss []string) ([]*big.Int, error) {
	out := make([]*big.Int, len(ss))
	for i, s := range ss {
		z, err := ParseElement(s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = z
	}
	return out, nil
}

// FormatVector renders residues as decimal strings, the canonical stored and
// returned form.
func FormatVector(xs []*big.Int) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = x.Text(10)
	}
	return out
}
