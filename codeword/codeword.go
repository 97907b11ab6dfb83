// Package codeword implements the hiding erasure code over GF(2^8).
//
// A message vector m of K elements and a hiding vector r of T elements are the
// coefficients of a polynomial of degree K+T-1 (constant term first). The
// polynomial is evaluated at the nonzero points 1..N. Any K+T evaluations at
// distinct points recover both m and r by Lagrange interpolation.
package codeword

import (
	"errors"

	"github.com/aerius-labs/hecc-go/field"
)

// MaxShards bounds N: evaluation points are drawn from the nonzero field elements
const MaxShards = field.Order

var (
	// ErrInvalidParams indicates K=0, T=0, N < K+T or N > 255
	ErrInvalidParams = errors.New("codeword: invalid parameters")

	// ErrNotEnoughShards indicates fewer than K+T usable shards
	ErrNotEnoughShards = errors.New("codeword: not enough shards")

	// ErrInvalidShardIndex indicates a shard point of 0 or above 255
	ErrInvalidShardIndex = errors.New("codeword: invalid shard index")

	// ErrDuplicateIndex indicates the same point was supplied twice
	ErrDuplicateIndex = errors.New("codeword: duplicate shard index")
)

// Params holds the symbol counts of the code
type Params struct {
	K int // message symbols per block
	T int // hiding symbols per block
	N int // shards per block
}

// Validate checks K >= 1, T >= 1, K+T <= N <= 255
func (p Params) Validate() error {
	if p.K <= 0 || p.T <= 0 || p.N < p.K+p.T || p.N > MaxShards {
		return ErrInvalidParams
	}
	return nil
}

// Threshold returns K+T, the number of shards needed to decode
func (p Params) Threshold() int {
	return p.K + p.T
}

// Point is one evaluation of the polynomial: Value at x = Index.
// Index is an int so that out-of-range points reach Decode and are reported
// as ErrInvalidShardIndex instead of wrapping.
type Point struct {
	Value uint8
	Index int
}

// Encode evaluates the polynomial with coefficients m || r at x = 1..n.
// Output slot i holds the evaluation at point i+1.
func Encode(m, r []uint8, n int) ([]uint8, error) {
	k, t := len(m), len(r)
	if k == 0 || t == 0 || n < k+t || n > MaxShards {
		return nil, ErrInvalidParams
	}

	gf := field.Default()
	coeffs := make([]uint8, 0, k+t)
	coeffs = append(coeffs, m...)
	coeffs = append(coeffs, r...)

	out := make([]uint8, n)
	for i := 0; i < n; i++ {
		out[i] = evalPoly(gf, coeffs, uint8(i+1))
	}
	return out, nil
}

// EncodeBlock encodes one block under p, requiring len(m) == K and len(r) == T
func EncodeBlock(p Params, m, r []uint8) ([]uint8, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(m) != p.K || len(r) != p.T {
		return nil, ErrInvalidParams
	}
	return Encode(m, r, p.N)
}

// Decode recovers the K message and T hiding coefficients from shards.
//
// Shards are scanned in the given order and accepted until K+T have been
// collected; entries past that point are not inspected at all, so trailing
// duplicates or bad indices are ignored.
func Decode(shards []Point, k, t int) (m, r []uint8, err error) {
	if k <= 0 || t <= 0 {
		return nil, nil, ErrInvalidParams
	}
	need := k + t
	if len(shards) < need {
		return nil, nil, ErrNotEnoughShards
	}

	var seen [field.Size]bool
	xs := make([]uint8, 0, need)
	ys := make([]uint8, 0, need)
	for _, s := range shards {
		if s.Index <= 0 || s.Index > MaxShards {
			return nil, nil, ErrInvalidShardIndex
		}
		if seen[s.Index] {
			return nil, nil, ErrDuplicateIndex
		}
		seen[s.Index] = true
		xs = append(xs, uint8(s.Index))
		ys = append(ys, s.Value)
		if len(xs) == need {
			break
		}
	}
	if len(xs) < need {
		return nil, nil, ErrNotEnoughShards
	}

	coeffs := interpolate(field.Default(), xs, ys, need)
	m = make([]uint8, k)
	r = make([]uint8, t)
	copy(m, coeffs[:k])
	copy(r, coeffs[k:need])
	return m, r, nil
}
