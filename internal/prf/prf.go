// Package prf provides seeded pseudorandom byte streams.
//
// The streams are deterministic for a given seed and are meant to drive the
// hiding randomness in tests and reproducible runs. They are not safe for
// concurrent use.
package prf

import (
	"io"
)

// SeedLen is the length of seeds produced by NewSeed
const SeedLen = 32

// Stream is an infinite byte source. Read always fills p and returns nil.
type Stream interface {
	io.Reader
}

// NewSeed reads a fresh seed from rng
func NewSeed(rng io.Reader) ([]byte, error) {
	seed := make([]byte, SeedLen)
	if _, err := io.ReadFull(rng, seed); err != nil {
		return nil, err
	}
	return seed, nil
}
