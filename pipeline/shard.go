// Package pipeline shreds byte payloads into hiding erasure-coded shards and
// recovers them.
//
// A message is prefixed with its 4-byte big-endian length, split into K-byte
// blocks (the last one zero-padded) and each block is encoded together with T
// fresh random bytes into N shards. Any K+T distinct shards of every block
// recover the message; fewer than K+T shards of a block reveal nothing about
// that block's bytes.
package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aerius-labs/hecc-go/codeword"
	"github.com/aerius-labs/hecc-go/internal/framing"
)

var (
	// ErrInvalidHeader indicates the recovered payload is shorter than its header declares
	ErrInvalidHeader = framing.ErrInvalidHeader

	// ErrLengthOverflow indicates a message too long for the 32-bit header
	ErrLengthOverflow = framing.ErrLengthOverflow

	// ErrRandomness indicates the randomness source failed to fill a hiding vector
	ErrRandomness = errors.New("pipeline: randomness source failed")
)

// Shard is one evaluation of one block's polynomial
type Shard struct {
	Block uint32 // block number, wraps after 2^32-1
	Index uint8  // evaluation point, 1..N
	Value uint8
}

// NotEnoughShardsError reports the first block without K+T usable shards
type NotEnoughShardsError struct {
	Block uint32
	Have  int
	Need  int
}

func (e *NotEnoughShardsError) Error() string {
	return fmt.Sprintf("pipeline: block %d has %d usable shards, need %d", e.Block, e.Have, e.Need)
}

// Is makes errors.Is(err, codeword.ErrNotEnoughShards) hold
func (e *NotEnoughShardsError) Is(target error) bool {
	return target == codeword.ErrNotEnoughShards
}

// Group holds the shards of a single block in the order they were supplied
type Group struct {
	Block  uint32
	Shards []Shard
}

// GroupByBlock buckets shards by block number, sorted ascending by block
func GroupByBlock(shards []Shard) []Group {
	byBlock := make(map[uint32][]Shard)
	for _, s := range shards {
		byBlock[s.Block] = append(byBlock[s.Block], s)
	}

	blocks := make([]uint32, 0, len(byBlock))
	for b := range byBlock {
		blocks = append(blocks, b)
	}
	slices.Sort(blocks)

	groups := make([]Group, len(blocks))
	for i, b := range blocks {
		groups[i] = Group{Block: b, Shards: byBlock[b]}
	}
	return groups
}
