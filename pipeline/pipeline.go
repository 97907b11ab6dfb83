package pipeline

import (
	"fmt"
	"io"

	"github.com/aerius-labs/hecc-go/codeword"
	"github.com/aerius-labs/hecc-go/internal/framing"
)

// Shred frames msg and encodes every K-byte block into N shards.
//
// T hiding bytes per block are read from rng, one block at a time in block
// order, so a deterministic rng gives the same shards for any worker count.
// Shards are returned grouped by block, each block's shards in index order.
func Shred(p codeword.Params, msg []byte, rng io.Reader, opts ...Option) ([]Shard, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)

	payload, err := framing.Frame(msg)
	if err != nil {
		return nil, err
	}
	blocks := framing.SplitBlocks(payload, p.K)

	hiding := make([][]byte, len(blocks))
	for i := range blocks {
		r := make([]byte, p.T)
		if _, err := io.ReadFull(rng, r); err != nil {
			return nil, fmt.Errorf("%w: block %d: %w", ErrRandomness, uint32(i), err)
		}
		hiding[i] = r
	}

	shards := make([]Shard, len(blocks)*p.N)
	err = cfg.forEach(len(blocks), func(i int) error {
		values, err := codeword.Encode(blocks[i], hiding[i], p.N)
		if err != nil {
			return err
		}
		out := shards[i*p.N : (i+1)*p.N]
		for j, v := range values {
			out[j] = Shard{
				Block: uint32(i),
				Index: uint8(j + 1),
				Value: v,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shards, nil
}

// Recover reassembles the message from shards.
//
// Blocks are processed in ascending block order. Within a block, shards are
// taken in the order supplied, skipping repeated indices, until K+T are
// collected. The first block short of K+T fails the whole call with a
// *NotEnoughShardsError.
func Recover(p codeword.Params, shards []Shard, opts ...Option) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	need := p.Threshold()

	groups := GroupByBlock(shards)
	points := make([][]codeword.Point, len(groups))
	for i, g := range groups {
		pts, err := gather(g, need)
		if err != nil {
			return nil, err
		}
		points[i] = pts
	}

	decoded := make([][]byte, len(groups))
	err := cfg.forEach(len(groups), func(i int) error {
		m, _, err := codeword.Decode(points[i], p.K, p.T)
		if err != nil {
			return fmt.Errorf("pipeline: block %d: %w", groups[i].Block, err)
		}
		decoded[i] = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, len(groups)*p.K)
	for _, m := range decoded {
		payload = append(payload, m...)
	}
	return framing.Unframe(payload)
}

// gather picks the first need shards with distinct indices from a block
func gather(g Group, need int) ([]codeword.Point, error) {
	if len(g.Shards) < need {
		return nil, &NotEnoughShardsError{Block: g.Block, Have: len(g.Shards), Need: need}
	}

	var seen [256]bool
	pts := make([]codeword.Point, 0, need)
	for _, s := range g.Shards {
		if s.Index == 0 || seen[s.Index] {
			continue
		}
		seen[s.Index] = true
		pts = append(pts, codeword.Point{Value: s.Value, Index: int(s.Index)})
		if len(pts) == need {
			break
		}
	}

	if len(pts) < need {
		return nil, &NotEnoughShardsError{Block: g.Block, Have: len(pts), Need: need}
	}
	return pts, nil
}
