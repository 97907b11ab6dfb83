package pipeline

import (
	"errors"
	"math/rand/v2"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/aerius-labs/hecc-go/codeword"
	"github.com/aerius-labs/hecc-go/internal/prf"
)

// randomMessage returns n bytes drawn from a seeded stream
func randomMessage(t *testing.T, seed string, n int) []byte {
	t.Helper()
	msg := make([]byte, n)
	_, err := prf.NewShakeStream([]byte(seed)).Read(msg)
	require.NoError(t, err)
	return msg
}

// keepPerBlock shuffles each block's shards and keeps keep(block) of them.
// The survivors of all blocks are shuffled together.
func keepPerBlock(shards []Shard, rng *rand.Rand, keep func(block uint32) int) []Shard {
	var kept []Shard
	for _, g := range GroupByBlock(shards) {
		list := append([]Shard(nil), g.Shards...)
		rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
		kept = append(kept, list[:keep(g.Block)]...)
	}
	rng.Shuffle(len(kept), func(i, j int) { kept[i], kept[j] = kept[j], kept[i] })
	return kept
}

func TestShredLayout(t *testing.T) {
	p := codeword.Params{K: 8, T: 4, N: 16}
	msg := []byte("hello pipeline")

	shards, err := Shred(p, msg, prf.NewShakeStream([]byte("layout")))
	require.NoError(t, err)

	// 4-byte header + 14 bytes = 18 bytes -> 3 blocks of 8
	require.Len(t, shards, 3*p.N)
	for i, s := range shards {
		require.Equal(t, uint32(i/p.N), s.Block)
		require.Equal(t, uint8(i%p.N+1), s.Index)
	}
}

func TestShredRecoverAllShards(t *testing.T) {
	p := codeword.Params{K: 8, T: 4, N: 16}
	msg := []byte("hello pipeline")

	shards, err := Shred(p, msg, prf.NewShakeStream([]byte("all")))
	require.NoError(t, err)

	recovered, err := Recover(p, shards)
	require.NoError(t, err)
	require.Equal(t, msg, recovered)
}

// K=16, T=6, N=32 with exactly K+T random shards per block
func TestRecoverThresholdShards(t *testing.T) {
	p := codeword.Params{K: 16, T: 6, N: 32}
	msg := randomMessage(t, "threshold", 200)

	shards, err := Shred(p, msg, prf.NewShakeStream([]byte("999")))
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(999, 1))
	kept := keepPerBlock(shards, rng, func(uint32) int { return p.Threshold() })

	recovered, err := Recover(p, kept)
	require.NoError(t, err)
	require.Equal(t, msg, recovered)
}

func TestRecoverPayloadSizes(t *testing.T) {
	p := codeword.Params{K: 5, T: 3, N: 11}
	rng := rand.New(rand.NewPCG(5, 5))

	for _, n := range []int{0, 1, 4, 5, 6, 100, 1000} {
		msg := randomMessage(t, "sizes", n)

		shards, err := Shred(p, msg, prf.NewPoseidonStream(uint64(n)))
		require.NoError(t, err)

		extra := rng.IntN(p.N - p.Threshold() + 1)
		kept := keepPerBlock(shards, rng, func(uint32) int { return p.Threshold() + extra })

		recovered, err := Recover(p, kept)
		require.NoError(t, err, "payload of %d bytes", n)
		require.Equal(t, msg, recovered, "payload of %d bytes", n)
	}
}

func TestRecoverEmptyMessage(t *testing.T) {
	p := codeword.Params{K: 2, T: 1, N: 4}

	shards, err := Shred(p, nil, prf.NewShakeStream(nil))
	require.NoError(t, err)
	require.Len(t, shards, 2*p.N)

	recovered, err := Recover(p, shards)
	require.NoError(t, err)
	require.Empty(t, recovered)
}

func TestRecoverOneBlockShort(t *testing.T) {
	p := codeword.Params{K: 16, T: 6, N: 32}
	msg := randomMessage(t, "short", 200)

	shards, err := Shred(p, msg, prf.NewShakeStream([]byte("short")))
	require.NoError(t, err)

	const victim = 3
	rng := rand.New(rand.NewPCG(2024, 0))
	kept := keepPerBlock(shards, rng, func(b uint32) int {
		if b == victim {
			return p.Threshold() - 1
		}
		return p.Threshold()
	})

	_, err = Recover(p, kept)
	require.Error(t, err)
	require.ErrorIs(t, err, codeword.ErrNotEnoughShards)

	var nes *NotEnoughShardsError
	require.ErrorAs(t, err, &nes)
	require.Equal(t, uint32(victim), nes.Block)
	require.Equal(t, p.Threshold()-1, nes.Have)
	require.Equal(t, p.Threshold(), nes.Need)
}

// The lowest deficient block is reported, whatever the input order
func TestRecoverReportsFirstShortBlock(t *testing.T) {
	p := codeword.Params{K: 4, T: 2, N: 8}
	msg := randomMessage(t, "first", 40)

	shards, err := Shred(p, msg, prf.NewShakeStream([]byte("first")))
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	kept := keepPerBlock(shards, rng, func(b uint32) int {
		if b == 2 || b == 7 {
			return 1
		}
		return p.N
	})

	_, err = Recover(p, kept)
	var nes *NotEnoughShardsError
	require.ErrorAs(t, err, &nes)
	require.Equal(t, uint32(2), nes.Block)
}

// Repeated indices count once
func TestRecoverSkipsDuplicateIndices(t *testing.T) {
	p := codeword.Params{K: 3, T: 2, N: 8}
	msg := []byte("dup")

	shards, err := Shred(p, msg, prf.NewShakeStream([]byte("dup")))
	require.NoError(t, err)

	var input []Shard
	for _, g := range GroupByBlock(shards) {
		// index 1 five times, then indices 1..4: only four distinct
		for i := 0; i < 5; i++ {
			input = append(input, g.Shards[0])
		}
		input = append(input, g.Shards[:4]...)
	}

	_, err = Recover(p, input)
	var nes *NotEnoughShardsError
	require.ErrorAs(t, err, &nes)
	require.Equal(t, uint32(0), nes.Block)
	require.Equal(t, 4, nes.Have)

	// One more distinct index per block makes it recoverable
	input = input[:0]
	for _, g := range GroupByBlock(shards) {
		input = append(input, g.Shards[0], g.Shards[0], g.Shards[0])
		input = append(input, g.Shards[:5]...)
	}
	recovered, err := Recover(p, input)
	require.NoError(t, err)
	require.Equal(t, msg, recovered)
}

// A block with fewer raw shards than K+T fails before deduplication
func TestRecoverRawCountPrecheck(t *testing.T) {
	p := codeword.Params{K: 3, T: 2, N: 8}

	shards, err := Shred(p, []byte("x"), prf.NewShakeStream([]byte("raw")))
	require.NoError(t, err)

	_, err = Recover(p, shards[:3])
	var nes *NotEnoughShardsError
	require.ErrorAs(t, err, &nes)
	require.Equal(t, 3, nes.Have)
	require.Equal(t, 5, nes.Need)
}

func TestRecoverSkipsIndexZero(t *testing.T) {
	p := codeword.Params{K: 2, T: 1, N: 5}

	shards, err := Shred(p, []byte("z"), prf.NewShakeStream([]byte("zero")))
	require.NoError(t, err)

	var input []Shard
	for _, g := range GroupByBlock(shards) {
		input = append(input, Shard{Block: g.Block, Index: 0, Value: 0xff})
		input = append(input, g.Shards[:3]...)
	}
	recovered, err := Recover(p, input)
	require.NoError(t, err)
	require.Equal(t, []byte("z"), recovered)
}

func TestRecoverNoShards(t *testing.T) {
	_, err := Recover(codeword.Params{K: 2, T: 1, N: 3}, nil)
	require.ErrorIs(t, err, ErrInvalidHeader)
}

// Shards that decode to a header claiming more bytes than present
func TestRecoverInvalidHeader(t *testing.T) {
	p := codeword.Params{K: 4, T: 1, N: 5}

	values, err := codeword.Encode([]uint8{0, 0, 0, 9}, []uint8{0x42}, p.N)
	require.NoError(t, err)

	shards := make([]Shard, len(values))
	for i, v := range values {
		shards[i] = Shard{Block: 0, Index: uint8(i + 1), Value: v}
	}

	_, err = Recover(p, shards)
	require.ErrorIs(t, err, ErrInvalidHeader)
}

func TestInvalidParams(t *testing.T) {
	bad := []codeword.Params{
		{K: 0, T: 1, N: 4},
		{K: 1, T: 0, N: 4},
		{K: 3, T: 3, N: 5},
		{K: 100, T: 100, N: 256},
	}

	for _, p := range bad {
		_, err := Shred(p, []byte("msg"), prf.NewShakeStream(nil))
		require.ErrorIs(t, err, codeword.ErrInvalidParams, "%+v", p)

		_, err = Recover(p, nil)
		require.ErrorIs(t, err, codeword.ErrInvalidParams, "%+v", p)
	}
}

func TestShredRandomnessFailure(t *testing.T) {
	p := codeword.Params{K: 4, T: 2, N: 8}
	boom := errors.New("entropy exhausted")

	_, err := Shred(p, []byte("payload"), iotest.ErrReader(boom))
	require.ErrorIs(t, err, ErrRandomness)
	require.ErrorIs(t, err, boom)
}

// Hiding bytes are drawn T at a time, one read per block
func TestShredConsumesTBytesPerBlock(t *testing.T) {
	p := codeword.Params{K: 4, T: 3, N: 8}
	msg := make([]byte, 12) // 16-byte payload, 4 blocks

	rng := &countingReader{r: prf.NewShakeStream([]byte("count"))}
	_, err := Shred(p, msg, rng)
	require.NoError(t, err)
	require.Equal(t, 4, rng.calls)
	require.Equal(t, 4*p.T, rng.total)
}

type countingReader struct {
	r     prf.Stream
	calls int
	total int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.calls++
	n, err := c.r.Read(p)
	c.total += n
	return n, err
}

// Same seed, same shards; different seed, different shards
func TestShredDeterministic(t *testing.T) {
	p := codeword.Params{K: 8, T: 4, N: 16}
	msg := []byte("determinism")

	a, err := Shred(p, msg, prf.NewShakeStream([]byte("s")))
	require.NoError(t, err)
	b, err := Shred(p, msg, prf.NewShakeStream([]byte("s")))
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := Shred(p, msg, prf.NewShakeStream([]byte("t")))
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestWorkersMatchSequential(t *testing.T) {
	p := codeword.Params{K: 16, T: 6, N: 32}
	msg := randomMessage(t, "workers", 5000)

	seq, err := Shred(p, msg, prf.NewShakeStream([]byte("w")))
	require.NoError(t, err)
	par, err := Shred(p, msg, prf.NewShakeStream([]byte("w")), WithWorkers(8))
	require.NoError(t, err)
	require.Equal(t, seq, par)

	rng := rand.New(rand.NewPCG(8, 8))
	kept := keepPerBlock(par, rng, func(uint32) int { return p.Threshold() })

	recovered, err := Recover(p, kept, WithWorkers(4))
	require.NoError(t, err)
	require.Equal(t, msg, recovered)

	recoveredSeq, err := Recover(p, kept, WithWorkers(0))
	require.NoError(t, err)
	require.Equal(t, recovered, recoveredSeq)
}

func TestGroupByBlock(t *testing.T) {
	shards := []Shard{
		{Block: 5, Index: 1},
		{Block: 0, Index: 2},
		{Block: 5, Index: 3},
		{Block: 4294967295, Index: 1},
		{Block: 0, Index: 1},
	}

	groups := GroupByBlock(shards)
	require.Len(t, groups, 3)
	require.Equal(t, uint32(0), groups[0].Block)
	require.Equal(t, uint32(5), groups[1].Block)
	require.Equal(t, uint32(4294967295), groups[2].Block)

	// input order is kept within a block
	require.Equal(t, []Shard{{Block: 0, Index: 2}, {Block: 0, Index: 1}}, groups[0].Shards)
	require.Equal(t, []Shard{{Block: 5, Index: 1}, {Block: 5, Index: 3}}, groups[1].Shards)

	require.Empty(t, GroupByBlock(nil))
}

func TestNotEnoughShardsErrorMessage(t *testing.T) {
	err := &NotEnoughShardsError{Block: 7, Have: 3, Need: 5}
	require.Equal(t, "pipeline: block 7 has 3 usable shards, need 5", err.Error())
	require.True(t, errors.Is(err, codeword.ErrNotEnoughShards))
	require.False(t, errors.Is(err, ErrInvalidHeader))
}

func BenchmarkShred(b *testing.B) {
	p := codeword.Params{K: 16, T: 6, N: 32}
	msg := make([]byte, 4096)
	rng := prf.NewShakeStream([]byte("bench"))

	b.SetBytes(int64(len(msg)))
	for i := 0; i < b.N; i++ {
		if _, err := Shred(p, msg, rng); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRecover(b *testing.B) {
	p := codeword.Params{K: 16, T: 6, N: 32}
	msg := make([]byte, 4096)
	shards, err := Shred(p, msg, prf.NewShakeStream([]byte("bench")))
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(msg)))
	for i := 0; i < b.N; i++ {
		if _, err := Recover(p, shards); err != nil {
			b.Fatal(err)
		}
	}
}
