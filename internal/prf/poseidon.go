package prf

import (
	"github.com/consensys/gnark-crypto/field/babybear"
	"github.com/consensys/gnark-crypto/field/babybear/poseidon2"
)

const (
	poseidonWidth = 16
	// Rate elements are squeezed; the rest is capacity
	poseidonRate = 8
	// Low bytes taken from each canonical 31-bit element
	bytesPerElement = 3
)

// PoseidonStream squeezes bytes from the width-16 Poseidon2 permutation over
// BabyBear (8 external rounds, 13 internal rounds, as in Plonky3)
type PoseidonStream struct {
	perm  *poseidon2.Permutation
	state []babybear.Element
	buf   []byte
}

// NewPoseidonStream creates a stream whose initial state encodes seed
func NewPoseidonStream(seed uint64) *PoseidonStream {
	state := make([]babybear.Element, poseidonWidth)
	state[0].SetUint64(seed & 0xffffff)
	state[1].SetUint64((seed >> 24) & 0xffffff)
	state[2].SetUint64(seed >> 48)
	// Domain tag in the last capacity element
	state[poseidonWidth-1].SetUint64(0x68656363)

	return &PoseidonStream{
		perm:  poseidon2.NewPermutation(poseidonWidth, 8, 13),
		state: state,
	}
}

// Read fills p with the next bytes of the stream
func (s *PoseidonStream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.buf) == 0 {
			s.squeeze()
		}
		c := copy(p[n:], s.buf)
		s.buf = s.buf[c:]
		n += c
	}
	return n, nil
}

// squeeze permutes the state and refills buf from the rate part
func (s *PoseidonStream) squeeze() {
	if err := s.perm.Permutation(s.state); err != nil {
		panic("permutation failed: " + err.Error())
	}
	buf := make([]byte, 0, poseidonRate*bytesPerElement)
	for i := 0; i < poseidonRate; i++ {
		b := s.state[i].Bytes()
		buf = append(buf, b[len(b)-bytesPerElement:]...)
	}
	s.buf = buf
}
