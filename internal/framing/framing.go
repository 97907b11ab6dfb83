// Package framing handles the length-prefixed payload that is split into blocks
package framing

import (
	"encoding/binary"
	"errors"
	"math"
)

// HeaderLen is the size of the big-endian length prefix
const HeaderLen = 4

var (
	// ErrLengthOverflow indicates a message longer than 2^32-1 bytes
	ErrLengthOverflow = errors.New("framing: message length overflows 32-bit header")

	// ErrInvalidHeader indicates a payload too short for its declared length
	ErrInvalidHeader = errors.New("framing: invalid length header")
)

// CheckLength reports whether n bytes fit the 32-bit length header
func CheckLength(n int) error {
	if uint64(n) > math.MaxUint32 {
		return ErrLengthOverflow
	}
	return nil
}

// Frame returns a new buffer holding len(msg) (4 bytes BE) followed by msg
func Frame(msg []byte) ([]byte, error) {
	if err := CheckLength(len(msg)); err != nil {
		return nil, err
	}
	payload := make([]byte, 0, HeaderLen+len(msg))
	payload = binary.BigEndian.AppendUint32(payload, uint32(len(msg)))
	payload = append(payload, msg...)
	return payload, nil
}

// NumBlocks returns how many blocks of size k the framed form of an
// msgLen-byte message occupies
func NumBlocks(msgLen, k int) int {
	return (HeaderLen + msgLen + k - 1) / k
}

// SplitBlocks cuts payload into blocks of exactly k bytes.
// The last block is zero-padded on the right. Each block is a fresh copy.
func SplitBlocks(payload []byte, k int) [][]byte {
	if k <= 0 {
		return nil
	}
	blocks := make([][]byte, 0, (len(payload)+k-1)/k)
	for offset := 0; offset < len(payload); offset += k {
		end := min(offset+k, len(payload))
		block := make([]byte, k)
		copy(block, payload[offset:end])
		blocks = append(blocks, block)
	}
	return blocks
}

// Unframe reads the length header and returns a copy of exactly that many
// following bytes. Trailing padding is dropped.
func Unframe(payload []byte) ([]byte, error) {
	if len(payload) < HeaderLen {
		return nil, ErrInvalidHeader
	}
	n := uint64(binary.BigEndian.Uint32(payload[:HeaderLen]))
	if uint64(len(payload)) < HeaderLen+n {
		return nil, ErrInvalidHeader
	}
	msg := make([]byte, n)
	copy(msg, payload[HeaderLen:HeaderLen+n])
	return msg, nil
}
