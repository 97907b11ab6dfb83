package prf

import (
	"golang.org/x/crypto/sha3"
)

// Domain separator for the SHAKE stream
var shakeDomainSep = []byte{
	0x68, 0x65, 0x63, 0x63, 0x2d, 0x73, 0x68, 0x61,
	0x6b, 0x65, 0x31, 0x32, 0x38, 0x00, 0x01, 0xff,
}

// ShakeStream squeezes SHAKE128(domain_sep || seed) as a byte stream
type ShakeStream struct {
	xof sha3.ShakeHash
}

// NewShakeStream creates a stream keyed by seed
func NewShakeStream(seed []byte) *ShakeStream {
	xof := sha3.NewShake128()
	xof.Write(shakeDomainSep)
	xof.Write(seed)
	return &ShakeStream{xof: xof}
}

// Read fills p with the next bytes of the stream
func (s *ShakeStream) Read(p []byte) (int, error) {
	return s.xof.Read(p)
}
