package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumBits(t *testing.T) {
	req := require.New(t)

	req.Equal(uint(0), NumBits(0))
	req.Equal(uint(1), NumBits(1))
	req.Equal(uint(2), NumBits(2))
	req.Equal(uint(2), NumBits(3))
	req.Equal(uint(20), NumBits(1000000))
	req.Equal(uint(32), NumBits(1<<32-1))
	req.Equal(uint(64), NumBits(1<<64-1))
}

func TestByteCount(t *testing.T) {
	req := require.New(t)

	req.Equal(uint(0), ByteCount(0))
	req.Equal(uint(1), ByteCount(1))
	req.Equal(uint(1), ByteCount(8))
	req.Equal(uint(2), ByteCount(9))
	req.Equal(uint(8), ByteCount(64))
}
