// Package shared contains small helpers used across the module's
// packages.
package shared

import (
	"math/bits"
)

// NumBits returns the number of bits required to represent v;
// 0 for v == 0.
func NumBits(v uint64) uint {
	return uint(bits.Len64(v))
}

// ByteCount returns the number of bytes needed to hold the given bit
// count.
func ByteCount(numBits uint) uint {
	return (numBits + 7) / 8
}

// OwnerReadWrite is the file mode for files the tooling persists.
const OwnerReadWrite = 0o600
