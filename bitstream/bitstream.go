// Package bitstream provides a bit-addressable cursor over a contiguous
// buffer, following the LSB pattern, where least-significant bits are
// written/read first. Values of up to 32 bits are packed into 32-bit
// little-endian words, filling each word from its least-significant bit
// upward before continuing into the next word.
//
// The cursor is a low-level primitive trusted by its caller: binding
// errors (redefining the mode or the buffer, a capacity that would
// overflow the bit-count domain) are returned as error values, while
// usage contract violations (wrong-mode access, bit counts above 32,
// seeking or advancing past capacity) panic.
package bitstream

import (
	"errors"
)

const (
	// WordWidth is the number of bits in a single storage word. Producer
	// and consumer of a packed buffer must agree on it; there is no
	// self-describing width field.
	WordWidth = 32

	// WordSize is the number of bytes in a single storage word.
	WordSize = WordWidth / 8
)

var (
	// ErrAlreadyDefined is returned when setting a mode or buffer that
	// was already set. The first assignment is left intact.
	ErrAlreadyDefined = errors.New("mode or buffer already defined")

	// ErrSizeOverflow is returned when the requested capacity, counted
	// in bits, would not fit the addressable domain.
	ErrSizeOverflow = errors.New("buffer size overflows the bit-count domain")
)

// Mode is the I/O mode of a cursor. It transitions at most once, from
// ModeUnset to one of the definite modes.
type Mode uint8

const (
	ModeUnset Mode = iota
	ModeReader
	ModeWriter
)

func (m Mode) String() string {
	switch m {
	case ModeUnset:
		return "unset"
	case ModeReader:
		return "reader"
	case ModeWriter:
		return "writer"
	default:
		return "invalid"
	}
}

// masks[n] has the low n bits set. Computed once; avoids branchy mask
// construction in the hot path.
var masks = makeMasks()

func makeMasks() [64]uint64 {
	var m [64]uint64
	for i := 1; i < len(m); i++ {
		m[i] = m[i-1]<<1 | 1
	}
	return m
}
