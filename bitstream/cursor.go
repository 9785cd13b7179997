package bitstream

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Cursor is a read/write bit-addressable view over a word buffer. It
// tracks a monotonically advancing bit position and packs or unpacks
// values of up to 32 bits at that position.
//
// A cursor is bound to exactly one buffer and one mode for its whole
// life. The buffer is either owned (allocated or copied by the cursor,
// dropped on Reset) or borrowed (the caller keeps ownership and must
// keep it alive). A cursor must not be shared between goroutines
// without external locking.
type Cursor struct {
	buf     []byte // whole little-endian words; len is a multiple of WordSize
	owned   bool
	capBits uint
	pos     uint
	mode    Mode
	err     error
}

// New constructs an empty cursor. SetBuffer and SetMode must both be
// called before any read or write.
func New() *Cursor {
	return new(Cursor)
}

// NewCursor constructs a cursor borrowing buf, whose length must be a
// multiple of WordSize. The caller retains ownership of buf and must
// keep it alive for the life of the cursor. Passing ModeUnset defaults
// the cursor to ModeReader.
func NewCursor(buf []byte, mode Mode) (*Cursor, error) {
	if len(buf)%WordSize != 0 {
		panic(fmt.Sprintf("bitstream: buffer length %d is not a multiple of the word size", len(buf)))
	}
	if !verifySize(uint(len(buf))) {
		return nil, ErrSizeOverflow
	}
	if mode == ModeUnset {
		mode = ModeReader
	}
	return &Cursor{
		buf:     buf,
		capBits: uint(len(buf)) * 8,
		mode:    mode,
	}, nil
}

// NewReaderBytes constructs a reading cursor over an owned copy of
// data. The copy is rounded up to whole words with one spare word of
// slack, so multi-bit reads near the end of the data stay in bounds.
func NewReaderBytes(data []byte) (*Cursor, error) {
	words := (uint(len(data))+WordSize-1)/WordSize + 1
	if !verifySize(words * WordSize) {
		return nil, ErrSizeOverflow
	}
	buf := make([]byte, words*WordSize)
	copy(buf, data)
	return &Cursor{
		buf:     buf,
		owned:   true,
		capBits: words * WordWidth,
		mode:    ModeReader,
	}, nil
}

// NewWriterSize constructs a writing cursor over a fresh owned zeroed
// buffer of at least sizeBytes bytes, rounded up to whole words. The
// capacity is validated before anything is allocated.
func NewWriterSize(sizeBytes uint) (*Cursor, error) {
	if !verifySize(sizeBytes) {
		return nil, ErrSizeOverflow
	}
	words := (sizeBytes + WordSize - 1) / WordSize
	return &Cursor{
		buf:     make([]byte, words*WordSize),
		owned:   true,
		capBits: words * WordWidth,
		mode:    ModeWriter,
	}, nil
}

// verifySize reports whether a buffer of sizeBytes bytes has a bit
// count whose successor still fits the uint32 addressable domain.
func verifySize(sizeBytes uint) bool {
	return uint64(sizeBytes)*8+1 <= math.MaxUint32
}

// Valid reports whether the cursor can be used: no sticky error and a
// definite mode. Callers must check it before reading or writing.
func (c *Cursor) Valid() bool {
	return c.err == nil && c.mode != ModeUnset
}

// Err returns the sticky binding error, if any.
func (c *Cursor) Err() error {
	return c.err
}

// Mode returns the cursor's I/O mode.
func (c *Cursor) Mode() Mode {
	return c.mode
}

// IsReader reports whether the cursor is read only.
func (c *Cursor) IsReader() bool {
	return c.mode == ModeReader
}

// IsWriter reports whether the cursor is write only.
func (c *Cursor) IsWriter() bool {
	return c.mode == ModeWriter
}

// Size returns the capacity in bits.
func (c *Cursor) Size() uint {
	return c.capBits
}

// SizeBytes returns the capacity in bytes.
func (c *Cursor) SizeBytes() uint {
	return c.capBits / 8
}

// Position returns the current bit position.
func (c *Cursor) Position() uint {
	return c.pos
}

// Bytes returns the underlying storage. The slice aliases the cursor's
// buffer; it is not a copy.
func (c *Cursor) Bytes() []byte {
	return c.buf
}

// SetMode sets the I/O mode, one-shot. Setting a mode on a cursor that
// already has one returns ErrAlreadyDefined, records it stickily and
// leaves the existing mode untouched.
func (c *Cursor) SetMode(mode Mode) error {
	if mode == ModeUnset {
		panic("bitstream: mode must be ModeReader or ModeWriter")
	}
	if c.mode != ModeUnset {
		c.err = ErrAlreadyDefined
		return ErrAlreadyDefined
	}
	c.mode = mode
	return nil
}

// SetBuffer binds the cursor to a borrowed buffer, one-shot. buf's
// length must be a multiple of WordSize. Binding a buffer to a cursor
// that already has one returns ErrAlreadyDefined, records it stickily
// and leaves the existing buffer bound.
func (c *Cursor) SetBuffer(buf []byte) error {
	if len(buf)%WordSize != 0 {
		panic(fmt.Sprintf("bitstream: buffer length %d is not a multiple of the word size", len(buf)))
	}
	if c.buf != nil {
		c.err = ErrAlreadyDefined
		return ErrAlreadyDefined
	}
	if !verifySize(uint(len(buf))) {
		c.err = ErrSizeOverflow
		return ErrSizeOverflow
	}
	c.buf = buf
	c.owned = false
	c.capBits = uint(len(buf)) * 8
	c.pos = 0
	return nil
}

// Seek moves the cursor to an absolute bit position. position must be
// below the capacity; violating that is a contract violation and
// panics.
func (c *Cursor) Seek(position uint) {
	if position >= c.capBits {
		panic(fmt.Sprintf("bitstream: seek to bit %d out of range (capacity %d bits)", position, c.capBits))
	}
	c.pos = position
}

// Reset returns the cursor to its just-constructed empty state,
// dropping any owned buffer.
func (c *Cursor) Reset() {
	*c = Cursor{}
}

// Write packs the low bits of value at the current position and
// advances the cursor. bits must be at most 32 and the cursor must be
// a valid writer. The capacity is not checked here; callers must not
// advance past it (an actual buffer overrun panics on the word
// access).
func (c *Cursor) Write(bits uint, value uint32) {
	c.assertIO(ModeWriter, bits)
	if bits == 0 {
		return
	}

	start := c.pos / WordWidth
	end := (c.pos + bits - 1) / WordWidth
	shift := c.pos % WordWidth

	if start == end {
		// Clear everything above the cursor within the word, then merge.
		c.setWord(start, c.word(start)&uint32(masks[shift])|value<<shift)
	} else {
		// The range straddles two adjacent words: the low WordWidth-shift
		// bits of value fill the high end of the start word, the rest
		// lands at the low end of the end word.
		low := WordWidth - shift
		rem := bits - low
		c.setWord(start, c.word(start)&uint32(masks[shift])|(value&uint32(masks[low]))<<shift)
		c.setWord(end, c.word(end)&^uint32(masks[rem])|(value>>low)&uint32(masks[rem]))
	}

	c.pos += bits
}

// Read unpacks bits bits at the current position, advances the cursor
// and returns the value. bits must be at most 32 and the cursor must
// be a valid reader. As with Write, the capacity is not checked here.
func (c *Cursor) Read(bits uint) uint32 {
	c.assertIO(ModeReader, bits)
	if bits == 0 {
		return 0
	}

	start := c.pos / WordWidth
	end := (c.pos + bits - 1) / WordWidth
	shift := c.pos % WordWidth

	var value uint32
	if start == end {
		value = c.word(start) >> shift & uint32(masks[bits])
	} else {
		value = (c.word(start)>>shift | c.word(end)<<(WordWidth-shift)) & uint32(masks[bits])
	}

	c.pos += bits
	return value
}

func (c *Cursor) assertIO(mode Mode, bits uint) {
	if c.err != nil {
		panic(fmt.Sprintf("bitstream: cursor has a sticky error: %v", c.err))
	}
	if c.mode != mode {
		panic(fmt.Sprintf("bitstream: %v operation on a %v cursor", mode, c.mode))
	}
	if bits > 32 {
		panic(fmt.Sprintf("bitstream: bit count %d out of range [0,32]", bits))
	}
}

func (c *Cursor) word(i uint) uint32 {
	return binary.LittleEndian.Uint32(c.buf[i*WordSize:])
}

func (c *Cursor) setWord(i uint, w uint32) {
	binary.LittleEndian.PutUint32(c.buf[i*WordSize:], w)
}
