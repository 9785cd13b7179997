package codec

import (
	"errors"
	"fmt"

	"github.com/packbits/bitcursor/bitstream"
)

// Count-prefixed framing built atop single-value cursor operations,
// for payloads wider than a single 32-bit field.

// A uvarint of 10 groups already covers 64 bits.
const maxUvarintBytes = 10

var ErrVarintOverflow = errors.New("varint overflows 64 bits")

// PutUvarint writes v as a base-128 varint, 8 bits per group,
// least-significant group first.
func PutUvarint(c *bitstream.Cursor, v uint64) {
	for v >= 0x80 {
		c.Write(8, uint32(v)&0x7F|0x80)
		v >>= 7
	}
	c.Write(8, uint32(v))
}

// TakeUvarint reads a varint written by PutUvarint. Malformed input
// (overlong encoding, or running out of buffer mid-varint) is a data
// error, not a contract violation, and is returned as such.
func TakeUvarint(c *bitstream.Cursor) (uint64, error) {
	var v uint64
	var shift uint
	for i := 0; i < maxUvarintBytes; i++ {
		if c.Size()-c.Position() < 8 {
			return 0, errors.New("truncated varint")
		}
		b := c.Read(8)
		if b < 0x80 {
			if i == maxUvarintBytes-1 && b > 1 {
				return 0, ErrVarintOverflow
			}
			return v | uint64(b)<<shift, nil
		}
		v |= uint64(b&0x7F) << shift
		shift += 7
	}
	return 0, ErrVarintOverflow
}

// PutBytes writes data prefixed with its varint byte count.
func PutBytes(c *bitstream.Cursor, data []byte) {
	PutUvarint(c, uint64(len(data)))
	c.WriteBytes(data)
}

// TakeBytes reads a payload written by PutBytes.
func TakeBytes(c *bitstream.Cursor) ([]byte, error) {
	n, err := TakeUvarint(c)
	if err != nil {
		return nil, err
	}
	if remaining := uint64(c.Size() - c.Position()); n > remaining/8 {
		return nil, fmt.Errorf("declared payload of %d bytes exceeds the remaining %d bits", n, remaining)
	}
	dst := make([]byte, n)
	c.ReadBytes(dst)
	return dst, nil
}

// PutString writes s prefixed with its varint byte count.
func PutString(c *bitstream.Cursor, s string) {
	PutBytes(c, []byte(s))
}

// TakeString reads a string written by PutString.
func TakeString(c *bitstream.Cursor) (string, error) {
	data, err := TakeBytes(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
