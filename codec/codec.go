// Package codec implements schema-driven packing of protocol fields on
// top of the bitstream cursor. A schema is an ordered list of named
// fields of 1-32 bits each; encoding packs the field values back to
// back with no padding between them.
package codec

import (
	"errors"
	"fmt"

	"github.com/packbits/bitcursor/bitstream"
	"github.com/packbits/bitcursor/shared"
)

const (
	MinFieldBits = 1
	MaxFieldBits = 32
)

// Field is a single named value of a fixed bit width.
type Field struct {
	Name string `mapstructure:"name" json:"name"`
	Bits uint   `mapstructure:"bits" json:"bits"`
}

// Schema is an ordered, validated list of fields.
type Schema struct {
	fields []Field
	index  map[string]int
	bitLen uint
}

// NewSchema validates fields and returns a schema over them.
func NewSchema(fields []Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, errors.New("schema has no fields")
	}

	s := &Schema{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	copy(s.fields, fields)

	for i, f := range s.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has an empty name", i)
		}
		if f.Bits < MinFieldBits || f.Bits > MaxFieldBits {
			return nil, fmt.Errorf("invalid width for field `%v`; expected: %d-%d bits, given: %d",
				f.Name, MinFieldBits, MaxFieldBits, f.Bits)
		}
		if _, ok := s.index[f.Name]; ok {
			return nil, fmt.Errorf("duplicate field `%v`", f.Name)
		}
		s.index[f.Name] = i
		s.bitLen += f.Bits
	}

	return s, nil
}

// Fields returns a copy of the schema's fields, in packing order.
func (s *Schema) Fields() []Field {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	return fields
}

// NumFields returns the number of fields.
func (s *Schema) NumFields() int {
	return len(s.fields)
}

// BitLen returns the packed size in bits.
func (s *Schema) BitLen() uint {
	return s.bitLen
}

// ByteLen returns the packed size in bytes, rounded up.
func (s *Schema) ByteLen() uint {
	return shared.ByteCount(s.bitLen)
}

// Offsets returns the bit offset of each field within a packed buffer,
// in packing order.
func (s *Schema) Offsets() []uint {
	offsets := make([]uint, len(s.fields))
	var off uint
	for i, f := range s.fields {
		offsets[i] = off
		off += f.Bits
	}
	return offsets
}

// Encode packs values in schema order and returns the packed bytes.
// Every field must have a value, and every value must fit its declared
// width.
func (s *Schema) Encode(values map[string]uint32) ([]byte, error) {
	w, err := bitstream.NewWriterSize(s.ByteLen())
	if err != nil {
		return nil, err
	}

	for _, f := range s.fields {
		v, ok := values[f.Name]
		if !ok {
			return nil, fmt.Errorf("missing value for field `%v`", f.Name)
		}
		if need := shared.NumBits(uint64(v)); need > f.Bits {
			return nil, fmt.Errorf("value %d needs %d bits; field `%v` holds %d", v, need, f.Name, f.Bits)
		}
		w.Write(f.Bits, v)
	}

	return w.Bytes()[:s.ByteLen()], nil
}

// Decode unpacks a buffer produced by Encode back into a value map.
func (s *Schema) Decode(data []byte) (map[string]uint32, error) {
	if have := uint(len(data)) * 8; have < s.bitLen {
		return nil, fmt.Errorf("truncated packet; expected: >= %d bits, given: %d", s.bitLen, have)
	}

	r, err := bitstream.NewReaderBytes(data)
	if err != nil {
		return nil, err
	}

	values := make(map[string]uint32, len(s.fields))
	for _, f := range s.fields {
		values[f.Name] = r.Read(f.Bits)
	}
	return values, nil
}
