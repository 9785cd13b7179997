package codec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/packbits/bitcursor/codec"
)

var packetFields = []codec.Field{
	{Name: "kind", Bits: 3},
	{Name: "flags", Bits: 7},
	{Name: "ack", Bits: 1},
	{Name: "sequence", Bits: 32},
	{Name: "channel", Bits: 5},
}

func TestNewSchemaValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields []codec.Field
		errMsg string
	}{
		{
			name:   "empty",
			fields: nil,
			errMsg: "schema has no fields",
		},
		{
			name:   "empty name",
			fields: []codec.Field{{Name: "", Bits: 4}},
			errMsg: "empty name",
		},
		{
			name:   "zero width",
			fields: []codec.Field{{Name: "a", Bits: 0}},
			errMsg: "invalid width for field `a`",
		},
		{
			name:   "too wide",
			fields: []codec.Field{{Name: "a", Bits: 33}},
			errMsg: "invalid width for field `a`",
		},
		{
			name:   "duplicate",
			fields: []codec.Field{{Name: "a", Bits: 4}, {Name: "a", Bits: 8}},
			errMsg: "duplicate field `a`",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.NewSchema(tc.fields)
			require.ErrorContains(t, err, tc.errMsg)
		})
	}
}

func TestSchemaLayout(t *testing.T) {
	req := require.New(t)

	s, err := codec.NewSchema(packetFields)
	req.NoError(err)
	req.Equal(5, s.NumFields())
	req.Equal(uint(48), s.BitLen())
	req.Equal(uint(6), s.ByteLen())
	req.Equal([]uint{0, 3, 10, 11, 43}, s.Offsets())
	req.Equal(packetFields, s.Fields())
}

func TestSchemaRoundTrip(t *testing.T) {
	req := require.New(t)

	s, err := codec.NewSchema(packetFields)
	req.NoError(err)

	values := map[string]uint32{
		"kind":     5,
		"flags":    99,
		"ack":      1,
		"sequence": 0xDEADBEEF,
		"channel":  21,
	}

	data, err := s.Encode(values)
	req.NoError(err)
	req.Len(data, int(s.ByteLen()))

	decoded, err := s.Decode(data)
	req.NoError(err)
	req.Equal(values, decoded)
}

func TestEncodeErrors(t *testing.T) {
	req := require.New(t)

	s, err := codec.NewSchema(packetFields)
	req.NoError(err)

	_, err = s.Encode(map[string]uint32{"kind": 1})
	req.ErrorContains(err, "missing value for field `flags`")

	values := map[string]uint32{
		"kind":     9, // does not fit in 3 bits
		"flags":    0,
		"ack":      0,
		"sequence": 0,
		"channel":  0,
	}
	_, err = s.Encode(values)
	req.ErrorContains(err, "value 9 needs 4 bits; field `kind` holds 3")
}

func TestDecodeTruncated(t *testing.T) {
	req := require.New(t)

	s, err := codec.NewSchema(packetFields)
	req.NoError(err)

	_, err = s.Decode(make([]byte, int(s.ByteLen())-1))
	req.ErrorContains(err, "truncated packet")
}
