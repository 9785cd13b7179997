// Package persistence stores packed bit buffers as image files: an
// xdr-marshaled record carrying the buffer's word width, bit length and
// payload digest, so a consumer can verify it received what the
// producer packed.
package persistence

import (
	"fmt"

	"github.com/packbits/bitcursor/bitstream"
)

const (
	// Magic identifies an image record.
	Magic = 0x50424954 // "PBIT"

	// FormatVersion is bumped on incompatible record layout changes.
	FormatVersion = 1
)

// Image is a packed bit buffer together with its meaningful length in
// bits. The payload may carry trailing padding up to a whole word.
type Image struct {
	BitLen  uint
	Payload []byte
}

// record is the on-disk layout. xdr prefixes the byte fields with
// their lengths, so records are self-delimiting and can be streamed
// back to back in one file.
type record struct {
	Magic     uint32
	Version   uint32
	WordWidth uint32
	BitLen    uint32
	Digest    []byte
	Payload   []byte
}

// MismatchError reports a stored value that disagrees with what this
// build expects.
type MismatchError struct {
	Param    string
	Expected string
	Found    string
	Path     string
}

func (err MismatchError) Error() string {
	return fmt.Sprintf("`%v` mismatch; expected: %v, found: %v, path: %v",
		err.Param, err.Expected, err.Found, err.Path)
}

func (img *Image) validate() error {
	if max := uint(len(img.Payload)) * 8; img.BitLen > max {
		return fmt.Errorf("invalid `BitLen`; expected: <= %d, given: %d", max, img.BitLen)
	}
	return nil
}

// Cursor returns a reading cursor over an owned copy of the image
// payload.
func (img *Image) Cursor() (*bitstream.Cursor, error) {
	return bitstream.NewReaderBytes(img.Payload)
}
