package persistence

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/nullstyle/go-xdr/xdr3"
	"github.com/spacemeshos/sha256-simd"
	"go.uber.org/zap"

	"github.com/packbits/bitcursor/bitstream"
	"github.com/packbits/bitcursor/shared"
)

// Reader reads image records back from a file, verifying each record's
// framing and payload digest.
type Reader struct {
	f      *os.File
	r      *bufio.Reader
	logger *zap.Logger
}

func NewReader(filename string, opts ...Option) (*Reader, error) {
	s := apply(opts)
	f, err := os.OpenFile(filename, os.O_RDONLY, shared.OwnerReadWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to open file for image reader: %w", err)
	}
	return &Reader{
		f:      f,
		r:      bufio.NewReader(f),
		logger: s.logger,
	}, nil
}

// ReadImage reads the next image record. It returns io.EOF wrapped by
// xdr once the file is exhausted.
func (r *Reader) ReadImage() (*Image, error) {
	var rec record
	if _, err := xdr.Unmarshal(r.r, &rec); err != nil {
		return nil, err
	}

	path := r.f.Name()
	if rec.Magic != Magic {
		return nil, MismatchError{
			Param:    "Magic",
			Expected: fmt.Sprintf("%#x", uint32(Magic)),
			Found:    fmt.Sprintf("%#x", rec.Magic),
			Path:     path,
		}
	}
	if rec.Version != FormatVersion {
		return nil, MismatchError{
			Param:    "Version",
			Expected: fmt.Sprintf("%d", FormatVersion),
			Found:    fmt.Sprintf("%d", rec.Version),
			Path:     path,
		}
	}
	if rec.WordWidth != bitstream.WordWidth {
		return nil, MismatchError{
			Param:    "WordWidth",
			Expected: fmt.Sprintf("%d", bitstream.WordWidth),
			Found:    fmt.Sprintf("%d", rec.WordWidth),
			Path:     path,
		}
	}

	digest := sha256.Sum256(rec.Payload)
	if !bytes.Equal(digest[:], rec.Digest) {
		return nil, MismatchError{
			Param:    "Digest",
			Expected: hex.EncodeToString(rec.Digest),
			Found:    hex.EncodeToString(digest[:]),
			Path:     path,
		}
	}

	img := &Image{
		BitLen:  uint(rec.BitLen),
		Payload: rec.Payload,
	}
	if err := img.validate(); err != nil {
		return nil, err
	}

	r.logger.Debug("loaded image",
		zap.String("filename", path),
		zap.Uint("bits", img.BitLen),
		zap.Int("payload_bytes", len(img.Payload)),
	)
	return img, nil
}

func (r *Reader) Close() error {
	r.r = nil
	if err := r.f.Close(); err != nil {
		return err
	}
	r.f = nil
	return nil
}
