package persistence

import (
	"bufio"
	"fmt"
	"os"

	"github.com/nullstyle/go-xdr/xdr3"
	"github.com/spacemeshos/sha256-simd"
	"go.uber.org/zap"

	"github.com/packbits/bitcursor/bitstream"
	"github.com/packbits/bitcursor/shared"
)

// OwnerReadWriteExec is a standard owner read / write / exec file permission.
const OwnerReadWriteExec = 0700

// Writer appends image records to a file.
type Writer struct {
	f      *os.File
	w      *bufio.Writer
	logger *zap.Logger
}

type Option func(*settings)

type settings struct {
	logger *zap.Logger
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func apply(opts []Option) *settings {
	s := &settings{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewWriter(filename string, opts ...Option) (*Writer, error) {
	s := apply(opts)
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, shared.OwnerReadWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to open file for image writer: %w", err)
	}
	return &Writer{
		f:      f,
		w:      bufio.NewWriter(f),
		logger: s.logger,
	}, nil
}

// WriteImage appends one image record.
func (w *Writer) WriteImage(img *Image) error {
	if err := img.validate(); err != nil {
		return err
	}

	digest := sha256.Sum256(img.Payload)
	rec := record{
		Magic:     Magic,
		Version:   FormatVersion,
		WordWidth: bitstream.WordWidth,
		BitLen:    uint32(img.BitLen),
		Digest:    digest[:],
		Payload:   img.Payload,
	}
	if _, err := xdr.Marshal(w.w, &rec); err != nil {
		return fmt.Errorf("serialization failure: %w", err)
	}

	w.logger.Debug("persisted image",
		zap.String("filename", w.f.Name()),
		zap.Uint("bits", img.BitLen),
		zap.Int("payload_bytes", len(img.Payload)),
	)
	return nil
}

func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush disk writer: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	w.w = nil

	if err := w.f.Close(); err != nil {
		return err
	}
	w.f = nil
	return nil
}
