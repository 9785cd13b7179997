package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/packbits/bitcursor/bitstream"
)

func packedImage(t *testing.T) *Image {
	t.Helper()

	w, err := bitstream.NewWriterSize(8)
	require.NoError(t, err)
	w.Write(5, 20)
	w.Write(20, 1000000)

	return &Image{
		BitLen:  w.Position(),
		Payload: w.Bytes(),
	}
}

func TestSaveLoad(t *testing.T) {
	req := require.New(t)

	img := packedImage(t)
	path := filepath.Join(t.TempDir(), "images", "packet.pbit")

	req.NoError(Save(path, img, WithLogger(zaptest.NewLogger(t))))

	loaded, err := Load(path, WithLogger(zaptest.NewLogger(t)))
	req.NoError(err)
	req.Equal(img.BitLen, loaded.BitLen)
	req.Equal(img.Payload, loaded.Payload)

	r, err := loaded.Cursor()
	req.NoError(err)
	req.Equal(uint32(20), r.Read(5))
	req.Equal(uint32(1000000), r.Read(20))
}

func TestWriterReaderStream(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "stream.pbit")

	w, err := NewWriter(path)
	req.NoError(err)
	first := packedImage(t)
	second := &Image{BitLen: 16, Payload: []byte{0xAB, 0xCD}}
	req.NoError(w.WriteImage(first))
	req.NoError(w.WriteImage(second))
	req.NoError(w.Close())

	r, err := NewReader(path)
	req.NoError(err)
	defer r.Close()

	img, err := r.ReadImage()
	req.NoError(err)
	req.Equal(first.BitLen, img.BitLen)

	img, err = r.ReadImage()
	req.NoError(err)
	req.Equal(second.Payload, img.Payload)

	_, err = r.ReadImage()
	req.Error(err) // exhausted
}

func TestWriteImageValidation(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "bad.pbit")
	w, err := NewWriter(path)
	req.NoError(err)
	defer w.Close()

	err = w.WriteImage(&Image{BitLen: 65, Payload: make([]byte, 8)})
	req.ErrorContains(err, "invalid `BitLen`")
}

func TestLoadCorruptedPayload(t *testing.T) {
	req := require.New(t)

	img := packedImage(t)
	path := filepath.Join(t.TempDir(), "corrupt.pbit")
	req.NoError(Save(path, img))

	data, err := os.ReadFile(path)
	req.NoError(err)
	data[len(data)-1] ^= 0xFF // payload sits at the end of the record
	req.NoError(os.WriteFile(path, data, 0o600))

	_, err = Load(path)
	var mismatch MismatchError
	req.ErrorAs(err, &mismatch)
	req.Equal("Digest", mismatch.Param)
}

func TestLoadForeignFile(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "foreign.pbit")
	req.NoError(os.WriteFile(path, make([]byte, 24), 0o600))

	_, err := Load(path)
	var mismatch MismatchError
	req.ErrorAs(err, &mismatch)
	req.Equal("Magic", mismatch.Param)
}
