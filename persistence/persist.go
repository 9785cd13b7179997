package persistence

import (
	"os"
	"path/filepath"
)

// Save writes a single image file at path, creating parent directories
// as needed.
func Save(path string, img *Image, opts ...Option) error {
	if err := os.MkdirAll(filepath.Dir(path), OwnerReadWriteExec); err != nil {
		return err
	}

	w, err := NewWriter(path, opts...)
	if err != nil {
		return err
	}
	if err := w.WriteImage(img); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Load reads the single image stored at path.
func Load(path string, opts ...Option) (*Image, error) {
	r, err := NewReader(path, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return r.ReadImage()
}
