package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSchema = `fields:
  - name: kind
    bits: 3
  - name: ack
    bits: 1
  - name: sequence
    bits: 32
`

func writeTestFiles(t *testing.T) (dir, schemaPath, valuesPath string) {
	t.Helper()

	dir = t.TempDir()
	schemaPath = filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte(testSchema), 0o600))

	valuesPath = filepath.Join(dir, "values.json")
	values := `{"kind": 5, "ack": 1, "sequence": 123456789}`
	require.NoError(t, os.WriteFile(valuesPath, []byte(values), 0o600))
	return dir, schemaPath, valuesPath
}

func TestLoadSchema(t *testing.T) {
	req := require.New(t)

	_, schemaPath, _ := writeTestFiles(t)
	schema, err := loadSchema(schemaPath)
	req.NoError(err)
	req.Equal(3, schema.NumFields())
	req.Equal(uint(36), schema.BitLen())

	_, err = loadSchema(filepath.Join(t.TempDir(), "missing.yaml"))
	req.ErrorContains(err, "failed to read schema file")
}

func TestPackUnpackInspect(t *testing.T) {
	req := require.New(t)

	dir, schemaPath, valuesPath := writeTestFiles(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)

	rootCmd.SetArgs([]string{"--schema", schemaPath, "--output-dir", dir, "pack", valuesPath})
	req.NoError(rootCmd.Execute())

	imgPath := filepath.Join(dir, "values.pbit")
	_, err := os.Stat(imgPath)
	req.NoError(err)

	rootCmd.SetArgs([]string{"--schema", schemaPath, "--output-dir", dir, "unpack", imgPath})
	req.NoError(rootCmd.Execute())
	req.Contains(out.String(), "123456789")

	out.Reset()
	rootCmd.SetArgs([]string{"--schema", schemaPath, "--output-dir", dir, "inspect", imgPath})
	req.NoError(rootCmd.Execute())
	req.Contains(out.String(), "sequence")
	req.Contains(out.String(), "3 fields, 36 bits")
}
