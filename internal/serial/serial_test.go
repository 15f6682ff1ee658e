package serial_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descry-dev/descry/internal/serial"
)

func TestRoundTrip(t *testing.T) {
	// Same shape as the serialization the descriptor tooling needs:
	// a mapping written out and read back unchanged.
	for _, ext := range []string{".json", ".yaml", ".yml", ".toml", ".mpk", ".msgpack", ".json.gz", ".yaml.gz"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data"+ext)

			in := map[string]string{"hello": "world", "answer": "42"}
			require.NoError(t, serial.DumpFile(path, in))

			var out map[string]string
			require.NoError(t, serial.LoadFile(path, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestRoundTripStruct(t *testing.T) {
	type record struct {
		Name    string   `json:"name" yaml:"name" toml:"name" msgpack:"name"`
		Version string   `json:"version" yaml:"version" toml:"version" msgpack:"version"`
		Groups  []string `json:"groups" yaml:"groups" toml:"groups" msgpack:"groups"`
	}

	in := record{Name: "monty", Version: "2025.1.9", Groups: []string{"ci", "docs"}}

	for _, ext := range []string{".json", ".yaml", ".toml", ".mpk"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "record"+ext)
			require.NoError(t, serial.DumpFile(path, in))

			var out record
			require.NoError(t, serial.LoadFile(path, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xml")

	err := serial.DumpFile(path, map[string]string{})
	var unsupported *serial.ErrUnsupportedFormat
	require.ErrorAs(t, err, &unsupported)

	err = serial.LoadFile(path, &map[string]string{})
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	err := serial.LoadFile(filepath.Join(t.TempDir(), "absent.json"), &map[string]string{})
	assert.Error(t, err)
}
