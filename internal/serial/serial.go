// Package serial saves and loads values in a format chosen by file
// extension: JSON, YAML, TOML, or msgpack, with optional gzip
// compression layered on by a trailing ".gz". Loading a file written
// by DumpFile yields the same value back.
package serial

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat reports a file extension no codec claims.
type ErrUnsupportedFormat struct {
	Path string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("no codec for file %q", e.Path)
}

// DumpFile serializes v to path, choosing the codec from the
// extension.
func DumpFile(path string, v any) error {
	data, err := encode(path, v)
	if err != nil {
		return err
	}

	if compressed(path) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	return os.WriteFile(path, data, 0644)
}

// LoadFile reads path and deserializes it into out, choosing the
// codec from the extension.
func LoadFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if compressed(path) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		data, err = io.ReadAll(zr)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	return decode(path, data, out)
}

func encode(path string, v any) ([]byte, error) {
	switch format(path) {
	case ".json":
		return json.MarshalIndent(v, "", "  ")
	case ".yaml", ".yml":
		return yaml.Marshal(v)
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".mpk", ".msgpack":
		return msgpack.Marshal(v)
	}
	return nil, &ErrUnsupportedFormat{Path: path}
}

func decode(path string, data []byte, out any) error {
	switch format(path) {
	case ".json":
		return json.Unmarshal(data, out)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, out)
	case ".toml":
		// A TOML document is always a table; decoding into a bare
		// interface goes through a map.
		if p, ok := out.(*any); ok {
			m := make(map[string]any)
			if _, err := toml.Decode(string(data), &m); err != nil {
				return err
			}
			*p = m
			return nil
		}
		_, err := toml.Decode(string(data), out)
		return err
	case ".mpk", ".msgpack":
		return msgpack.Unmarshal(data, out)
	}
	return &ErrUnsupportedFormat{Path: path}
}

// format returns the codec extension, looking through a ".gz" suffix.
func format(path string) string {
	if compressed(path) {
		path = strings.TrimSuffix(path, ".gz")
	}
	return strings.ToLower(filepath.Ext(path))
}

func compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}
