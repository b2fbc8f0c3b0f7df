// Package statefile reads and writes serialized system documents. JSON is
// the default interchange format; files with a .msgpack extension use the
// compact binary encoding instead. The path "-" means stdin or stdout.
package statefile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/danmuck/statectl/internal/systems"
)

const msgpackExt = ".msgpack"

func binaryPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), msgpackExt)
}

// Load reads a system document from path, or from stdin when path is "-".
func Load(path string) (*systems.System, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("statefile read failed (%s): %w", path, err)
	}
	return Decode(data, binaryPath(path))
}

// Save writes a system document to path, or to stdout when path is "-".
func Save(path string, s *systems.System) error {
	data, err := Encode(s, binaryPath(path))
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("statefile write failed (%s): %w", path, err)
	}
	return nil
}

// Decode rebuilds a system from an encoded document.
func Decode(data []byte, binary bool) (*systems.System, error) {
	var doc map[string]any
	var err error
	if binary {
		err = msgpack.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("statefile decode failed: %w", err)
	}
	return systems.FromPrimitive(doc)
}

// Encode serializes a system document. The JSON form is indented and ends
// with a newline; map keys serialize in sorted order so equal systems
// produce identical bytes.
func Encode(s *systems.System, binary bool) ([]byte, error) {
	doc := s.Primitive()
	if binary {
		return msgpack.Marshal(doc)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
