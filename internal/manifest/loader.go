// Package manifest reads Export Contract v1 manifests and scans them for coverage.
package manifest

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
)

var (
	// ErrManifestNotFound is returned when the manifest file does not exist.
	ErrManifestNotFound = errors.New("manifest not found")
	// ErrManifestParse is returned when the manifest is not valid Export Contract v1 JSON.
	ErrManifestParse = errors.New("manifest parse error")
)

// Loaded is a parsed manifest plus the untyped tree the coverage scan walks.
type Loaded struct {
	Path     string
	Manifest Manifest
	Tree     any
}

// Load reads and parses the manifest at path. Both failures are fatal for a run.
func Load(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Mark(errors.Newf("Manifest not found at %s", path), ErrManifestNotFound)
		}
		return nil, errors.Wrapf(err, "read manifest %s", path)
	}
	return Parse(path, data)
}

// Parse decodes manifest bytes. path is only used in error messages.
func Parse(path string, data []byte) (*Loaded, error) {
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		return nil, errors.Mark(errors.Wrapf(err, "Manifest at %s is not valid JSON", path), ErrManifestParse)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "Manifest at %s is not valid JSON", path), ErrManifestParse)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "Manifest at %s does not follow Export Contract v1", path), ErrManifestParse)
	}

	return &Loaded{Path: path, Manifest: m, Tree: tree}, nil
}
