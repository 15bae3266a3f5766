package io

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/vectorcad/pkg/document"
	"github.com/matzehuels/vectorcad/pkg/errors"
)

// ReadJSON decodes a JSON document from r.
//
// ReadJSON returns an error with code [errors.ErrCodeInvalidFormat] if:
//   - The JSON is malformed or an entity has an unknown kind
//   - An entity has a zero or duplicate id
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*document.Document, error) {
	var snap document.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	d, err := document.FromSnapshot(snap)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	return d, nil
}

// ImportJSON reads a JSON file at path and returns the decoded document.
// A missing file yields [errors.ErrCodeFileNotFound].
func ImportJSON(path string) (*document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
