package db

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStore keeps each collection in <dir>/<collection>.json as a pretty
// printed JSON object keyed by record identifier.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file backing collection.
func (s *FileStore) Path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *FileStore) Load(_ context.Context, collection string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.Path(collection))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, errors.Wrapf(err, "read %s", collection)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	records := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(err, "parse %s", collection)
	}
	return records, nil
}

// Save writes the collection to a temporary file next to the target and
// renames it into place, so readers see either the old or the new file.
func (s *FileStore) Save(_ context.Context, collection string, records map[string]json.RawMessage) error {
	if records == nil {
		records = map[string]json.RawMessage{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "marshal %s", collection)
	}

	tmp, err := os.CreateTemp(s.dir, "."+collection+"-*.json.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", collection)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", collection)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "sync %s", collection)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", collection)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrapf(err, "chmod %s", collection)
	}
	if err := os.Rename(tmpName, s.Path(collection)); err != nil {
		return errors.Wrapf(err, "replace %s", collection)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
