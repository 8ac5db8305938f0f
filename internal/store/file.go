package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pageza/recipe-box/backend/internal/model"
)

// FileStore keeps the collection as an indented JSON array in a single file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore backed by path. The file need not exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LoadAll reads and decodes the backing file. A missing file is the empty collection.
func (s *FileStore) LoadAll(ctx context.Context) ([]model.Recipe, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Recipe{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return decodeRecords(data)
}

// SaveAll encodes records and replaces the backing file. The new content is
// written to a sibling temp file first and renamed into place.
func (s *FileStore) SaveAll(ctx context.Context, records []model.Recipe) error {
	data, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

func decodeRecords(data []byte) ([]model.Recipe, error) {
	var records []model.Recipe
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageCorruption, err)
	}
	if records == nil {
		// a literal "null" document
		return nil, fmt.Errorf("%w: expected a JSON array", ErrStorageCorruption)
	}
	if err := validateRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

func encodeRecords(records []model.Recipe) ([]byte, error) {
	if records == nil {
		records = []model.Recipe{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
