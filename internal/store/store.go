// Package store persists the full recipe collection. Every backend reads
// and rewrites the whole collection; there is no incremental update.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/recipe-box/backend/internal/model"
)

var (
	// ErrStorageCorruption is returned when persisted data exists but cannot be decoded
	// or a record fails structural validation.
	ErrStorageCorruption = errors.New("recipe storage is corrupt")
	// ErrStorageWrite is returned when the collection could not be written back.
	ErrStorageWrite = errors.New("failed to write recipe storage")
)

// Store loads and saves the entire recipe collection.
type Store interface {
	// LoadAll returns every record in stored order. A store that has never
	// been written returns an empty slice and no error.
	LoadAll(ctx context.Context) ([]model.Recipe, error)
	// SaveAll replaces the stored collection with records.
	SaveAll(ctx context.Context, records []model.Recipe) error
}

var validate = validator.New()

// NextID returns one more than the highest id in records, or 1 for an empty collection.
func NextID(records []model.Recipe) int {
	max := 0
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

// validateRecords checks each decoded record and that ids are unique. Failures
// wrap ErrStorageCorruption.
func validateRecords(records []model.Recipe) error {
	seen := make(map[int]struct{}, len(records))
	for i := range records {
		if err := validate.Struct(&records[i]); err != nil {
			return fmt.Errorf("%w: record %d: %v", ErrStorageCorruption, i, err)
		}
		if _, dup := seen[records[i].ID]; dup {
			return fmt.Errorf("%w: record %d: duplicate id %d", ErrStorageCorruption, i, records[i].ID)
		}
		seen[records[i].ID] = struct{}{}
	}
	return nil
}
