package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/recipe-box/backend/internal/model"
)

// recipeRow is the table layout used by GormStore. Position preserves
// collection order across a save/load cycle.
type recipeRow struct {
	ID           int              `gorm:"primaryKey;autoIncrement:false"`
	Position     int              `gorm:"not null;index"`
	Name         string           `gorm:"size:255;not null"`
	Ingredients  model.StringList `gorm:"type:text;not null"`
	Instructions model.StringList `gorm:"type:text;not null"`
	PrepTime     int
	CookTime     int
	Servings     int
	Category     string `gorm:"size:100"`
	CreatedAt    string `gorm:"size:40;autoCreateTime:false"`
	UpdatedAt    string `gorm:"size:40;autoUpdateTime:false"`
}

func (recipeRow) TableName() string {
	return "recipes"
}

// GormStore keeps the collection in a SQL table. SaveAll replaces the
// table contents inside a single transaction.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the recipes table.
func (s *GormStore) AutoMigrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&recipeRow{})
}

func (s *GormStore) LoadAll(ctx context.Context) ([]model.Recipe, error) {
	var rows []recipeRow
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}

	records := make([]model.Recipe, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.Recipe{
			ID:           row.ID,
			Name:         row.Name,
			Ingredients:  []string(row.Ingredients),
			Instructions: []string(row.Instructions),
			PrepTime:     row.PrepTime,
			CookTime:     row.CookTime,
			Servings:     row.Servings,
			Category:     row.Category,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	if err := validateRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *GormStore) SaveAll(ctx context.Context, records []model.Recipe) error {
	rows := make([]recipeRow, 0, len(records))
	for i, r := range records {
		rows = append(rows, recipeRow{
			ID:           r.ID,
			Position:     i,
			Name:         r.Name,
			Ingredients:  model.StringList(r.Ingredients),
			Instructions: model.StringList(r.Instructions),
			PrepTime:     r.PrepTime,
			CookTime:     r.CookTime,
			Servings:     r.Servings,
			Category:     r.Category,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&recipeRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}
