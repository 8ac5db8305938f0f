package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is fixed width so that timestamps sort lexically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// DefaultCategory is applied when a recipe is created without a category.
const DefaultCategory = "Other"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}

// StringList is a string slice persisted as a JSON array in a text column
type StringList []string

// Value implements the driver.Valuer interface
func (a StringList) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringList) Scan(value interface{}) error {
	if value == nil {
		*a = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is the single persisted entity.
type Recipe struct {
	ID           int      `json:"id" validate:"gt=0"`
	Name         string   `json:"name" validate:"required"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1"`
	Instructions []string `json:"instructions" validate:"required,min=1"`
	PrepTime     int      `json:"prep_time"`
	CookTime     int      `json:"cook_time"`
	Servings     int      `json:"servings"`
	Category     string   `json:"category"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// Clone returns a deep copy so callers cannot alias the slices of a stored record.
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = append([]string(nil), r.Ingredients...)
	out.Instructions = append([]string(nil), r.Instructions...)
	return out
}

// RecipeCreate is the body of POST /recipes. Every key is required; pointer
// fields accept an explicit 0 or "".
type RecipeCreate struct {
	Name         *string  `json:"name" binding:"required"`
	Ingredients  []string `json:"ingredients" binding:"required"`
	Instructions []string `json:"instructions" binding:"required"`
	PrepTime     *int     `json:"prep_time" binding:"required"`
	CookTime     *int     `json:"cook_time" binding:"required"`
	Servings     *int     `json:"servings" binding:"required"`
	Category     *string  `json:"category" binding:"required"`
}

// RecipeUpdate is the body of PUT /recipes/:id. A nil field was omitted
// by the client and leaves the stored value untouched.
type RecipeUpdate struct {
	Name         *string   `json:"name,omitempty"`
	Ingredients  *[]string `json:"ingredients,omitempty"`
	Instructions *[]string `json:"instructions,omitempty"`
	PrepTime     *int      `json:"prep_time,omitempty"`
	CookTime     *int      `json:"cook_time,omitempty"`
	Servings     *int      `json:"servings,omitempty"`
	Category     *string   `json:"category,omitempty"`
}
