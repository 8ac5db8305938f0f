package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pageza/recipe-box/backend/internal/logger"
	"github.com/pageza/recipe-box/backend/internal/model"
	"github.com/pageza/recipe-box/backend/internal/store"
)

// RecipeService handles recipe operations. Each call loads the full
// collection from the store and mutating calls save it back.
//
// Mutations hold mu for the whole load-modify-save cycle so that concurrent
// requests within one process cannot lose each other's writes. Separate
// processes sharing the same backing store still race.
type RecipeService struct {
	store  store.Store
	logger *logger.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(s store.Store, log *logger.Logger) *RecipeService {
	if log == nil {
		log = logger.NewNop()
	}
	return &RecipeService{
		store:  s,
		logger: log.WithComponent("recipe_service"),
		now:    time.Now,
	}
}

// SetClock replaces the time source used for created_at/updated_at.
func (s *RecipeService) SetClock(now func() time.Time) {
	s.now = now
}

// ListRecipes returns every recipe in store order
func (s *RecipeService) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	return s.load(ctx)
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id int) (*model.Recipe, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &records[i], nil
}

// CreateRecipe filters blank lines, assigns the next id and both timestamps, and persists.
func (s *RecipeService) CreateRecipe(ctx context.Context, req *model.RecipeCreate) (*model.Recipe, error) {
	name := deref(req.Name)
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "Name cannot be empty"}
	}
	ingredients := filterLines(req.Ingredients)
	instructions := filterLines(req.Instructions)
	if len(ingredients) == 0 || len(instructions) == 0 {
		return nil, &ValidationError{Field: "ingredients", Message: "Ingredients and instructions cannot be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	category := deref(req.Category)
	if category == "" {
		category = model.DefaultCategory
	}
	ts := s.stamp("")
	recipe := model.Recipe{
		ID:           store.NextID(records),
		Name:         name,
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTime:     deref(req.PrepTime),
		CookTime:     deref(req.CookTime),
		Servings:     deref(req.Servings),
		Category:     category,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	records = append(records, recipe)
	if err := s.save(ctx, records); err != nil {
		return nil, err
	}
	s.logger.Infow("recipe created", "id", recipe.ID)
	return &recipe, nil
}

// UpdateRecipe applies only the fields present in req and refreshes updated_at.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id int, req *model.RecipeUpdate) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	// validate everything before touching the record
	var ingredients, instructions []string
	if req.Ingredients != nil {
		ingredients = filterLines(*req.Ingredients)
		if len(ingredients) == 0 {
			return nil, &ValidationError{Field: "ingredients", Message: "Ingredients cannot be empty"}
		}
	}
	if req.Instructions != nil {
		instructions = filterLines(*req.Instructions)
		if len(instructions) == 0 {
			return nil, &ValidationError{Field: "instructions", Message: "Instructions cannot be empty"}
		}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "Name cannot be empty"}
	}

	recipe := &records[i]
	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if ingredients != nil {
		recipe.Ingredients = ingredients
	}
	if instructions != nil {
		recipe.Instructions = instructions
	}
	if req.PrepTime != nil {
		recipe.PrepTime = *req.PrepTime
	}
	if req.CookTime != nil {
		recipe.CookTime = *req.CookTime
	}
	if req.Servings != nil {
		recipe.Servings = *req.Servings
	}
	if req.Category != nil {
		recipe.Category = *req.Category
	}
	recipe.UpdatedAt = s.stamp(recipe.UpdatedAt)

	if err := s.save(ctx, records); err != nil {
		return nil, err
	}
	s.logger.Infow("recipe updated", "id", id)
	out := *recipe
	return &out, nil
}

// DeleteRecipe deletes a recipe
func (s *RecipeService) DeleteRecipe(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(records, id)
	if i < 0 {
		return ErrNotFound
	}

	records = append(records[:i], records[i+1:]...)
	if err := s.save(ctx, records); err != nil {
		return err
	}
	s.logger.Infow("recipe deleted", "id", id)
	return nil
}

// ListRecipesByCategory returns recipes whose category equals category, ignoring case.
func (s *RecipeService) ListRecipesByCategory(ctx context.Context, category string) ([]model.Recipe, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(category)
	matches := make([]model.Recipe, 0)
	for _, r := range records {
		if strings.ToLower(r.Category) == want {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

// ListCategories returns each distinct category once, in order of first appearance.
func (s *RecipeService) ListCategories(ctx context.Context) ([]string, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(records))
	categories := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		categories = append(categories, r.Category)
	}
	return categories, nil
}

func (s *RecipeService) load(ctx context.Context) ([]model.Recipe, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		s.logger.WithError(err).Errorw("failed to load recipes")
		return nil, err
	}
	return records, nil
}

func (s *RecipeService) save(ctx context.Context, records []model.Recipe) error {
	if err := s.store.SaveAll(ctx, records); err != nil {
		s.logger.WithError(err).Errorw("failed to save recipes", "count", len(records))
		return err
	}
	return nil
}

// stamp returns the current time formatted for storage, moved forward when
// needed so that it sorts strictly after prev.
func (s *RecipeService) stamp(prev string) string {
	t := s.now().UTC().Truncate(time.Microsecond)
	if prev != "" {
		if p, err := model.ParseTimestamp(prev); err == nil && !t.After(p) {
			t = p.Add(time.Microsecond)
		}
	}
	return model.FormatTimestamp(t)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func indexOf(records []model.Recipe, id int) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

// filterLines drops empty and whitespace-only entries. The result is never nil.
func filterLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
