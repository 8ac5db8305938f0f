package service

import (
	"context"

	"github.com/pageza/recipe-box/backend/internal/model"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
	GetRecipe(ctx context.Context, id int) (*model.Recipe, error)
	CreateRecipe(ctx context.Context, req *model.RecipeCreate) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id int, req *model.RecipeUpdate) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id int) error
	ListRecipesByCategory(ctx context.Context, category string) ([]model.Recipe, error)
	ListCategories(ctx context.Context) ([]string, error)
}
