package store

import (
	"context"
	"time"

	"github.com/pageza/recipe-box/backend/internal/model"
)

// SampleRecipes returns the records written into an empty store, stamped with now.
func SampleRecipes(now time.Time) []model.Recipe {
	ts := model.FormatTimestamp(now)
	return []model.Recipe{
		{
			ID:   1,
			Name: "Spaghetti Carbonara",
			Ingredients: []string{
				"400g spaghetti",
				"200g pancetta or guanciale",
				"4 large eggs",
				"100g Pecorino Romano cheese",
				"100g Parmigiano-Reggiano",
				"Black pepper",
				"Salt",
			},
			Instructions: []string{
				"Bring a large pot of salted water to boil and cook spaghetti according to package directions",
				"While pasta cooks, cut pancetta into small cubes and cook in a large skillet until crispy",
				"In a bowl, whisk together eggs, grated cheeses, and black pepper",
				"Drain pasta, reserving 1 cup of pasta water",
				"Add hot pasta to the skillet with pancetta, remove from heat",
				"Quickly stir in egg mixture, adding pasta water as needed to create a creamy sauce",
				"Serve immediately with extra cheese and black pepper",
			},
			PrepTime:  10,
			CookTime:  15,
			Servings:  4,
			Category:  "Italian",
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		{
			ID:   2,
			Name: "Chicken Tikka Masala",
			Ingredients: []string{
				"1kg chicken breast, cubed",
				"2 cups yogurt",
				"2 tbsp garam masala",
				"1 tbsp turmeric",
				"2 tbsp ginger-garlic paste",
				"2 onions, diced",
				"3 tomatoes, pureed",
				"1 cup heavy cream",
				"Fresh cilantro",
				"Basmati rice",
			},
			Instructions: []string{
				"Marinate chicken in yogurt, garam masala, turmeric, and ginger-garlic paste for 2 hours",
				"Grill or bake chicken until charred and cooked through",
				"Sauté onions until golden brown",
				"Add tomato puree and cook until thickened",
				"Add grilled chicken and simmer for 10 minutes",
				"Stir in heavy cream and simmer for 5 more minutes",
				"Garnish with fresh cilantro and serve with basmati rice",
			},
			PrepTime:  20,
			CookTime:  30,
			Servings:  6,
			Category:  "Indian",
			CreatedAt: ts,
			UpdatedAt: ts,
		},
	}
}

// SeedIfEmpty writes SampleRecipes when the store holds no records. It
// reports whether anything was written.
func SeedIfEmpty(ctx context.Context, s Store, now time.Time) (bool, error) {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	if len(records) > 0 {
		return false, nil
	}
	if err := s.SaveAll(ctx, SampleRecipes(now)); err != nil {
		return false, err
	}
	return true, nil
}
