package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-box/backend/internal/metrics"
	"github.com/pageza/recipe-box/backend/internal/middleware"
	"github.com/pageza/recipe-box/backend/internal/model"
	"github.com/pageza/recipe-box/backend/internal/router"
	"github.com/pageza/recipe-box/backend/internal/service"
	"github.com/pageza/recipe-box/backend/internal/store"
	"github.com/pageza/recipe-box/backend/internal/testdb"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var seedTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

// setupApp serves the full router over a seeded SQLite store.
func setupApp(t *testing.T, limiter *middleware.RateLimiter) http.Handler {
	t.Helper()
	ctx := context.Background()

	s := store.NewGormStore(testdb.SetupSQLite(t))
	require.NoError(t, s.AutoMigrate(ctx))
	seeded, err := store.SeedIfEmpty(ctx, s, seedTime)
	require.NoError(t, err)
	require.True(t, seeded)

	m := metrics.New()
	svc := service.NewRecipeService(m.InstrumentStore(s), nil)
	return router.SetupRouter(router.Options{
		Recipes:     svc,
		Metrics:     m,
		RateLimiter: limiter,
	})
}

func request(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSeededRecipes(t *testing.T) {
	app := setupApp(t, nil)

	rr := request(t, app, http.MethodGet, "/recipes", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var recipes []model.Recipe
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recipes))
	require.Len(t, recipes, 2)
	assert.Equal(t, "Spaghetti Carbonara", recipes[0].Name)
	assert.Equal(t, "Chicken Tikka Masala", recipes[1].Name)
	assert.Equal(t, model.FormatTimestamp(seedTime), recipes[0].CreatedAt)

	rr = request(t, app, http.MethodGet, "/categories", nil)
	assert.JSONEq(t, `{"categories":["Italian","Indian"]}`, rr.Body.String())

	rr = request(t, app, http.MethodGet, "/recipes/category/indian", nil)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recipes))
	require.Len(t, recipes, 1)
	assert.Equal(t, 2, recipes[0].ID)
}

func TestRecipeCRUDOverSQLite(t *testing.T) {
	app := setupApp(t, nil)

	rr := request(t, app, http.MethodPost, "/recipes", map[string]interface{}{
		"name":         "Miso Soup",
		"ingredients":  []string{"dashi", "miso", " "},
		"instructions": []string{"heat dashi", "whisk in miso"},
		"prep_time":    5,
		"cook_time":    10,
		"servings":     2,
		"category":     "",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created model.Recipe
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, 3, created.ID)
	assert.Equal(t, []string{"dashi", "miso"}, created.Ingredients)
	assert.Equal(t, model.DefaultCategory, created.Category)

	rr = request(t, app, http.MethodPut, fmt.Sprintf("/recipes/%d", created.ID), map[string]interface{}{
		"category": "Japanese",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var updated model.Recipe
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Japanese", updated.Category)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, created.UpdatedAt)

	rr = request(t, app, http.MethodDelete, "/recipes/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = request(t, app, http.MethodGet, "/recipes/1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"detail":"Recipe not found"}`, rr.Body.String())

	rr = request(t, app, http.MethodGet, "/categories", nil)
	assert.JSONEq(t, `{"categories":["Indian","Japanese"]}`, rr.Body.String())
}

func TestValidationErrorsOverSQLite(t *testing.T) {
	app := setupApp(t, nil)

	rr := request(t, app, http.MethodPost, "/recipes", map[string]interface{}{
		"name":         "Nothing",
		"ingredients":  []string{""},
		"instructions": []string{"wait"},
		"prep_time":    0,
		"cook_time":    0,
		"servings":     1,
		"category":     "Other",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"detail":"Ingredients and instructions cannot be empty"}`, rr.Body.String())

	rr = request(t, app, http.MethodPut, "/recipes/2", map[string]interface{}{
		"instructions": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"detail":"Instructions cannot be empty"}`, rr.Body.String())

	rr = request(t, app, http.MethodGet, "/recipes", nil)
	var recipes []model.Recipe
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recipes))
	assert.Len(t, recipes, 2)
}
