package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-box/backend/internal/metrics"
	"github.com/pageza/recipe-box/backend/internal/model"
	"github.com/pageza/recipe-box/backend/internal/service"
	"github.com/pageza/recipe-box/backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.json")
	m := metrics.New()
	svc := service.NewRecipeService(m.InstrumentStore(store.NewFileStore(path)), nil)
	return SetupRouter(Options{Recipes: svc, Metrics: m}), path
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRecipeLifecyclePersistsToFile(t *testing.T) {
	router, path := setupTestRouter(t)

	rr := serve(router, http.MethodPost, "/recipes",
		`{"name":"Pancakes","ingredients":["flour","milk"],"instructions":["mix","fry"],"prep_time":5,"cook_time":10,"servings":3,"category":"Breakfast"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk []model.Recipe
	require.NoError(t, json.Unmarshal(data, &onDisk))
	require.Len(t, onDisk, 1)
	assert.Equal(t, 1, onDisk[0].ID)
	assert.Equal(t, "Pancakes", onDisk[0].Name)

	rr = serve(router, http.MethodPut, "/recipes/1", `{"servings":2}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// A fresh service over the same file sees the update.
	svc := service.NewRecipeService(store.NewFileStore(path), nil)
	got, err := svc.GetRecipe(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Servings)

	rr = serve(router, http.MethodDelete, "/recipes/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Recipe deleted successfully"}`, rr.Body.String())

	rr = serve(router, http.MethodGet, "/recipes", "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestCorruptFileReturns500(t *testing.T) {
	router, path := setupTestRouter(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	rr := serve(router, http.MethodGet, "/recipes", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"detail":"Recipe storage is corrupt"}`, rr.Body.String())

	rr = serve(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestUnknownRoutesAnswerJSON(t *testing.T) {
	router, _ := setupTestRouter(t)

	rr := serve(router, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rr.Body.String())

	rr = serve(router, http.MethodPatch, "/recipes/1", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestCORSPreflightThroughRouter(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	serve(router, http.MethodGet, "/recipes", "")
	rr := serve(router, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{method="GET",path="/recipes",status="200"} 1`))
	assert.Contains(t, body, `recipe_store_operations_total{operation="load",result="ok"} 1`)
}

func TestSetupRouterWithoutMetrics(t *testing.T) {
	svc := service.NewRecipeService(store.NewMemoryStore(), nil)
	router := SetupRouter(Options{Recipes: svc})

	rr := serve(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(router, http.MethodGet, "/", "")
	assert.JSONEq(t, `{"message":"Recipe Box API is running!"}`, rr.Body.String())
}
