package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-box/backend/internal/logger"
	"github.com/pageza/recipe-box/backend/internal/middleware"
	"github.com/pageza/recipe-box/backend/internal/model"
	"github.com/pageza/recipe-box/backend/internal/service"
	"github.com/pageza/recipe-box/backend/internal/store"
)

// RecipeHandler serves the /recipes and /categories endpoints
type RecipeHandler struct {
	recipes service.IRecipeService
	logger  *logger.Logger
}

func NewRecipeHandler(recipes service.IRecipeService, log *logger.Logger) *RecipeHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &RecipeHandler{
		recipes: recipes,
		logger:  log.WithComponent("recipe_handler"),
	}
}

// RegisterRoutes mounts the recipe endpoints. writeGuards run before
// POST, PUT and DELETE handlers only.
func (h *RecipeHandler) RegisterRoutes(router gin.IRouter, writeGuards ...gin.HandlerFunc) {
	write := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writeGuards...), handler)
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", write(h.CreateRecipe)...)
		recipes.PUT("/:id", write(h.UpdateRecipe)...)
		recipes.DELETE("/:id", write(h.DeleteRecipe)...)
		recipes.GET("/category/:category", h.ListRecipesByCategory)
	}
	router.GET("/categories", h.ListCategories)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.ListRecipes(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req model.RecipeCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, middleware.ErrorResponse{Detail: err.Error()})
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req model.RecipeUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, middleware.ErrorResponse{Detail: err.Error()})
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

func (h *RecipeHandler) ListRecipesByCategory(c *gin.Context) {
	recipes, err := h.recipes.ListRecipesByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) ListCategories(c *gin.Context) {
	categories, err := h.recipes.ListCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// writeError maps service and store errors onto status codes.
func (h *RecipeHandler) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Detail: "Recipe not found"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Detail: ve.Message})
	case errors.Is(err, store.ErrStorageCorruption):
		h.logger.WithRequestID(c.GetString(middleware.RequestIDKey)).WithError(err).Errorw("recipe storage unreadable")
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Detail: "Recipe storage is corrupt"})
	case errors.Is(err, store.ErrStorageWrite):
		h.logger.WithRequestID(c.GetString(middleware.RequestIDKey)).WithError(err).Errorw("recipe storage write failed")
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Detail: "Failed to save recipes"})
	default:
		h.logger.WithRequestID(c.GetString(middleware.RequestIDKey)).WithError(err).Errorw("unexpected error")
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Detail: "Internal Server Error"})
	}
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, middleware.ErrorResponse{Detail: "Recipe id must be an integer"})
		return 0, false
	}
	return id, true
}
