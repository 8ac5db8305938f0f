package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-box/backend/internal/middleware"
	"github.com/pageza/recipe-box/backend/internal/service"
)

// SystemHandler serves the liveness and readiness endpoints.
type SystemHandler struct {
	recipes service.IRecipeService
}

func NewSystemHandler(recipes service.IRecipeService) *SystemHandler {
	return &SystemHandler{recipes: recipes}
}

func (h *SystemHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
}

// Root is the liveness message.
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Recipe Box API is running!"})
}

// Health reports whether the store can currently be read.
func (h *SystemHandler) Health(c *gin.Context) {
	recipes, err := h.recipes.ListRecipes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, middleware.ErrorResponse{Detail: "recipe store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"recipes": len(recipes),
	})
}
