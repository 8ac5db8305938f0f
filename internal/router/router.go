package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-box/backend/internal/api"
	"github.com/pageza/recipe-box/backend/internal/logger"
	"github.com/pageza/recipe-box/backend/internal/metrics"
	"github.com/pageza/recipe-box/backend/internal/middleware"
	"github.com/pageza/recipe-box/backend/internal/service"
)

// Options carries the dependencies of SetupRouter. Metrics and RateLimiter may be nil.
type Options struct {
	Recipes        service.IRecipeService
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NotFound())
	router.NoMethod(middleware.MethodNotAllowed())

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log.WithComponent("http")))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	var writeGuards []gin.HandlerFunc
	if opts.RateLimiter != nil {
		writeGuards = append(writeGuards, opts.RateLimiter.Middleware())
	}

	api.NewSystemHandler(opts.Recipes).RegisterRoutes(router)
	api.NewRecipeHandler(opts.Recipes, log).RegisterRoutes(router, writeGuards...)

	return router
}
