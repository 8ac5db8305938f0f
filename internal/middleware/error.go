package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-box/backend/internal/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Recovery turns a panic in a handler into a logged 500 JSON response
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.WithRequestID(c.GetString(RequestIDKey)).Errorw("panic recovered",
			"panic", fmt.Sprintf("%v", recovered),
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Detail: "Internal Server Error"})
	})
}

// NotFound answers unmatched routes in the same JSON shape as handler errors.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: "Not Found"})
	}
}

// MethodNotAllowed answers known paths requested with an unsupported method.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Detail: "Method Not Allowed"})
	}
}
