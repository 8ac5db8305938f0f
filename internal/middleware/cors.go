package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// DefaultAllowedOrigins are the local development frontends.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// CORS allows credentialed cross-origin requests from the given origins only.
// Any request header is accepted: preflight responses echo the headers the
// client asked for.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}
	policy := cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})

	return func(c *gin.Context) {
		requested := c.GetHeader("Access-Control-Request-Headers")
		if c.Request.Method == http.MethodOptions && requested != "" {
			c.Writer = &preflightWriter{ResponseWriter: c.Writer, requested: requested}
		}
		policy(c)
	}
}

// preflightWriter replaces Access-Control-Allow-Headers with the requested
// headers just before an accepted preflight response is written.
type preflightWriter struct {
	gin.ResponseWriter
	requested string
}

func (w *preflightWriter) WriteHeader(code int) {
	w.allowRequested()
	w.ResponseWriter.WriteHeader(code)
}

func (w *preflightWriter) WriteHeaderNow() {
	w.allowRequested()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *preflightWriter) allowRequested() {
	h := w.Header()
	if h.Get("Access-Control-Allow-Origin") != "" {
		h.Set("Access-Control-Allow-Headers", w.requested)
	}
}
