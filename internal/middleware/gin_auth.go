package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinRequireAuth adapts the net/http AuthMiddleware to Gin, so token
// validation stays transport-agnostic and testable without a router.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Continue the Gin chain with the request the middleware
		// produced; it carries the authenticated user id in its context.
		resume := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		auth.RequireAuth(resume).ServeHTTP(c.Writer, c.Request)

		// A written response means the token was rejected; stop here.
		if c.Writer.Written() {
			c.Abort()
		}
	}
}
