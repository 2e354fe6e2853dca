package middleware

import (
	"github.com/gin-gonic/gin"
)

// CORSWithExemptions applies the given CORS handler to every route except
// the listed paths. Exempt endpoints answer preflights and set their own
// CORS headers, which a global origin allowlist would otherwise override.
func CORSWithExemptions(corsHandler gin.HandlerFunc, exemptPaths ...string) gin.HandlerFunc {
	exempt := make(map[string]bool, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = true
	}

	return func(c *gin.Context) {
		if exempt[c.Request.URL.Path] {
			c.Next()
			return
		}
		corsHandler(c)
	}
}
