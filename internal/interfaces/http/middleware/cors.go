package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/marketplace/backend/internal/infrastructure/config"
)

const corsMaxAge = 12 * time.Hour

// CORS returns a middleware enforcing the configured origin allow list.
// An empty list rejects all cross-origin requests; "*" allows everything
// but disables credentials, as browsers require.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	allowWildcard := false
	for _, o := range cfg.CORSAllowOrigins {
		if o == "*" {
			allowWildcard = true
			break
		}
	}
	allowMethods := strings.Join(cfg.CORSAllowMethods, ", ")
	allowHeaders := strings.Join(cfg.CORSAllowHeaders, ", ")

	allowedOrigin := func(origin string) string {
		if allowWildcard {
			return "*"
		}
		for _, o := range cfg.CORSAllowOrigins {
			if o == origin {
				return origin
			}
		}
		return ""
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if c.Request.Method == http.MethodOptions {
			if allowed := allowedOrigin(origin); allowed != "" {
				header := c.Writer.Header()
				header.Set("Access-Control-Allow-Origin", allowed)
				header.Set("Access-Control-Allow-Methods", allowMethods)
				header.Set("Access-Control-Allow-Headers", allowHeaders)
				header.Set("Access-Control-Max-Age", strconv.Itoa(int(corsMaxAge.Seconds())))
				if allowed != "*" {
					header.Set("Access-Control-Allow-Credentials", "true")
				}
			}
			// Preflights get 204 even for disallowed origins; the browser
			// enforces the missing headers.
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if allowed := allowedOrigin(origin); allowed != "" && origin != "" {
			header := c.Writer.Header()
			header.Set("Access-Control-Allow-Origin", allowed)
			header.Set("Access-Control-Expose-Headers", "X-Request-ID")
			if allowed != "*" {
				header.Set("Access-Control-Allow-Credentials", "true")
			}
		}
		c.Next()
	}
}
