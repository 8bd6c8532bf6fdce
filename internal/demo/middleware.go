// Package demo implements the read-only demo mode. The catalogue, readers
// and loans stay browsable while every write is rejected.
package demo

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyDemoMode is set on every request so handlers can report the mode.
const ContextKeyDemoMode = "demo_mode"

const blockedMessage = "This action is disabled in demo mode"

// Paths that accept non-GET methods even in demo mode.
var allowedPaths = []string{
	"/api/auth/",
}

// Middleware blocks write operations in demo mode.
type Middleware struct {
	enabled bool
}

func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that rejects writes with 403.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyDemoMode, m.enabled)
		if !m.enabled || isReadMethod(c.Request.Method) || isAllowedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     blockedMessage,
			"code":      "demo_mode",
			"demo_mode": true,
		})
	}
}

func isReadMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func isAllowedPath(path string) bool {
	for _, allowed := range allowedPaths {
		if strings.HasPrefix(path, allowed) {
			return true
		}
	}
	return false
}
