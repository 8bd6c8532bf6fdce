package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/entities"
)

// Context keys for librarian data
const (
	ContextKeyLibrarianID = "auth_librarian_id"
	ContextKeyUsername    = "auth_username"
)

// Middleware authenticates requests from the session cookie.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	config         config.Auth
	publicPaths    map[string]bool
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager, cfg config.Auth) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		config:         cfg,
		publicPaths: map[string]bool{
			"/health":         true,
			"/ping":           true,
			"/api/auth/login": true,
			"/api/auth/setup": true,
			"/api/auth/csrf":  true,
		},
	}
}

// Handler returns the Gin middleware. With auth disabled every request passes.
func (m *Middleware) Handler() gin.HandlerFunc {
	if m.config.Mode != config.AuthModeLocal {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if librarian := m.trySessionAuth(c); librarian != nil {
			c.Set(ContextKeyLibrarianID, librarian.ID)
			c.Set(ContextKeyUsername, librarian.Username)
		}

		if GetLibrarianID(c) == 0 && !m.publicPaths[c.Request.URL.Path] {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		c.Next()
	}
}

func (m *Middleware) trySessionAuth(c *gin.Context) *entities.Librarian {
	if m.sessionManager == nil {
		return nil
	}

	id := m.sessionManager.GetLibrarianID(c.Request)
	if id == 0 {
		return nil
	}

	librarian, err := m.service.GetLibrarianByID(id)
	if err != nil {
		return nil
	}
	return librarian
}

// GetLibrarianID returns the authenticated librarian's ID, or 0.
func GetLibrarianID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyLibrarianID); exists {
		if librarianID, ok := id.(uint); ok {
			return librarianID
		}
	}
	return 0
}

// GetUsername returns the authenticated librarian's username.
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}
