package http

import (
	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/demo"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/tasks"
)

// RouterConfig contains all dependencies needed to build the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books    *services.BooksService
	People   *services.PeopleService
	Database *database.Database
	Auditor  *audit.Service

	// Authentication (all optional; nil disables the corresponding layer)
	AuthConfig     config.Auth
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte

	// Read-only demo mode; nil leaves writes enabled
	Demo *demo.Middleware

	// Background work
	TaskClient         *tasks.Client
	OverdueScanner     ScanRunner
	AuditRetentionDays int

	// Application info
	Version string
}
