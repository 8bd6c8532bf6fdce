package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/config"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger())
	router.Use(Recovery())
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())

	authEnabled := cfg.AuthConfig.Mode == config.AuthModeLocal && cfg.AuthService != nil

	// CSRF runs before sessions so the session context survives CSRF's
	// request replacement.
	if authEnabled && len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}
	if cfg.Demo != nil {
		router.Use(cfg.Demo.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	books := NewBooksController(cfg.Books, cfg.Auditor)
	api.GET("/books", books.ListBooks)
	api.GET("/books/search", books.SearchBooks)
	api.POST("/books", books.CreateBook)
	api.GET("/books/:id", books.GetBook)
	api.GET("/books/:id/reader", books.GetBookReader)
	api.PATCH("/books/:id", books.UpdateBook)
	api.DELETE("/books/:id", books.DeleteBook)
	api.PATCH("/books/:id/appoint", books.AppointReader)
	api.PATCH("/books/:id/free", books.FreeBook)

	people := NewPeopleController(cfg.People, cfg.Auditor)
	api.GET("/people", people.ListPeople)
	api.GET("/people/by-email", people.GetPersonByEmail)
	api.POST("/people", people.CreatePerson)
	api.GET("/people/:id", people.GetPerson)
	api.GET("/people/:id/books", people.GetPersonLoans)
	api.PATCH("/people/:id", people.UpdatePerson)
	api.DELETE("/people/:id", people.DeletePerson)

	loans := NewLoansController(cfg.Books)
	api.GET("/loans", loans.ListLoans)
	api.GET("/loans/overdue", loans.ListOverdue)

	if cfg.Auditor != nil {
		auditController := NewAuditController(cfg.Auditor)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	tasksController := NewTasksController(cfg.TaskClient, cfg.OverdueScanner, cfg.AuditRetentionDays)
	api.GET("/tasks/types", tasksController.ListTaskTypes)
	api.GET("/tasks/:id", tasksController.GetTaskStatus)
	api.POST("/tasks/:type/run", tasksController.RunTask)

	if authEnabled && cfg.SessionManager != nil {
		authController := NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.Auditor)
		api.POST("/auth/setup", authController.Setup)
		api.POST("/auth/login", authController.Login)
		api.POST("/auth/logout", authController.Logout)
		api.GET("/auth/me", authController.Me)
		api.GET("/auth/csrf", authController.CSRFToken)
	}

	return router
}
