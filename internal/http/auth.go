package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/auth"
)

// AuthController exposes librarian sign-in over JSON.
type AuthController struct {
	service  *auth.Service
	sessions *auth.SessionManager
	auditor  *audit.Service
}

func NewAuthController(service *auth.Service, sessions *auth.SessionManager, auditor *audit.Service) *AuthController {
	return &AuthController{service: service, sessions: sessions, auditor: auditor}
}

// SetupRequest creates the first librarian account.
type SetupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest accepts a username or an email in Username.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Setup handles POST /api/auth/setup
func (ac *AuthController) Setup(c *gin.Context) {
	var req SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	librarian, err := ac.service.Setup(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrSetupCompleted), errors.Is(err, auth.ErrLibrarianExists):
			respondError(c, http.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrUsernameRequired),
			errors.Is(err, auth.ErrEmailRequired),
			errors.Is(err, auth.ErrPasswordRequired),
			errors.Is(err, auth.ErrUsernameInvalid),
			errors.Is(err, auth.ErrEmailInvalid),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "librarian setup")
		}
		return
	}

	if err := ac.sessions.CreateSession(c.Request, librarian); err != nil {
		respondInternalError(c, err, "create session")
		return
	}

	ac.logAuth(c, librarian.ID, "setup", true)
	respondCreated(c, librarian)
}

// Login handles POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		respondBadRequest(c, "username and password are required")
		return
	}

	librarian, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		ac.logAuth(c, 0, "login", false)
		switch {
		case errors.Is(err, auth.ErrAccountLocked):
			respondError(c, http.StatusLocked, err.Error())
		case errors.Is(err, auth.ErrLibrarianNotFound), errors.Is(err, auth.ErrInvalidPassword):
			respondError(c, http.StatusUnauthorized, "invalid credentials")
		default:
			respondInternalError(c, err, "authenticate")
		}
		return
	}

	if err := ac.sessions.CreateSession(c.Request, librarian); err != nil {
		respondInternalError(c, err, "create session")
		return
	}

	ac.logAuth(c, librarian.ID, "login", true)
	c.JSON(http.StatusOK, librarian)
}

// Logout handles POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	librarianID := auth.GetLibrarianID(c)
	if err := ac.sessions.DestroySession(c.Request); err != nil {
		respondInternalError(c, err, "destroy session")
		return
	}

	ac.logAuth(c, librarianID, "logout", true)
	respondSuccess(c, "logged out")
}

// Me handles GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	id := auth.GetLibrarianID(c)
	if id == 0 {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	librarian, err := ac.service.GetLibrarianByID(id)
	if err != nil {
		respondServiceError(c, err, "current librarian")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"librarian": librarian,
		"login_at":  ac.sessions.GetLoginAt(c.Request),
	})
}

// CSRFToken handles GET /api/auth/csrf
func (ac *AuthController) CSRFToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrf_token": auth.GetCSRFToken(c)})
}

func (ac *AuthController) logAuth(c *gin.Context, librarianID uint, action string, success bool) {
	if ac.auditor == nil {
		return
	}
	actor := actorFrom(c)
	if librarianID != 0 {
		actor.LibrarianID = &librarianID
	}
	ac.auditor.LogAuth(actor, action, success)
}
