package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/config"
)

func TestMiddleware_NoAuthMode(t *testing.T) {
	cfg := config.Auth{Mode: config.AuthModeNone}
	middleware := NewMiddleware(nil, nil, cfg)

	router := gin.New()
	router.Use(middleware.Handler())
	router.GET("/api/books", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"librarian_id": GetLibrarianID(c)})
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/books", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// sessionRouter wires sessions and auth the way the server does, plus a
// test-only login route.
func sessionRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()

	cfg := config.Auth{
		Mode:            config.AuthModeLocal,
		SessionLifetime: time.Hour,
		BcryptCost:      4,
	}
	svc := NewService(setupTestDB(t), cfg)

	sqlDB, err := OpenSessionStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("OpenSessionStore() = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	sm, err := NewSessionManager(sqlDB, cfg)
	if err != nil {
		t.Fatalf("NewSessionManager() = %v", err)
	}

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.Use(NewMiddleware(svc, sm, cfg).Handler())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/api/auth/login", func(c *gin.Context) {
		var body struct{ Username, Password string }
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		librarian, err := svc.Authenticate(body.Username, body.Password)
		if err != nil {
			c.Status(http.StatusUnauthorized)
			return
		}
		if err := sm.CreateSession(c.Request, librarian); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	router.GET("/api/books", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"librarian_id": GetLibrarianID(c),
			"username":     GetUsername(c),
		})
	})

	return router, svc
}

func TestMiddleware_LocalMode_RejectsAnonymous(t *testing.T) {
	router, _ := sessionRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/books", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous /api/books status = %d, want 401", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("/health status = %d, want 200", rr.Code)
	}
}

func TestMiddleware_LocalMode_SessionLogin(t *testing.T) {
	router, svc := sessionRouter(t)
	librarian, err := svc.CreateLibrarian("anna", "anna@library.org", testPassword)
	if err != nil {
		t.Fatalf("CreateLibrarian() = %v", err)
	}

	payload, _ := json.Marshal(map[string]string{"Username": "anna", "Password": testPassword})
	loginRR := httptest.NewRecorder()
	router.ServeHTTP(loginRR, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload)))
	if loginRR.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", loginRR.Code)
	}

	cookies := loginRR.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login should set a session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", rr.Code)
	}
	var body struct {
		LibrarianID uint   `json:"librarian_id"`
		Username    string `json:"username"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.LibrarianID != librarian.ID || body.Username != "anna" {
		t.Errorf("context = %+v, want librarian %d", body, librarian.ID)
	}
}

func TestSessionsDatabasePath(t *testing.T) {
	tests := map[string]string{
		"./library.db":         "library-sessions.db",
		"/data/library.sqlite": "/data/library-sessions.sqlite",
		"catalogue":            "catalogue-sessions.db",
	}
	for in, want := range tests {
		if got := SessionsDatabasePath(in); got != want {
			t.Errorf("SessionsDatabasePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewSessionManager_CookieSettings(t *testing.T) {
	sqlDB, err := OpenSessionStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("OpenSessionStore() = %v", err)
	}
	defer sqlDB.Close()

	sm, err := NewSessionManager(sqlDB, config.Auth{SessionLifetime: 2 * time.Hour, SecureCookies: true})
	if err != nil {
		t.Fatalf("NewSessionManager() = %v", err)
	}

	if sm.Cookie.Name != "session" || !sm.Cookie.HttpOnly || !sm.Cookie.Secure {
		t.Errorf("unexpected cookie settings %+v", sm.Cookie)
	}
	if sm.Cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want strict", sm.Cookie.SameSite)
	}
	if sm.IdleTimeout != time.Hour {
		t.Errorf("IdleTimeout = %v, want 1h", sm.IdleTimeout)
	}
}
