package auth

import (
	"database/sql"
	"encoding/gob"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/entities"
)

// Session data keys
const (
	SessionKeyLibrarianID = "librarian_id"
	SessionKeyUsername    = "username"
	SessionKeyLoginAt     = "login_at"
)

const sessionsSchema = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

func init() {
	gob.Register(time.Time{})
}

// SessionManager wraps scs.SessionManager with librarian-specific helpers.
type SessionManager struct {
	*scs.SessionManager
}

// SessionsDatabasePath derives the session store path from the main
// database path, e.g. ./library.db -> ./library-sessions.db.
func SessionsDatabasePath(mainPath string) string {
	dir := filepath.Dir(mainPath)
	base := filepath.Base(mainPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".db"
	}
	return filepath.Join(dir, name+"-sessions"+ext)
}

// OpenSessionStore opens a standalone SQLite database for sessions.
// Used when the catalogue lives in Postgres.
func OpenSessionStore(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sessions database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sessions database: %w", err)
	}
	return db, nil
}

// NewSessionManager creates a session manager backed by a SQLite *sql.DB.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	if _, err := sqlDB.Exec(sessionsSchema); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession stores the librarian in a freshly renewed session.
func (sm *SessionManager) CreateSession(r *http.Request, librarian *entities.Librarian) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	sm.Put(r.Context(), SessionKeyLibrarianID, int(librarian.ID))
	sm.Put(r.Context(), SessionKeyUsername, librarian.Username)
	sm.Put(r.Context(), SessionKeyLoginAt, time.Now())

	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetLibrarianID returns the session's librarian ID, or 0 if anonymous.
func (sm *SessionManager) GetLibrarianID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyLibrarianID))
}

// GetUsername retrieves the username from the session.
func (sm *SessionManager) GetUsername(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyUsername)
}

// GetLoginAt returns when the session was created.
func (sm *SessionManager) GetLoginAt(r *http.Request) time.Time {
	loginAt, _ := sm.Get(r.Context(), SessionKeyLoginAt).(time.Time)
	return loginAt
}
