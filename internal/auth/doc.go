// Package auth guards the lending API with librarian accounts.
//
// Two modes are supported:
//   - "none": no authentication, every request is allowed (default)
//   - "local": librarians sign in and are tracked with a session cookie
//
// # Configuration
//
//	AUTH_MODE=local
//	AUTH_SESSION_SECRET=<hex-32-bytes>   # generated per process if empty
//	AUTH_SESSION_LIFETIME=12h
//	AUTH_BCRYPT_COST=12
//	AUTH_SECURE_COOKIES=true
//	AUTH_MAX_LOGIN_ATTEMPTS=5
//	AUTH_LOCKOUT_DURATION=30m
//
// # Usage
//
//	authService := auth.NewService(db, cfg.Auth)
//	sessions, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	router.Use(sessions.SessionLoadSave())
//	router.Use(auth.CSRFMiddleware(secret, cfg.Auth.SecureCookies))
//	router.Use(auth.NewMiddleware(authService, sessions, cfg.Auth).Handler())
//
// Handlers read the signed-in librarian with GetLibrarianID(c).
//
// Sessions live in SQLite. When the catalogue is on SQLite they share its
// database, otherwise a sibling "-sessions" file is opened.
package auth
