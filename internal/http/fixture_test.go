package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/people"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/tasks"
	"github.com/mrlokans/library/internal/validation"
)

var testNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

type apiFixture struct {
	db      *database.Database
	books   *services.BooksService
	people  *services.PeopleService
	auditor *audit.Service
	router  *gin.Engine
	now     time.Time
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(config.Database{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "api.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &apiFixture{db: db, now: testNow}
	clock := func() time.Time { return f.now }

	bookRepo := books.NewRepository(db.DB)
	peopleRepo := people.NewRepository(db.DB)

	f.books = services.NewBooksService(bookRepo, peopleRepo, validation.NewBookValidator(clock))
	f.books.SetClock(clock)
	f.people = services.NewPeopleService(peopleRepo, validation.NewPersonValidator(peopleRepo, clock))
	f.people.SetClock(clock)
	f.auditor = audit.NewService(auditrepo.NewRepository(db.DB))
	t.Cleanup(f.auditor.Wait)

	f.router = NewRouter(RouterConfig{
		Books:              f.books,
		People:             f.people,
		Database:           db,
		Auditor:            f.auditor,
		OverdueScanner:     tasks.NewOverdueScanDispatcher(nil, f.books, f.auditor),
		AuditRetentionDays: 90,
		Version:            "test",
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (f *apiFixture) createBook(t *testing.T, title, year string) uint {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/books", map[string]string{
		"title":  title,
		"author": "Test Author",
		"year":   year,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[struct{ ID uint }](t, w).ID
}

func (f *apiFixture) createPerson(t *testing.T, name, email string) uint {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/people", map[string]string{
		"full_name":  name,
		"birth_year": "1970",
		"email":      email,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[struct{ ID uint }](t, w).ID
}
