package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/demo"
)

func TestDemoMode_ServesCatalogueReadOnly(t *testing.T) {
	f := setupAPI(t)
	bookID := f.createBook(t, "Kobzar", "1840")
	personID := f.createPerson(t, "Johnny Cash", "johnny@example.com")

	f.router = NewRouter(RouterConfig{
		Books:    f.books,
		People:   f.people,
		Database: f.db,
		Demo:     demo.NewMiddleware(true),
		Version:  "test",
	})

	w := f.do(t, http.MethodGet, "/api/books/"+itoa(bookID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPatch, "/api/books/"+itoa(bookID)+"/appoint", map[string]uint{"person_id": personID})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "demo_mode", decode[ErrorResponse](t, w).Code)

	book, err := f.books.GetBook(bookID)
	require.NoError(t, err)
	assert.Nil(t, book.PersonID)
}
