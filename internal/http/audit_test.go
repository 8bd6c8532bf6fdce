package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/entities"
)

type auditPage struct {
	Events  []entities.AuditEvent `json:"events"`
	Total   int64                 `json:"total"`
	Limit   int                   `json:"limit"`
	HasMore bool                  `json:"has_more"`
}

func TestAuditController_GetAuditEvents(t *testing.T) {
	f := setupAPI(t)
	bookID := f.createBook(t, "Kobzar", "1840")
	f.createPerson(t, "Ivan Petrenko", "ivan@example.com")
	f.do(t, http.MethodDelete, "/api/books/"+itoa(bookID), nil)
	f.auditor.Wait()

	w := f.do(t, http.MethodGet, "/api/audit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[auditPage](t, w)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 25, page.Limit)
	assert.False(t, page.HasMore)

	w = f.do(t, http.MethodGet, "/api/audit?type=delete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[auditPage](t, w)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "Deleted book "+itoa(bookID), page.Events[0].Description)

	w = f.do(t, http.MethodGet, "/api/audit?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[auditPage](t, w)
	assert.Len(t, page.Events, 1)
	assert.True(t, page.HasMore)

	w = f.do(t, http.MethodGet, "/api/audit?entity_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
