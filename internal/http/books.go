package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/validation"
)

// BooksController serves the catalogue and lending endpoints.
type BooksController struct {
	books   *services.BooksService
	auditor *audit.Service
}

// NewBooksController accepts a nil auditor to disable the audit trail.
func NewBooksController(books *services.BooksService, auditor *audit.Service) *BooksController {
	return &BooksController{books: books, auditor: auditor}
}

// AppointRequest is the body of PATCH /api/books/:id/appoint.
type AppointRequest struct {
	PersonID uint `json:"person_id" form:"person_id"`
}

// ListBooks handles GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	var form services.PageForm
	if err := c.ShouldBindQuery(&form); err != nil {
		respondBadRequest(c, "invalid query parameters")
		return
	}

	books, err := bc.books.ListBooks(form)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	total, err := bc.books.CountBooks()
	if err != nil {
		respondInternalError(c, err, "count books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books": books,
		"count": len(books),
		"total": total,
	})
}

// SearchBooks handles GET /api/books/search?title=
func (bc *BooksController) SearchBooks(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		respondBadRequest(c, "title is required")
		return
	}

	books, err := bc.books.SearchBooksByTitle(title)
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books": books,
		"count": len(books),
	})
}

// GetBook handles GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.GetBook(id)
	if err != nil {
		respondServiceError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// GetBookReader handles GET /api/books/:id/reader
func (bc *BooksController) GetBookReader(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reader, err := bc.books.GetBookReader(id)
	if err != nil {
		respondServiceError(c, err, "get book reader")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reader": reader})
}

// CreateBook handles POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var form validation.BookForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := bc.books.CreateBook(form)
	if err != nil {
		respondServiceError(c, err, "create book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogChange(actorFrom(c), entities.AuditEventCreate, "book", book.ID, book.Title)
	}
	respondCreated(c, book)
}

// UpdateBook handles PATCH /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var form validation.BookForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := bc.books.UpdateBook(id, form)
	if err != nil {
		respondServiceError(c, err, "update book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogChange(actorFrom(c), entities.AuditEventUpdate, "book", book.ID, book.Title)
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook handles DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.books.DeleteBook(id); err != nil {
		respondServiceError(c, err, "delete book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogDelete(actorFrom(c), "book", id)
	}
	respondSuccess(c, "book deleted")
}

// AppointReader handles PATCH /api/books/:id/appoint
func (bc *BooksController) AppointReader(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AppointRequest
	if err := c.ShouldBind(&req); err != nil || req.PersonID == 0 {
		respondBadRequest(c, "person_id is required")
		return
	}

	book, err := bc.books.AppointReader(id, req.PersonID)
	if err != nil {
		respondServiceError(c, err, "appoint reader")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogAppoint(actorFrom(c), book)
	}
	c.JSON(http.StatusOK, book)
}

// FreeBook handles PATCH /api/books/:id/free
func (bc *BooksController) FreeBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.FreeBook(id)
	if err != nil {
		respondServiceError(c, err, "free book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogFree(actorFrom(c), book)
	}
	c.JSON(http.StatusOK, book)
}
