package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/lending"
	"github.com/mrlokans/library/internal/services"
)

// LoansController lists books currently out with readers.
type LoansController struct {
	books *services.BooksService
}

func NewLoansController(books *services.BooksService) *LoansController {
	return &LoansController{books: books}
}

// ListLoans handles GET /api/loans
func (lc *LoansController) ListLoans(c *gin.Context) {
	loans, err := lc.books.Loans()
	if err != nil {
		respondInternalError(c, err, "list loans")
		return
	}

	overdue := 0
	for _, book := range loans {
		if book.Expired {
			overdue++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"loans":   loans,
		"count":   len(loans),
		"overdue": overdue,
	})
}

// ListOverdue handles GET /api/loans/overdue
func (lc *LoansController) ListOverdue(c *gin.Context) {
	loans, err := lc.books.OverdueLoans()
	if err != nil {
		respondInternalError(c, err, "list overdue loans")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"loans":          loans,
		"count":          len(loans),
		"threshold_days": int(lending.OverdueThreshold.Hours() / 24),
	})
}
