package services

import (
	"strconv"
	"strings"

	"github.com/mrlokans/library/internal/database/books"
)

// PageForm carries the raw listing parameters as typed by the user.
type PageForm struct {
	Page         string `form:"page" json:"page"`
	BooksPerPage string `form:"books_per_page" json:"books_per_page"`
	SortByYear   string `form:"sort_by_year" json:"sort_by_year"`
}

// ListQuery is a PageForm after lenient parsing. Blank or malformed values
// are treated as absent rather than as errors.
type ListQuery struct {
	Page        int
	PageSize    int
	HasPage     bool
	HasPageSize bool
	SortByYear  bool
}

func ParsePageForm(form PageForm) ListQuery {
	q := ListQuery{}
	if n, ok := parseNonNegative(form.Page); ok {
		q.Page, q.HasPage = n, true
	}
	if n, ok := parseNonNegative(form.BooksPerPage); ok && n > 0 {
		q.PageSize, q.HasPageSize = n, true
	}
	q.SortByYear = parseFlag(form.SortByYear)
	return q
}

// Paged reports whether both paging parameters were supplied.
func (q ListQuery) Paged() bool {
	return q.HasPage && q.HasPageSize
}

// Options applies the listing decision table:
//
//	page + size + sort -> paged, sorted by year
//	page + size        -> paged, storage order
//	sort               -> everything, sorted by year
//	otherwise          -> everything, storage order
func (q ListQuery) Options() books.ListOptions {
	if q.Paged() {
		return books.ListOptions{Paged: true, Page: q.Page, PageSize: q.PageSize, SortByYear: q.SortByYear}
	}
	return books.ListOptions{SortByYear: q.SortByYear}
}

func parseNonNegative(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// parseFlag accepts the spellings forms and query strings use for true:
// strconv.ParseBool's set plus "on" and "yes". Anything else is false.
func parseFlag(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "on", "yes":
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
