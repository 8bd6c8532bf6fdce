// Package lending holds the rules for lending books to readers and for
// deciding when a loan has run past its allowed period.
package lending

import (
	"time"

	"github.com/mrlokans/library/internal/entities"
)

// OverdueThreshold is the loan period after which a book counts as expired.
const OverdueThreshold = 10 * 24 * time.Hour

// Appoint lends the book to person. An existing loan is overwritten.
func Appoint(book *entities.Book, person *entities.Person, now time.Time) {
	id := person.ID
	takenAt := now
	book.PersonID = &id
	book.Reader = person
	book.TakenAt = &takenAt
}

// Free returns the book to the library. Freeing a free book is a no-op.
func Free(book *entities.Book) {
	book.PersonID = nil
	book.Reader = nil
	book.TakenAt = nil
}

// IsOverdue reports whether a loan taken at takenAt is past the threshold.
// The difference is taken as an absolute value so clock skew never hides a
// stale loan; exactly OverdueThreshold is still in time.
func IsOverdue(takenAt *time.Time, now time.Time) bool {
	if takenAt == nil {
		return false
	}
	diff := now.Sub(*takenAt)
	if diff < 0 {
		diff = -diff
	}
	return diff > OverdueThreshold
}

// MarkOverdue sets Expired on every book in place and returns the slice
// in its original order.
func MarkOverdue(books []entities.Book, now time.Time) []entities.Book {
	for i := range books {
		books[i].Expired = IsOverdue(books[i].TakenAt, now)
	}
	return books
}
