package services

import (
	"fmt"
	"time"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/lending"
	"github.com/mrlokans/library/internal/validation"
)

// BooksService implements catalogue operations and lending on top of the
// book and person stores.
type BooksService struct {
	books     BookStore
	people    PersonStore
	validator *validation.BookValidator
	now       func() time.Time
}

func NewBooksService(books BookStore, people PersonStore, validator *validation.BookValidator) *BooksService {
	return &BooksService{
		books:     books,
		people:    people,
		validator: validator,
		now:       time.Now,
	}
}

// SetClock replaces the time source used for loan timestamps and overdue checks.
func (s *BooksService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *BooksService) ListBooks(form PageForm) ([]entities.Book, error) {
	books, err := s.books.FindAllBooks(ParsePageForm(form).Options())
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

func (s *BooksService) CountBooks() (int64, error) {
	return s.books.CountBooks()
}

// SearchBooksByTitle never returns a nil slice on success.
func (s *BooksService) SearchBooksByTitle(fragment string) ([]entities.Book, error) {
	books, err := s.books.SearchBooksByTitle(fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	if books == nil {
		books = []entities.Book{}
	}
	return books, nil
}

// GetBook returns the book with its reader and expiry flag.
func (s *BooksService) GetBook(id uint) (*entities.Book, error) {
	book, err := s.books.FindBookByID(id)
	if err != nil {
		return nil, lookupError("book", id, err)
	}
	book.Expired = lending.IsOverdue(book.TakenAt, s.now())
	return book, nil
}

// GetBookReader returns nil, nil when the book is not on loan.
func (s *BooksService) GetBookReader(id uint) (*entities.Person, error) {
	book, err := s.books.FindBookByID(id)
	if err != nil {
		return nil, lookupError("book", id, err)
	}
	return book.Reader, nil
}

func (s *BooksService) CreateBook(form validation.BookForm) (*entities.Book, error) {
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}

	book := &entities.Book{
		Title:  form.Title,
		Author: form.Author,
		Year:   form.Year.Int(),
	}
	if err := s.books.SaveBook(book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

// UpdateBook replaces title, author and year. The current loan is kept.
func (s *BooksService) UpdateBook(id uint, form validation.BookForm) (*entities.Book, error) {
	book, err := s.books.FindBookByID(id)
	if err != nil {
		return nil, lookupError("book", id, err)
	}
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}

	book.Title = form.Title
	book.Author = form.Author
	book.Year = form.Year.Int()
	if err := s.books.SaveBook(book); err != nil {
		return nil, fmt.Errorf("failed to update book %d: %w", id, err)
	}
	return book, nil
}

func (s *BooksService) DeleteBook(id uint) error {
	if err := s.books.DeleteBook(id); err != nil {
		return lookupError("book", id, err)
	}
	return nil
}

// AppointReader lends the book to the person. Lending a book that is
// already out replaces the previous reader.
func (s *BooksService) AppointReader(bookID, personID uint) (*entities.Book, error) {
	book, err := s.books.FindBookByID(bookID)
	if err != nil {
		return nil, lookupError("book", bookID, err)
	}
	person, err := s.people.FindPersonByID(personID)
	if err != nil {
		return nil, lookupError("person", personID, err)
	}
	// The reader's own loan list is not part of the response.
	person.Books = nil

	lending.Appoint(book, person, s.now())
	if err := s.books.SaveBook(book); err != nil {
		return nil, fmt.Errorf("failed to appoint reader for book %d: %w", bookID, err)
	}
	return book, nil
}

// FreeBook returns the book to the library. A free book is returned as is
// without a write.
func (s *BooksService) FreeBook(id uint) (*entities.Book, error) {
	book, err := s.books.FindBookByID(id)
	if err != nil {
		return nil, lookupError("book", id, err)
	}

	if !book.OnLoan() {
		return book, nil
	}

	lending.Free(book)
	if err := s.books.SaveBook(book); err != nil {
		return nil, fmt.Errorf("failed to free book %d: %w", id, err)
	}
	return book, nil
}

// Loans returns every book on loan, oldest loan first, with expiry flags.
func (s *BooksService) Loans() ([]entities.Book, error) {
	books, err := s.books.FindLoanedBooks()
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return lending.MarkOverdue(books, s.now()), nil
}

// OverdueLoans returns only the loans past the overdue threshold.
func (s *BooksService) OverdueLoans() ([]entities.Book, error) {
	loans, err := s.Loans()
	if err != nil {
		return nil, err
	}

	overdue := []entities.Book{}
	for _, book := range loans {
		if book.Expired {
			overdue = append(overdue, book)
		}
	}
	return overdue, nil
}
