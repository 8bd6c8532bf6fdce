package services

import (
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
)

// BookStore is the persistence gateway for books. Lookups by id return
// gorm.ErrRecordNotFound when nothing matches.
type BookStore interface {
	FindBookByID(id uint) (*entities.Book, error)
	FindAllBooks(opts books.ListOptions) ([]entities.Book, error)
	CountBooks() (int64, error)
	SearchBooksByTitle(fragment string) ([]entities.Book, error)
	FindLoanedBooks() ([]entities.Book, error)
	SaveBook(book *entities.Book) error
	DeleteBook(id uint) error
}

// PersonStore is the persistence gateway for readers. FindPersonByEmail
// returns nil, nil when the address is unused.
type PersonStore interface {
	FindPersonByID(id uint) (*entities.Person, error)
	FindPersonByEmail(email string) (*entities.Person, error)
	FindAllPeople() ([]entities.Person, error)
	SavePerson(person *entities.Person) error
	DeletePerson(id uint) error
}
