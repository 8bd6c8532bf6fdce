// Package books provides database operations for the book catalogue and
// the loans recorded on it.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.FindBookByID(123)
package books

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

// ListOptions controls FindAllBooks. Page is zero-based and only used when
// Paged is set.
type ListOptions struct {
	Paged      bool
	Page       int
	PageSize   int
	SortByYear bool
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindBookByID retrieves a book with its current reader.
func (r *Repository) FindBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Reader").First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindAllBooks lists books by id, or by year when SortByYear is set.
// Books sharing a year keep id order so pages are stable.
func (r *Repository) FindAllBooks(opts ListOptions) ([]entities.Book, error) {
	books := []entities.Book{}

	query := r.db.Model(&entities.Book{})
	if opts.SortByYear {
		query = query.Order("year ASC").Order("id ASC")
	} else {
		query = query.Order("id ASC")
	}
	if opts.Paged {
		query = query.Offset(opts.Page * opts.PageSize).Limit(opts.PageSize)
	}

	err := query.Find(&books).Error
	return books, err
}

// CountBooks returns the size of the catalogue.
func (r *Repository) CountBooks() (int64, error) {
	var total int64
	err := r.db.Model(&entities.Book{}).Count(&total).Error
	return total, err
}

// SearchBooksByTitle matches a case-insensitive substring of the title.
// LIKE wildcards in the fragment are matched literally. Readers are
// preloaded so callers can show who holds each book.
func (r *Repository) SearchBooksByTitle(fragment string) ([]entities.Book, error) {
	books := []entities.Book{}
	searchPattern := "%" + escapeLike(fragment) + "%"
	lower := r.lowerFunc()
	err := r.db.Preload("Reader").
		Where(lower+`(title) LIKE `+lower+`(?) ESCAPE '\'`, searchPattern).
		Order("id ASC").
		Find(&books).Error
	return books, err
}

// lowerFunc names the SQL case-folding function. Postgres LOWER is
// Unicode-aware; SQLite needs the function registered by the database package.
func (r *Repository) lowerFunc() string {
	if r.db.Dialector.Name() == "sqlite" {
		return database.UnicodeLowerFunc
	}
	return "LOWER"
}

// FindLoanedBooks returns every book that currently has a reader.
func (r *Repository) FindLoanedBooks() ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.Preload("Reader").
		Where("person_id IS NOT NULL").
		Order("taken_at ASC").Order("id ASC").
		Find(&books).Error
	return books, err
}

// SaveBook inserts or fully updates the book's own columns, including the
// loan pair. The Reader association is never written through a book.
func (r *Repository) SaveBook(book *entities.Book) error {
	return r.db.Omit(clause.Associations).Save(book).Error
}

// DeleteBook removes a book. It returns gorm.ErrRecordNotFound if no row
// had that id.
func (r *Repository) DeleteBook(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
