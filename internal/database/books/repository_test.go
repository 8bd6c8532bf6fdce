package books

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(database.SQLiteDialector(filepath.Join(t.TempDir(), "books.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Person{}, &entities.Book{})
	require.NoError(t, err)

	return db
}

func seedBooks(t *testing.T, repo *Repository, books ...entities.Book) []entities.Book {
	t.Helper()
	for i := range books {
		require.NoError(t, repo.SaveBook(&books[i]))
	}
	return books
}

func titles(books []entities.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestRepository_FindAllBooks(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	seedBooks(t, repo,
		entities.Book{Title: "Test Title2", Author: "B", Year: 2000},
		entities.Book{Title: "Test Title1", Author: "A", Year: 1946},
		entities.Book{Title: "Test Title3", Author: "C", Year: 1812},
	)

	t.Run("all books in id order", func(t *testing.T) {
		books, err := repo.FindAllBooks(ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Test Title2", "Test Title1", "Test Title3"}, titles(books))
	})

	t.Run("sorted ascending by year", func(t *testing.T) {
		books, err := repo.FindAllBooks(ListOptions{SortByYear: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"Test Title3", "Test Title1", "Test Title2"}, titles(books))
	})

	t.Run("zero-based pages", func(t *testing.T) {
		books, err := repo.FindAllBooks(ListOptions{Paged: true, Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"Test Title3"}, titles(books))

		books, err = repo.FindAllBooks(ListOptions{Paged: true, Page: 0, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"Test Title2", "Test Title1"}, titles(books))
	})

	t.Run("paged and sorted", func(t *testing.T) {
		books, err := repo.FindAllBooks(ListOptions{Paged: true, Page: 0, PageSize: 2, SortByYear: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"Test Title3", "Test Title1"}, titles(books))
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		books, err := repo.FindAllBooks(ListOptions{Paged: true, Page: 5, PageSize: 2})
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})

	total, err := repo.CountBooks()
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestRepository_SearchBooksByTitle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	seedBooks(t, repo,
		entities.Book{Title: "Test Title1", Author: "A", Year: 1946},
		entities.Book{Title: "Test Title2", Author: "B", Year: 2000},
		entities.Book{Title: "100% Pure_Go", Author: "C", Year: 2020},
	)

	books, err := repo.SearchBooksByTitle("test")
	require.NoError(t, err)
	assert.Equal(t, []string{"Test Title1", "Test Title2"}, titles(books))

	books, err = repo.SearchBooksByTitle("TITLE2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Test Title2"}, titles(books))

	books, err = repo.SearchBooksByTitle("nothing like this")
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)

	// Wildcards are literal
	books, err = repo.SearchBooksByTitle("%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Pure_Go"}, titles(books))

	books, err = repo.SearchBooksByTitle("e_G")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Pure_Go"}, titles(books))

	books, err = repo.SearchBooksByTitle("t_t")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestRepository_SearchBooksByTitle_Cyrillic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	seedBooks(t, repo,
		entities.Book{Title: "Кобзар", Author: "Тарас Шевченко", Year: 1840},
		entities.Book{Title: "Лісова пісня", Author: "Леся Українка", Year: 1911},
		entities.Book{Title: "Kobzar", Author: "Taras Shevchenko", Year: 1840},
	)

	for _, fragment := range []string{"кобзар", "КОБЗАР", "Кобзар", "кОбЗ"} {
		t.Run(fragment, func(t *testing.T) {
			books, err := repo.SearchBooksByTitle(fragment)
			require.NoError(t, err)
			assert.Equal(t, []string{"Кобзар"}, titles(books))
		})
	}

	books, err := repo.SearchBooksByTitle("ПІСНЯ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Лісова пісня"}, titles(books))
}

func TestRepository_SaveBook_LoanRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	person := entities.Person{FullName: "Johnny Cash", BirthYear: 1932, Email: "johnny@example.com"}
	require.NoError(t, db.Create(&person).Error)

	book := seedBooks(t, repo, entities.Book{Title: "Kobzar", Author: "Taras Shevchenko", Year: 1840})[0]

	takenAt := time.Now().UTC().Truncate(time.Second)
	book.PersonID = &person.ID
	book.Reader = &person
	book.TakenAt = &takenAt
	require.NoError(t, repo.SaveBook(&book))

	found, err := repo.FindBookByID(book.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Reader)
	assert.Equal(t, "Johnny Cash", found.Reader.FullName)
	require.NotNil(t, found.TakenAt)
	assert.True(t, takenAt.Equal(*found.TakenAt))

	loaned, err := repo.FindLoanedBooks()
	require.NoError(t, err)
	require.Len(t, loaned, 1)
	assert.Equal(t, book.ID, loaned[0].ID)

	found.PersonID = nil
	found.Reader = nil
	found.TakenAt = nil
	require.NoError(t, repo.SaveBook(found))

	found, err = repo.FindBookByID(book.ID)
	require.NoError(t, err)
	assert.Nil(t, found.Reader)
	assert.Nil(t, found.TakenAt)

	loaned, err = repo.FindLoanedBooks()
	require.NoError(t, err)
	assert.Empty(t, loaned)
}

func TestRepository_SaveBook_DoesNotWriteReader(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	person := entities.Person{FullName: "Johnny Cash", BirthYear: 1932, Email: "johnny@example.com"}
	require.NoError(t, db.Create(&person).Error)

	person.FullName = "Changed Name"
	book := entities.Book{Title: "Kobzar", Author: "Taras Shevchenko", Year: 1840, PersonID: &person.ID, Reader: &person}
	require.NoError(t, repo.SaveBook(&book))

	var stored entities.Person
	require.NoError(t, db.First(&stored, person.ID).Error)
	assert.Equal(t, "Johnny Cash", stored.FullName)
}

func TestRepository_FindBookByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindBookByID(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteBook(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	book := seedBooks(t, repo, entities.Book{Title: "Kobzar", Author: "Taras Shevchenko", Year: 1840})[0]

	require.NoError(t, repo.DeleteBook(book.ID))

	_, err := repo.FindBookByID(book.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.DeleteBook(book.ID), gorm.ErrRecordNotFound)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\o/`, escapeLike(`50% off_now \o/`))
}
