// Command generate_demo creates a demo database with public domain books,
// a few readers and a mix of fresh and overdue loans.
// Usage: go run ./cmd/generate_demo [-db path/to/demo.db]
package main

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/people"
	"github.com/mrlokans/library/internal/logger"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/validation"
)

const defaultDemoDatabasePath = "./demo/demo.db"

type demoLoan struct {
	Book    string
	Reader  string // email
	DaysAgo int
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	logger.Init("development", "info")
	log.Info().Str("path", *dbPath).Msg("Generating demo database")

	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatal().Err(err).Msg("Failed to remove existing demo database")
	}

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create demo directory")
	}

	db, err := database.NewDatabase(config.Database{Driver: config.DriverSQLite, Path: *dbPath})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create database")
	}
	defer db.Close()

	bookRepo := books.NewRepository(db.DB)
	peopleRepo := people.NewRepository(db.DB)
	booksService := services.NewBooksService(bookRepo, peopleRepo, validation.NewBookValidator(nil))
	peopleService := services.NewPeopleService(peopleRepo, validation.NewPersonValidator(peopleRepo, nil))

	bookIDs := map[string]uint{}
	for _, form := range publicDomainBooks() {
		book, err := booksService.CreateBook(form)
		if err != nil {
			log.Error().Err(err).Str("title", form.Title).Msg("Failed to save book")
			continue
		}
		bookIDs[book.Title] = book.ID
		log.Info().Str("title", book.Title).Str("author", book.Author).Msg("Saved book")
	}

	personIDs := map[string]uint{}
	for _, form := range readers() {
		person, err := peopleService.CreatePerson(form)
		if err != nil {
			log.Error().Err(err).Str("email", form.Email).Msg("Failed to save reader")
			continue
		}
		personIDs[person.Email] = person.ID
	}

	now := time.Now()
	for _, loan := range loans() {
		takenAt := now.AddDate(0, 0, -loan.DaysAgo)
		booksService.SetClock(func() time.Time { return takenAt })

		if _, err := booksService.AppointReader(bookIDs[loan.Book], personIDs[loan.Reader]); err != nil {
			log.Error().Err(err).Str("title", loan.Book).Msg("Failed to lend book")
			continue
		}
		log.Info().Str("title", loan.Book).Str("reader", loan.Reader).Int("days_ago", loan.DaysAgo).Msg("Lent book")
	}
	booksService.SetClock(time.Now)

	overdue, err := booksService.OverdueLoans()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count overdue loans")
	}
	log.Info().
		Int("books", len(bookIDs)).
		Int("readers", len(personIDs)).
		Int("overdue", len(overdue)).
		Msg("Demo database generated")
}

func publicDomainBooks() []validation.BookForm {
	return []validation.BookForm{
		{Title: "Pride and Prejudice", Author: "Jane Austen", Year: "1813"},
		{Title: "Frankenstein", Author: "Mary Shelley", Year: "1818"},
		{Title: "Kobzar", Author: "Taras Shevchenko", Year: "1840"},
		{Title: "Moby-Dick", Author: "Herman Melville", Year: "1851"},
		{Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Year: "1866"},
		{Title: "War and Peace", Author: "Leo Tolstoy", Year: "1869"},
		{Title: "The Adventures of Tom Sawyer", Author: "Mark Twain", Year: "1876"},
		{Title: "Zakhar Berkut", Author: "Ivan Franko", Year: "1883"},
		{Title: "The Picture of Dorian Gray", Author: "Oscar Wilde", Year: "1890"},
		{Title: "The Time Machine", Author: "H. G. Wells", Year: "1895"},
		{Title: "Lisova Pisnia", Author: "Lesya Ukrainka", Year: "1911"},
		{Title: "The Metamorphosis", Author: "Franz Kafka", Year: "1915"},
	}
}

func readers() []validation.PersonForm {
	return []validation.PersonForm{
		{FullName: "Johnny Cash", BirthYear: "1932", Email: "johnny@example.com"},
		{FullName: "June Carter", BirthYear: "1929", Email: "june@example.com"},
		{FullName: "Остапенко Андрій Вікторович", BirthYear: "1985", Email: "andrii@example.com"},
		{FullName: "Коваленко Оксана", BirthYear: "1999", Email: "oksana@example.com"},
	}
}

func loans() []demoLoan {
	return []demoLoan{
		{Book: "Kobzar", Reader: "andrii@example.com", DaysAgo: 3},
		{Book: "Moby-Dick", Reader: "johnny@example.com", DaysAgo: 14},
		{Book: "War and Peace", Reader: "johnny@example.com", DaysAgo: 30},
		{Book: "Zakhar Berkut", Reader: "oksana@example.com", DaysAgo: 9},
		{Book: "Frankenstein", Reader: "june@example.com", DaysAgo: 11},
	}
}
