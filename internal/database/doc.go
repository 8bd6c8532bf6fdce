// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go  # Connection setup (sqlite or postgres) and migrations
//	├── books/       # Catalogue queries, paging, title search, loans
//	├── people/      # Readers, email lookup, cascade-free on delete
//	└── audit/       # Audit trail persistence
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	booksRepo := books.NewRepository(db.DB)
//	peopleRepo := people.NewRepository(db.DB)
//
//	book, err := booksRepo.FindBookByID(123)
//	person, err := peopleRepo.FindPersonByEmail("johnny@example.com")
//
// Lookups by id return gorm.ErrRecordNotFound when nothing matches; the
// services layer turns that into its own NotFoundError. Lookups by a unique
// field (email) return a nil entity and a nil error instead.
//
// # Interface Implementations
//
//   - books.Repository: implements services.BookStore
//   - people.Repository: implements services.PersonStore and validation.EmailLookup
//   - audit.Repository: implements audit.EventStore
package database
