// Package people provides database operations for library readers.
package people

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindPersonByID retrieves a person with the books they currently hold.
func (r *Repository) FindPersonByID(id uint) (*entities.Person, error) {
	var person entities.Person
	err := r.db.Preload("Books", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&person, id).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

// FindPersonByEmail returns nil, nil when no one has that email.
func (r *Repository) FindPersonByEmail(email string) (*entities.Person, error) {
	var person entities.Person
	err := r.db.Where("email = ?", email).First(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *Repository) FindAllPeople() ([]entities.Person, error) {
	people := []entities.Person{}
	err := r.db.Order("id ASC").Find(&people).Error
	return people, err
}

// SavePerson inserts or updates the person's own columns. Loans are
// managed from the book side only.
func (r *Repository) SavePerson(person *entities.Person) error {
	return r.db.Omit(clause.Associations).Save(person).Error
}

// DeletePerson frees every book the person holds and removes the person
// in a single transaction.
func (r *Repository) DeletePerson(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entities.Book{}).
			Where("person_id = ?", id).
			Updates(map[string]any{"person_id": nil, "taken_at": nil}).Error
		if err != nil {
			return fmt.Errorf("failed to free books: %w", err)
		}

		result := tx.Delete(&entities.Person{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete person: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
