package services

import (
	"fmt"
	"time"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/lending"
	"github.com/mrlokans/library/internal/validation"
)

// PeopleService implements reader management.
type PeopleService struct {
	people    PersonStore
	validator *validation.PersonValidator
	now       func() time.Time
}

func NewPeopleService(people PersonStore, validator *validation.PersonValidator) *PeopleService {
	return &PeopleService{
		people:    people,
		validator: validator,
		now:       time.Now,
	}
}

func (s *PeopleService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *PeopleService) ListPeople() ([]entities.Person, error) {
	people, err := s.people.FindAllPeople()
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

// GetPerson returns the person with their current loans marked for expiry.
func (s *PeopleService) GetPerson(id uint) (*entities.Person, error) {
	person, err := s.people.FindPersonByID(id)
	if err != nil {
		return nil, lookupError("person", id, err)
	}
	person.Books = lending.MarkOverdue(person.Books, s.now())
	return person, nil
}

func (s *PeopleService) GetPersonByEmail(email string) (*entities.Person, error) {
	person, err := s.people.FindPersonByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to find person by email: %w", err)
	}
	if person == nil {
		return nil, &NotFoundError{Resource: "person", Key: email}
	}
	return person, nil
}

// GetPersonLoans lists the books a person holds, each flagged as expired
// when the loan is past the overdue threshold.
func (s *PeopleService) GetPersonLoans(id uint) ([]entities.Book, error) {
	person, err := s.GetPerson(id)
	if err != nil {
		return nil, err
	}
	if person.Books == nil {
		return []entities.Book{}, nil
	}
	return person.Books, nil
}

func (s *PeopleService) CreatePerson(form validation.PersonForm) (*entities.Person, error) {
	form.ID = 0
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}

	person := &entities.Person{
		FullName:  form.FullName,
		BirthYear: form.BirthYear.Int(),
		Email:     form.Email,
	}
	if err := s.people.SavePerson(person); err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}
	return person, nil
}

// UpdatePerson replaces name, birth year and email. Keeping one's own
// email is not a uniqueness conflict.
func (s *PeopleService) UpdatePerson(id uint, form validation.PersonForm) (*entities.Person, error) {
	person, err := s.people.FindPersonByID(id)
	if err != nil {
		return nil, lookupError("person", id, err)
	}

	form.ID = id
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}

	person.FullName = form.FullName
	person.BirthYear = form.BirthYear.Int()
	person.Email = form.Email
	if err := s.people.SavePerson(person); err != nil {
		return nil, fmt.Errorf("failed to update person %d: %w", id, err)
	}
	person.Books = lending.MarkOverdue(person.Books, s.now())
	return person, nil
}

// DeletePerson removes the person. Books they held become free.
func (s *PeopleService) DeletePerson(id uint) error {
	if err := s.people.DeletePerson(id); err != nil {
		return lookupError("person", id, err)
	}
	return nil
}
