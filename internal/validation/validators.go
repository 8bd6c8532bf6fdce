// Package validation checks book and reader input before it is persisted.
//
// Checks run in two layers. Structural rules (presence, length, shape) come
// first; semantic rules (year ranges, email uniqueness) only run for fields
// the structural layer left clean, so a field is never reported twice.
package validation

import (
	"fmt"
	"time"

	"github.com/mrlokans/library/internal/entities"
)

const (
	MinBookYear   = 1400
	MinBirthYear  = 1900
	msgEmailTaken = "A user with this email already exists"
)

// Clock returns the current time. Validators take one so that the
// "current year" bound can be pinned in tests.
type Clock func() time.Time

func (c Clock) year() int {
	if c == nil {
		return time.Now().Year()
	}
	return c().Year()
}

// BookValidator validates BookForm input.
type BookValidator struct {
	now Clock
}

func NewBookValidator(now Clock) *BookValidator {
	return &BookValidator{now: now}
}

// Validate returns nil, an Errors value, or an unexpected failure.
func (v *BookValidator) Validate(form BookForm) error {
	errs, err := collect(form.Validate(), bookFields)
	if err != nil {
		return err
	}

	if !errs.Has(FieldYear) {
		checkYearRange(&errs, FieldYear, form.Year.Int(), MinBookYear, v.now.year())
	}

	return errs.orNil()
}

// EmailLookup finds a person by exact email. A nil person with a nil error
// means nobody uses the address.
type EmailLookup interface {
	FindPersonByEmail(email string) (*entities.Person, error)
}

// PersonValidator validates PersonForm input, including email uniqueness.
type PersonValidator struct {
	people EmailLookup
	now    Clock
}

func NewPersonValidator(people EmailLookup, now Clock) *PersonValidator {
	return &PersonValidator{people: people, now: now}
}

func (v *PersonValidator) Validate(form PersonForm) error {
	errs, err := collect(form.Validate(), personFields)
	if err != nil {
		return err
	}

	if !errs.Has(FieldBirthYear) {
		checkYearRange(&errs, FieldBirthYear, form.BirthYear.Int(), MinBirthYear, v.now.year())
	}

	if !errs.Has(FieldEmail) {
		existing, err := v.people.FindPersonByEmail(form.Email)
		if err != nil {
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		// A match on the person's own id is an update keeping the same email.
		if existing != nil && existing.ID != form.ID {
			errs.Add(FieldEmail, msgEmailTaken)
		}
	}

	return errs.orNil()
}

func checkYearRange(errs *Errors, field string, year, min, currentYear int) {
	if year < min || year > currentYear {
		errs.Add(field, fmt.Sprintf("Year must be between %d and %d", min, currentYear))
	}
}
