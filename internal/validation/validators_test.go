package validation

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/entities"
)

func fixedClock(year int) Clock {
	return func() time.Time {
		return time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)
	}
}

type mockEmailLookup struct {
	people map[string]*entities.Person
	err    error
	calls  int
}

func (m *mockEmailLookup) FindPersonByEmail(email string) (*entities.Person, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.people[email], nil
}

func validBookForm() BookForm {
	return BookForm{Title: "Test Title1", Author: "Test Author", Year: "1946"}
}

func validPersonForm() PersonForm {
	return PersonForm{FullName: "Johnny Cash", BirthYear: "1932", Email: "johnny@example.com"}
}

func TestBookValidator_Valid(t *testing.T) {
	v := NewBookValidator(fixedClock(2024))
	assert.NoError(t, v.Validate(validBookForm()))
}

func TestBookValidator_YearRange(t *testing.T) {
	v := NewBookValidator(fixedClock(2024))

	tests := []struct {
		year  YearText
		valid bool
	}{
		{"1399", false},
		{"1400", true},
		{"1946", true},
		{"2024", true},
		{"2025", false},
		{"9999", false},
		{"0000", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.year), func(t *testing.T) {
			form := validBookForm()
			form.Year = tt.year

			err := v.Validate(form)
			if tt.valid {
				assert.NoError(t, err)
				return
			}

			errs, ok := AsErrors(err)
			require.True(t, ok)
			require.Len(t, errs, 1)
			assert.Equal(t, FieldYear, errs[0].Field)
			assert.Equal(t, "Year must be between 1400 and 2024", errs[0].Message)
		})
	}
}

func TestBookValidator_MalformedYearReportedOnce(t *testing.T) {
	v := NewBookValidator(fixedClock(2024))

	for _, year := range []YearText{"", "19x6", "946", "20245"} {
		t.Run(string(year), func(t *testing.T) {
			form := validBookForm()
			form.Year = year

			errs, ok := AsErrors(v.Validate(form))
			require.True(t, ok)
			assert.Len(t, errs.Messages(FieldYear), 1)
		})
	}
}

func TestBookValidator_StructuralMessages(t *testing.T) {
	v := NewBookValidator(fixedClock(2024))

	errs, ok := AsErrors(v.Validate(BookForm{}))
	require.True(t, ok)

	assert.Equal(t, Errors{
		{Field: FieldTitle, Message: "Enter book title"},
		{Field: FieldAuthor, Message: "Enter author"},
		{Field: FieldYear, Message: "Year cannot be empty"},
	}, errs)
}

func TestBookValidator_LengthBounds(t *testing.T) {
	v := NewBookValidator(fixedClock(2024))

	form := validBookForm()
	form.Title = "A"
	form.Author = string(make([]rune, 151))

	errs, ok := AsErrors(v.Validate(form))
	require.True(t, ok)
	assert.True(t, errs.Has(FieldTitle))
	assert.True(t, errs.Has(FieldAuthor))
	assert.False(t, errs.Has(FieldYear))

	// Length counts characters, not bytes
	form = validBookForm()
	form.Title = "Кобзар"
	assert.NoError(t, v.Validate(form))
}

func TestPersonValidator_Valid(t *testing.T) {
	lookup := &mockEmailLookup{}
	v := NewPersonValidator(lookup, fixedClock(2024))

	assert.NoError(t, v.Validate(validPersonForm()))
	assert.Equal(t, 1, lookup.calls)
}

func TestPersonValidator_NameShape(t *testing.T) {
	v := NewPersonValidator(&mockEmailLookup{}, fixedClock(2024))

	tests := []struct {
		name  string
		valid bool
	}{
		{"Johnny Cash", true},
		{"Jean Luc Picard", true},
		{"Остапенко Андрій", true},
		{"Остапенко Андрій Вікторович", true},
		{"Джонні", false},
		{"остапенко андрій", false},
		{"Остапенко Андрій Вікторович Зайвий", false},
		{"Johnny", false},
		{"Johnny  Cash", false},
		{"Johnny Cash 3rd", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validPersonForm()
			form.FullName = tt.name

			err := v.Validate(form)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			errs, ok := AsErrors(err)
			require.True(t, ok)
			assert.Equal(t, []string{`Enter the name in the format "Johnny Cash" or "Остапенко Андрій Вікторович"`},
				errs.Messages(FieldFullName))
		})
	}
}

func TestPersonValidator_BirthYearRange(t *testing.T) {
	v := NewPersonValidator(&mockEmailLookup{}, fixedClock(2024))

	for _, year := range []YearText{"1899", "2025"} {
		t.Run(string(year), func(t *testing.T) {
			form := validPersonForm()
			form.BirthYear = year

			errs, ok := AsErrors(v.Validate(form))
			require.True(t, ok)
			require.Len(t, errs, 1)
			assert.Equal(t, FieldBirthYear, errs[0].Field)
			assert.Equal(t, "Year must be between 1900 and 2024", errs[0].Message)
		})
	}

	for _, year := range []YearText{"1900", "2024"} {
		form := validPersonForm()
		form.BirthYear = year
		assert.NoError(t, v.Validate(form), "year %s", year)
	}
}

func TestPersonValidator_EmailUniqueness(t *testing.T) {
	lookup := &mockEmailLookup{people: map[string]*entities.Person{
		"johnny@example.com": {ID: 5, Email: "johnny@example.com"},
	}}
	v := NewPersonValidator(lookup, fixedClock(2024))

	t.Run("taken by another person", func(t *testing.T) {
		form := validPersonForm()

		errs, ok := AsErrors(v.Validate(form))
		require.True(t, ok)
		assert.Equal(t, Errors{{Field: FieldEmail, Message: "A user with this email already exists"}}, errs)
	})

	t.Run("same person keeps own email", func(t *testing.T) {
		form := validPersonForm()
		form.ID = 5

		assert.NoError(t, v.Validate(form))
	})

	t.Run("errors accumulate", func(t *testing.T) {
		form := validPersonForm()
		form.BirthYear = "1800"

		errs, ok := AsErrors(v.Validate(form))
		require.True(t, ok)
		assert.Len(t, errs, 2)
		assert.True(t, errs.Has(FieldBirthYear))
		assert.True(t, errs.Has(FieldEmail))
	})
}

func TestPersonValidator_MalformedEmailSkipsLookup(t *testing.T) {
	lookup := &mockEmailLookup{}
	v := NewPersonValidator(lookup, fixedClock(2024))

	form := validPersonForm()
	form.Email = "not-an-email"

	errs, ok := AsErrors(v.Validate(form))
	require.True(t, ok)
	assert.Equal(t, []string{"Enter correct Email"}, errs.Messages(FieldEmail))
	assert.Equal(t, 0, lookup.calls)
}

func TestPersonValidator_LookupFailure(t *testing.T) {
	lookup := &mockEmailLookup{err: errors.New("db down")}
	v := NewPersonValidator(lookup, fixedClock(2024))

	err := v.Validate(validPersonForm())
	require.Error(t, err)
	_, ok := AsErrors(err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "db down")
}

func TestYearText_UnmarshalJSON(t *testing.T) {
	var form BookForm

	require.NoError(t, json.Unmarshal([]byte(`{"title":"T","author":"A","year":1946}`), &form))
	assert.Equal(t, YearText("1946"), form.Year)
	assert.Equal(t, 1946, form.Year.Int())

	require.NoError(t, json.Unmarshal([]byte(`{"year":"2000"}`), &form))
	assert.Equal(t, YearText("2000"), form.Year)

	require.NoError(t, json.Unmarshal([]byte(`{"year":null}`), &form))
	assert.Equal(t, YearText(""), form.Year)

	assert.Error(t, json.Unmarshal([]byte(`{"year":true}`), &form))
}
