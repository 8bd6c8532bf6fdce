package validation

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	FieldTitle     = "title"
	FieldAuthor    = "author"
	FieldYear      = "year"
	FieldFullName  = "full_name"
	FieldBirthYear = "birth_year"
	FieldEmail     = "email"
)

var (
	yearPattern = regexp.MustCompile(`^\d{4}$`)

	// Latin "Johnny Cash" style, or Cyrillic "Surname Given [Patronymic]".
	fullNamePattern = regexp.MustCompile(
		`^(?:[A-Za-z]+(?:\s[A-Za-z]+)+|[А-ЩЬЮЯЇІЄҐ][а-щьюяїієґ']+(?: [А-ЩЬЮЯЇІЄҐ][а-щьюяїієґ']+){1,2})$`)

	bookFields   = []string{FieldTitle, FieldAuthor, FieldYear}
	personFields = []string{FieldFullName, FieldBirthYear, FieldEmail}
)

// YearText is a year as typed by the user. It accepts both JSON strings and
// JSON numbers so that "1946" and 1946 decode to the same value.
type YearText string

func (y *YearText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = YearText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*y = YearText(n.String())
	return nil
}

// Int parses the year. Callers only rely on it after validation passed.
func (y YearText) Int() int {
	n, _ := strconv.Atoi(string(y))
	return n
}

// BookForm is the input for creating or updating a book.
type BookForm struct {
	Title  string   `json:"title" form:"title"`
	Author string   `json:"author" form:"author"`
	Year   YearText `json:"year" form:"year"`
}

// Validate runs the structural checks: presence, length and year shape.
func (f BookForm) Validate() error {
	return ozzo.ValidateStruct(&f,
		ozzo.Field(&f.Title,
			ozzo.Required.Error("Enter book title"),
			ozzo.RuneLength(2, 150).Error("The title of the book must be between 2 and 150 characters"),
		),
		ozzo.Field(&f.Author,
			ozzo.Required.Error("Enter author"),
			ozzo.RuneLength(2, 150).Error("The author name must be between 2 and 150 characters"),
		),
		ozzo.Field(&f.Year,
			ozzo.Required.Error("Year cannot be empty"),
			ozzo.Match(yearPattern).Error("Enter a valid 4-digit year"),
		),
	)
}

// PersonForm is the input for creating or updating a reader. ID is the id
// of the person being updated and zero on create.
type PersonForm struct {
	ID        uint     `json:"-" form:"-"`
	FullName  string   `json:"full_name" form:"full_name"`
	BirthYear YearText `json:"birth_year" form:"birth_year"`
	Email     string   `json:"email" form:"email"`
}

func (f PersonForm) Validate() error {
	return ozzo.ValidateStruct(&f,
		ozzo.Field(&f.FullName,
			ozzo.Required.Error("Enter full name"),
			ozzo.RuneLength(1, 150).Error("Name must be between 1 and 150 characters"),
			ozzo.Match(fullNamePattern).Error(`Enter the name in the format "Johnny Cash" or "Остапенко Андрій Вікторович"`),
		),
		ozzo.Field(&f.BirthYear,
			ozzo.Required.Error("Year of birth cannot be empty"),
			ozzo.Match(yearPattern).Error("Enter a valid 4-digit year"),
		),
		ozzo.Field(&f.Email,
			ozzo.Required.Error("Enter Email"),
			ozzo.RuneLength(1, 150).Error("Email must be between 1 and 150 characters"),
			is.EmailFormat.Error("Enter correct Email"),
		),
	)
}
