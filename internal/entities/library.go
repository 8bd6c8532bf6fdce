package entities

import "time"

// Book is a catalogue entry. Reader and TakenAt describe the current loan
// and are always set or cleared together.
type Book struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"index;size:150;not null" json:"title"`
	Author    string     `gorm:"size:150;not null" json:"author"`
	Year      int        `gorm:"column:year;index" json:"year"`
	PersonID  *uint      `gorm:"index" json:"person_id,omitempty"`
	Reader    *Person    `gorm:"foreignKey:PersonID" json:"reader,omitempty"`
	TakenAt   *time.Time `json:"taken_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Expired is computed at read time and never stored.
	Expired bool `gorm:"-" json:"expired"`
}

func (Book) TableName() string {
	return "books"
}

// OnLoan reports whether the book currently has a reader.
func (b *Book) OnLoan() bool {
	return b.PersonID != nil
}

// Person is a library reader.
type Person struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:150;not null" json:"full_name"`
	BirthYear int       `json:"birth_year"`
	Email     string    `gorm:"uniqueIndex;size:150;not null" json:"email"`
	Books     []Book    `gorm:"foreignKey:PersonID" json:"books,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Person) TableName() string {
	return "people"
}
