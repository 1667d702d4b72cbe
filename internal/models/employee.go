package models

import "time"

// Employee represents a single record of the company directory.
// FirstName and LastName are required; everything else is optional and
// stored as-is from the source roster.
type Employee struct {
	ID            int       // Unique identifier, assigned by the database
	FirstName     string    // Given name of the employee
	LastName      string    // Family name of the employee
	Email         string    // Email address, empty if unknown
	Phone         string    // Phone number, empty if unknown
	Position      string    // Job position, empty if unknown
	Department    string    // Free-text department, often "Компания, Роль"
	BirthdayDay   *int      // Day of birth (1-31), nil if unknown
	BirthdayMonth *int      // Month of birth (1-12), nil if unknown
	CreatedAt     time.Time // Timestamp of when the record was created
}

// FullName returns the display name of the employee.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// HasBirthday reports whether both halves of the birthday are known.
// A birthday is only displayable when day and month are present.
func (e Employee) HasBirthday() bool {
	return e.BirthdayDay != nil && e.BirthdayMonth != nil
}
