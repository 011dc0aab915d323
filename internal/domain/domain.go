package domain

import (
	"strings"
	"time"
)

// Resident is the persistent record for every chat participant the system
// has seen. A row is created on first contact with Registered=false and is
// filled in field by field as the registration conversation advances.
type Resident struct {
	UserID           int64     `db:"user_id"`
	Username         *string   `db:"username"`
	FirstName        string    `db:"first_name"`
	LastName         *string   `db:"last_name"`
	Building         *string   `db:"building"`
	Apartment        *string   `db:"apartment"`
	Phone            *string   `db:"phone"`
	Registered       bool      `db:"registered"`
	RegistrationTime time.Time `db:"registration_time"`
}

// FullName joins first and last name, skipping an absent last name.
func (r Resident) FullName() string {
	if r.LastName == nil || *r.LastName == "" {
		return r.FirstName
	}
	return strings.TrimSpace(r.FirstName + " " + *r.LastName)
}

// Building is a named housing block residents register against.
type Building struct {
	Name      string    `db:"name"`
	AddedBy   int64     `db:"added_by"`
	AddedTime time.Time `db:"added_time"`
}
