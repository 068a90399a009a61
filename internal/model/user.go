package model

import "time"

// AdminPermission is the permission type name that grants access to
// user management.
const AdminPermission = "admin"

// User is a registered account.
//
// Password holds the stored credential. Depending on the configured
// scheme it is either the plaintext password or a bcrypt hash.
type User struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Password         string    `json:"-" db:"password"`
	Email            string    `json:"email" db:"email"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`
}

// NewUser builds an unsaved user registered now.
func NewUser(name, password, email string) User {
	return User{
		Name:             name,
		Password:         password,
		Email:            email,
		RegistrationDate: time.Now().UTC(),
	}
}

// IsPersisted reports whether the user has been assigned an ID.
func (u User) IsPersisted() bool {
	return u.ID != 0
}

// TodoStats holds the derived per-owner todo counts.
type TodoStats struct {
	Active       int `json:"active"`
	ActiveDone   int `json:"active_done"`
	ActiveUndone int `json:"active_undone"`
	Archived     int `json:"archived"`
}
