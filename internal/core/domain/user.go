package domain

import (
	"errors"
	"strings"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrPasswordMismatch = errors.New("current password incorrect")
var ErrPasswordTooShort = errors.New("new password must be at least 4 characters")
var ErrInvalidEmail = errors.New("email must contain @")
var ErrInvalidPhone = errors.New("phone must be at least 7 digits")

// User is the core aggregate root: one customer of the bank, identified by
// national document number, owning one or more accounts.
//
// Password is stored and compared in plaintext, matching the persisted table
// format of the system this service replaces.
type User struct {
	ID             string    `json:"id" bson:"id"`
	Name           string    `json:"nombre" bson:"nombre"`
	Document       string    `json:"cedula" bson:"cedula"`
	Phone          string    `json:"celular" bson:"celular"`
	Email          string    `json:"email" bson:"email"`
	Password       string    `json:"password" bson:"password"`
	Accounts       []Account `json:"cuentas" bson:"cuentas"`
	FailedAttempts int       `json:"intentosFallidos" bson:"intentosFallidos"`
	Locked         bool      `json:"bloqueado" bson:"bloqueado"`
}

// NewUser creates a user with a zero-balance savings and checking account,
// matching what registration always provisions.
func NewUser(name, document, phone, email, password string) *User {
	return &User{
		ID:       document,
		Name:     name,
		Document: document,
		Phone:    phone,
		Email:    email,
		Password: password,
		Accounts: []Account{
			NewAccount(document, KindSavings),
			NewAccount(document, KindChecking),
		},
	}
}

// Clone returns a deep copy of the user. Every state-changing domain operation
// works on a clone and leaves the receiver untouched.
func (u *User) Clone() *User {
	clone := *u
	clone.Accounts = make([]Account, len(u.Accounts))
	for i, a := range u.Accounts {
		clone.Accounts[i] = a
		clone.Accounts[i].Movements = make([]Movement, len(a.Movements))
		copy(clone.Accounts[i].Movements, a.Movements)
	}
	return &clone
}

// ChangePassword verifies the current password and returns a copy of the user
// with the new one set. The stored password is compared as-is.
func (u *User) ChangePassword(current, next string) (*User, error) {
	if u.Password != current {
		return nil, ErrPasswordMismatch
	}
	if len(next) < 4 {
		return nil, ErrPasswordTooShort
	}
	clone := u.Clone()
	clone.Password = next
	return clone, nil
}

// ProfileChanges carries the optional profile fields an update may replace.
// Nil fields are left untouched.
type ProfileChanges struct {
	Name  *string
	Phone *string
	Email *string
}

// ApplyProfile validates and merges the changes into a copy of the user.
func (u *User) ApplyProfile(ch ProfileChanges) (*User, error) {
	if ch.Email != nil && !strings.Contains(*ch.Email, "@") {
		return nil, ErrInvalidEmail
	}
	if ch.Phone != nil && len(strings.TrimSpace(*ch.Phone)) < 7 {
		return nil, ErrInvalidPhone
	}
	clone := u.Clone()
	if ch.Name != nil {
		clone.Name = *ch.Name
	}
	if ch.Phone != nil {
		clone.Phone = *ch.Phone
	}
	if ch.Email != nil {
		clone.Email = *ch.Email
	}
	return clone, nil
}
