package domain

import (
	"errors"
	"fmt"
)

// MaxLoginAttempts is the number of consecutive failed password checks that
// locks a user.
const MaxLoginAttempts = 3

var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccountLocked carries the user-facing lockout text. The message promises
// a 24-hour suspension but no expiry exists anywhere in the system: Locked is
// a terminal state, cleared only by editing the persisted table by hand.
var ErrAccountLocked = errors.New("account locked for 24 hours, contact your bank")

// Authenticate runs the login state machine against the supplied password and
// returns the user state to persist along with the outcome:
//
//	Active(n) + correct password  → Active(0), nil
//	Active(n) + wrong, n+1 < 3    → Active(n+1), ErrInvalidCredentials (remaining attempts wrapped)
//	Active(n) + wrong, n+1 >= 3   → Locked, ErrAccountLocked
//	Locked    + anything          → unchanged, ErrAccountLocked
//
// The returned user must be saved even when the error is non-nil, otherwise
// the failed-attempt counter is lost. The receiver is never mutated.
func (u *User) Authenticate(password string) (*User, error) {
	if u.Locked {
		return u.Clone(), ErrAccountLocked
	}

	clone := u.Clone()
	if u.Password == password {
		clone.FailedAttempts = 0
		return clone, nil
	}

	clone.FailedAttempts = u.FailedAttempts + 1
	if clone.FailedAttempts >= MaxLoginAttempts {
		clone.Locked = true
		return clone, ErrAccountLocked
	}
	remaining := MaxLoginAttempts - clone.FailedAttempts
	return clone, fmt.Errorf("%w: %d attempts remaining", ErrInvalidCredentials, remaining)
}
