package domain

import (
	"errors"
	"time"
)

var ErrInvalidAmount = errors.New("amount must be greater than 0")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrTransferTargetNotFound = errors.New("transfer target not found")

// Movement kinds, stored verbatim in the persisted document.
const (
	MovementDeposit    = "consignacion"
	MovementWithdrawal = "retiro"
)

// MovementDateLayout is the display format movement dates are recorded in.
// The persisted table has always carried display-formatted dates rather than
// sortable machine timestamps; ordering is by movement id.
const MovementDateLayout = "02/01/2006 15:04:05"

// Movement is an immutable, append-only record of a single balance change.
// Ids are time-based and strictly increasing per user.
type Movement struct {
	ID            int64  `json:"id" bson:"id"`
	Kind          string `json:"tipo" bson:"tipo"`
	Amount        int64  `json:"monto" bson:"monto"`
	Date          string `json:"fecha" bson:"fecha"`
	BalanceBefore int64  `json:"saldoAnterior" bson:"saldoAnterior"`
	BalanceAfter  int64  `json:"saldoNuevo" bson:"saldoNuevo"`
	AccountID     string `json:"cuenta" bson:"cuenta"`
}

// Deposit returns a copy of the user with amount credited to the referenced
// account and the corresponding movement appended. The receiver is unchanged.
func (u *User) Deposit(amount int64, ref AccountRef, now time.Time) (*User, *Movement, error) {
	return u.applyMovement(MovementDeposit, amount, ref, now)
}

// Withdraw returns a copy of the user with amount debited from the referenced
// account. Fails with ErrInsufficientFunds when amount exceeds the balance;
// the balance never goes negative.
func (u *User) Withdraw(amount int64, ref AccountRef, now time.Time) (*User, *Movement, error) {
	return u.applyMovement(MovementWithdrawal, amount, ref, now)
}

func (u *User) applyMovement(kind string, amount int64, ref AccountRef, now time.Time) (*User, *Movement, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	clone := u.Clone()
	account, err := clone.Resolve(ref)
	if err != nil {
		return nil, nil, err
	}
	if kind == MovementWithdrawal && amount > account.Balance {
		return nil, nil, ErrInsufficientFunds
	}

	before := account.Balance
	after := before + amount
	if kind == MovementWithdrawal {
		after = before - amount
	}

	movement := Movement{
		ID:            clone.nextMovementID(now),
		Kind:          kind,
		Amount:        amount,
		Date:          now.Format(MovementDateLayout),
		BalanceBefore: before,
		BalanceAfter:  after,
		AccountID:     account.ID,
	}
	account.Balance = after
	account.Movements = append(account.Movements, movement)
	return clone, &movement, nil
}

// nextMovementID derives a time-based id that stays strictly increasing even
// when two movements land within the same millisecond.
func (u *User) nextMovementID(now time.Time) int64 {
	id := now.UnixMilli()
	for i := range u.Accounts {
		for _, m := range u.Accounts[i].Movements {
			if m.ID >= id {
				id = m.ID + 1
			}
		}
	}
	return id
}
