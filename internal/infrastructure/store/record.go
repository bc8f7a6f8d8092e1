// Package store defines the persisted shape of the user table and the schema
// normalizer both store backends run at their boundary. Two schema versions
// exist in the wild: v1 records carry a flat top-level balance and movement
// list (one implicit account), v2 records carry a list of named accounts.
// Normalization upgrades v1 lazily on read and backfills missing account
// kinds, so business logic only ever sees the current shape.
package store

import (
	"github.com/sistemabancario/banking-system/internal/core/domain"
)

// UserRecord mirrors one persisted user document across both schema versions.
type UserRecord struct {
	ID             string `json:"id" bson:"id"`
	Name           string `json:"nombre" bson:"nombre"`
	Document       string `json:"cedula" bson:"cedula"`
	Phone          string `json:"celular" bson:"celular"`
	Email          string `json:"email" bson:"email"`
	Password       string `json:"password" bson:"password"`
	FailedAttempts int    `json:"intentosFallidos" bson:"intentosFallidos"`
	Locked         bool   `json:"bloqueado" bson:"bloqueado"`

	// v2 schema.
	Accounts []domain.Account `json:"cuentas,omitempty" bson:"cuentas,omitempty"`

	// v1 schema: single implicit account flattened into the user.
	LegacyBalance   *int64            `json:"saldo,omitempty" bson:"saldo,omitempty"`
	LegacyMovements []domain.Movement `json:"movimientos,omitempty" bson:"movimientos,omitempty"`
}

// Table is the persisted whole-table document, keyed by user id.
type Table map[string]UserRecord

// Normalize upgrades a record to the current schema and returns the domain
// user. v1 records become the savings account; an empty checking account and
// any other missing kind are backfilled either way.
func Normalize(rec UserRecord) *domain.User {
	document := rec.Document
	if document == "" {
		document = rec.ID
	}

	user := &domain.User{
		ID:             rec.ID,
		Name:           rec.Name,
		Document:       document,
		Phone:          rec.Phone,
		Email:          rec.Email,
		Password:       rec.Password,
		FailedAttempts: rec.FailedAttempts,
		Locked:         rec.Locked,
	}
	if user.ID == "" {
		user.ID = document
	}

	if rec.Accounts == nil {
		savings := domain.NewAccount(document, domain.KindSavings)
		if rec.LegacyBalance != nil {
			savings.Balance = *rec.LegacyBalance
		}
		if len(rec.LegacyMovements) > 0 {
			savings.Movements = append(savings.Movements, rec.LegacyMovements...)
		}
		user.Accounts = []domain.Account{savings}
	} else {
		user.Accounts = make([]domain.Account, len(rec.Accounts))
		copy(user.Accounts, rec.Accounts)
		for i := range user.Accounts {
			if user.Accounts[i].ID == "" {
				user.Accounts[i].ID = document + "-" + user.Accounts[i].Kind
			}
			if user.Accounts[i].Movements == nil {
				user.Accounts[i].Movements = []domain.Movement{}
			}
		}
	}

	seen := make(map[string]bool, len(user.Accounts))
	for _, a := range user.Accounts {
		seen[a.Kind] = true
	}
	for _, kind := range []string{domain.KindSavings, domain.KindChecking} {
		if !seen[kind] {
			user.Accounts = append(user.Accounts, domain.NewAccount(document, kind))
		}
	}

	return user
}

// RecordOf converts a domain user back to the current persisted schema. The
// legacy fields are never written again once a record passes through here.
func RecordOf(u *domain.User) UserRecord {
	clone := u.Clone()
	return UserRecord{
		ID:             clone.ID,
		Name:           clone.Name,
		Document:       clone.Document,
		Phone:          clone.Phone,
		Email:          clone.Email,
		Password:       clone.Password,
		FailedAttempts: clone.FailedAttempts,
		Locked:         clone.Locked,
		Accounts:       clone.Accounts,
	}
}

// NormalizeTable converts a persisted table to domain users.
func NormalizeTable(t Table) map[string]*domain.User {
	users := make(map[string]*domain.User, len(t))
	for id, rec := range t {
		user := Normalize(rec)
		if user.ID == "" {
			user.ID = id
		}
		users[user.ID] = user
	}
	return users
}

// TableOf converts domain users to the persisted table shape.
func TableOf(users map[string]*domain.User) Table {
	t := make(Table, len(users))
	for id, u := range users {
		t[id] = RecordOf(u)
	}
	return t
}
