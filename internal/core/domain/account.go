package domain

import "errors"

// Account kinds match the identifiers the persisted documents have always
// used, so records written by earlier versions of the system load unchanged.
const (
	KindSavings  = "ahorros"
	KindChecking = "corriente"
)

var ErrAccountNotFound = errors.New("account not found")

// Account is a named balance-bearing sub-ledger owned by a User. Balance is
// held in integer currency units and always equals the sum of signed movement
// amounts since creation.
type Account struct {
	ID        string     `json:"id" bson:"id"`
	Kind      string     `json:"tipo" bson:"tipo"`
	Name      string     `json:"nombre" bson:"nombre"`
	Balance   int64      `json:"saldo" bson:"saldo"`
	Movements []Movement `json:"movimientos" bson:"movimientos"`
}

// NewAccount creates an empty account. Account ids are composed as
// "<document>-<kind>", the scheme every schema version of the persisted
// table has used.
func NewAccount(document, kind string) Account {
	return Account{
		ID:   document + "-" + kind,
		Kind: kind,
		Name: displayName(kind),
	}
}

func displayName(kind string) string {
	switch kind {
	case KindSavings:
		return "Cuenta de ahorros"
	case KindChecking:
		return "Cuenta corriente"
	default:
		return kind
	}
}

// AccountRef selects one of a user's accounts. It replaces the loose string
// matching of earlier versions with a tagged variant resolved through a single
// lookup with a fixed precedence.
type AccountRef struct {
	kind refKind
	name string
}

type refKind int

const (
	refDefault refKind = iota
	refByID
	refByKind
)

// DefaultAccount refers to the user's first account, for callers that do not
// name one.
func DefaultAccount() AccountRef {
	return AccountRef{kind: refDefault}
}

// AccountByID refers to an account by caller-supplied identifier. The
// identifier may be a full account id, a kind name, or a bare suffix; see
// Resolve for the precedence.
func AccountByID(id string) AccountRef {
	return AccountRef{kind: refByID, name: id}
}

// AccountByKind refers to an account strictly by its kind.
func AccountByKind(kind string) AccountRef {
	return AccountRef{kind: refByKind, name: kind}
}

// ParseAccountRef maps a raw reference string from the outside world to a
// typed ref. Empty or "default" means the user's default account.
func ParseAccountRef(raw string) AccountRef {
	if raw == "" || raw == "default" {
		return DefaultAccount()
	}
	return AccountByID(raw)
}

func (r AccountRef) String() string {
	switch r.kind {
	case refDefault:
		return "default"
	case refByKind:
		return "kind:" + r.name
	default:
		return r.name
	}
}

// Resolve returns a pointer to the account the ref designates within u.
// Identifier resolution order: exact account id, then kind name, then the
// composite "<user id>-<name>". DefaultAccount resolves to the first account,
// which also covers records upgraded from the single-account schema.
func (u *User) Resolve(ref AccountRef) (*Account, error) {
	if len(u.Accounts) == 0 {
		return nil, ErrAccountNotFound
	}
	switch ref.kind {
	case refDefault:
		return &u.Accounts[0], nil
	case refByKind:
		for i := range u.Accounts {
			if u.Accounts[i].Kind == ref.name {
				return &u.Accounts[i], nil
			}
		}
		return nil, ErrAccountNotFound
	default:
		for i := range u.Accounts {
			if u.Accounts[i].ID == ref.name {
				return &u.Accounts[i], nil
			}
		}
		for i := range u.Accounts {
			if u.Accounts[i].Kind == ref.name {
				return &u.Accounts[i], nil
			}
		}
		composite := u.ID + "-" + ref.name
		for i := range u.Accounts {
			if u.Accounts[i].ID == composite {
				return &u.Accounts[i], nil
			}
		}
		return nil, ErrAccountNotFound
	}
}
