package handler

import "github.com/sistemabancario/banking-system/internal/core/domain"

type registerRequest struct {
	Name     string `json:"nombre"   validate:"required"`
	Document string `json:"cedula"   validate:"required"`
	Phone    string `json:"celular"  validate:"required,min=7"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type loginRequest struct {
	Document string `json:"cedula"   validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	Current string `json:"password_actual" validate:"required"`
	New     string `json:"password_nueva"  validate:"required,min=4"`
}

type profileRequest struct {
	Name  *string `json:"nombre"`
	Phone *string `json:"celular"`
	Email *string `json:"email"`
}

// accountView is the account representation exposed over HTTP: the ledger
// state without the movement history.
type accountView struct {
	ID      string `json:"id"`
	Kind    string `json:"tipo"`
	Name    string `json:"nombre"`
	Balance int64  `json:"saldo"`
}

// userView is the user representation exposed over HTTP. The stored record
// carries the password and the lockout counters; none of that leaves the API.
type userView struct {
	ID       string        `json:"id"`
	Name     string        `json:"nombre"`
	Document string        `json:"cedula"`
	Phone    string        `json:"celular"`
	Email    string        `json:"email"`
	Accounts []accountView `json:"cuentas"`
}

type authResponse struct {
	Token string    `json:"token,omitempty"`
	User  *userView `json:"user,omitempty"`
}

func toUserView(u *domain.User) *userView {
	if u == nil {
		return nil
	}
	accounts := make([]accountView, 0, len(u.Accounts))
	for _, a := range u.Accounts {
		accounts = append(accounts, accountView{
			ID:      a.ID,
			Kind:    a.Kind,
			Name:    a.Name,
			Balance: a.Balance,
		})
	}
	return &userView{
		ID:       u.ID,
		Name:     u.Name,
		Document: u.Document,
		Phone:    u.Phone,
		Email:    u.Email,
		Accounts: accounts,
	}
}
