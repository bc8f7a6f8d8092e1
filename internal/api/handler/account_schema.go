package handler

import "github.com/sistemabancario/banking-system/internal/core/domain"

type moveFundsRequest struct {
	Amount int64 `json:"monto" validate:"required,gt=0"`
}

type transferRequest struct {
	Amount int64 `json:"monto" validate:"required,gt=0"`
	// FromAccount selects the source account: an account id, a kind
	// ("ahorros"/"corriente"), or empty for the default account.
	FromAccount string `json:"cuenta_origen"`
	// ToDocument is the target user's document number. Empty means a
	// transfer between the caller's own accounts.
	ToDocument string `json:"cedula_destino"`
	ToAccount  string `json:"cuenta_destino"`
}

type balanceResponse struct {
	AccountID string `json:"cuenta"`
	Kind      string `json:"tipo"`
	Balance   int64  `json:"saldo"`
}

type operationResponse struct {
	AccountID      string           `json:"cuenta"`
	Kind           string           `json:"tipo"`
	Balance        int64            `json:"saldo"`
	Movement       *domain.Movement `json:"movimiento,omitempty"`
	AlreadyApplied bool             `json:"ya_aplicada,omitempty"`
}

type transferResponse struct {
	From           operationResponse `json:"origen"`
	To             operationResponse `json:"destino"`
	AlreadyApplied bool              `json:"ya_aplicada,omitempty"`
}

type movementsResponse struct {
	AccountID string            `json:"cuenta"`
	Movements []domain.Movement `json:"movimientos"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}
