package ports

import (
	"context"

	"github.com/sistemabancario/banking-system/internal/core/domain"
)

// MoveFundsInput carries the parameters shared by deposit and withdrawal.
type MoveFundsInput struct {
	UserID  string
	Amount  int64
	Account domain.AccountRef
	// IdempotencyKey, when non-empty, suppresses re-application of a
	// previously seen request.
	IdempotencyKey string
}

// TransferInput carries the parameters for a transfer. An empty ToUserID
// targets the source user's own accounts.
type TransferInput struct {
	FromUserID     string
	Amount         int64
	FromAccount    domain.AccountRef
	ToUserID       string
	ToAccount      domain.AccountRef
	IdempotencyKey string
}

// OperationResult is returned by every mutating ledger operation.
type OperationResult struct {
	AccountID   string
	AccountKind string
	Balance     int64
	Movement    *domain.Movement
	// AlreadyApplied is true when the idempotency key matched a previously
	// processed request and no new movement was recorded.
	AlreadyApplied bool
}

// TransferResult reports both legs of a completed transfer.
type TransferResult struct {
	From           OperationResult
	To             OperationResult
	AlreadyApplied bool
}

// BalanceResult is the read-only balance view.
type BalanceResult struct {
	AccountID   string
	AccountKind string
	Balance     int64
}

// LedgerService defines the account ledger use cases.
type LedgerService interface {
	Deposit(ctx context.Context, input MoveFundsInput) (*OperationResult, error)
	Withdraw(ctx context.Context, input MoveFundsInput) (*OperationResult, error)
	Transfer(ctx context.Context, input TransferInput) (*TransferResult, error)
	Balance(ctx context.Context, userID string, account domain.AccountRef) (*BalanceResult, error)
	Movements(ctx context.Context, userID string, account domain.AccountRef) ([]domain.Movement, error)
}
