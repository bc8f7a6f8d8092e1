package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sistemabancario/banking-system/internal/core/domain"
	"github.com/sistemabancario/banking-system/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis). A nil checker
// disables idempotency handling entirely.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, userID, operation, key string) (bool, error)
	Mark(ctx context.Context, userID, operation, key string) error
}

// LedgerService orchestrates the ledger use cases: it loads the user table,
// applies the pure domain operation to a copy of the record, and persists the
// table in a single write. The store contract is whole-table last-writer-wins,
// so two concurrent processes can still overwrite each other; within one
// process, operations are serialized by the store implementations.
type LedgerService struct {
	store  ports.UserStore
	dedup  DedupChecker
	logger zerolog.Logger
	now    func() time.Time
}

func NewLedgerService(store ports.UserStore, dedup DedupChecker, logger zerolog.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		dedup:  dedup,
		logger: logger,
		now:    time.Now,
	}
}

// Deposit credits the referenced account and appends the deposit movement.
func (s *LedgerService) Deposit(ctx context.Context, input ports.MoveFundsInput) (*ports.OperationResult, error) {
	return s.moveFunds(ctx, "deposit", input)
}

// Withdraw debits the referenced account and appends the withdrawal movement.
func (s *LedgerService) Withdraw(ctx context.Context, input ports.MoveFundsInput) (*ports.OperationResult, error) {
	return s.moveFunds(ctx, "withdraw", input)
}

func (s *LedgerService) moveFunds(ctx context.Context, operation string, input ports.MoveFundsInput) (*ports.OperationResult, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	user, ok := users[input.UserID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	if replay, err := s.isReplay(ctx, input.UserID, operation, input.IdempotencyKey); err == nil && replay {
		account, resolveErr := user.Resolve(input.Account)
		if resolveErr != nil {
			return nil, resolveErr
		}
		s.logger.Info().Str("user_id", input.UserID).Str("operation", operation).
			Str("idempotency_key", input.IdempotencyKey).Msg("idempotent replay")
		return &ports.OperationResult{
			AccountID:      account.ID,
			AccountKind:    account.Kind,
			Balance:        account.Balance,
			AlreadyApplied: true,
		}, nil
	}

	updated, movement, err := s.applyLeg(operation, user, input.Amount, input.Account)
	if err != nil {
		return nil, err
	}

	s.markApplied(ctx, input.UserID, operation, input.IdempotencyKey)

	users[input.UserID] = updated
	if err := s.store.Save(ctx, users); err != nil {
		return nil, fmt.Errorf("%s: save: %w", operation, err)
	}

	s.logger.Info().
		Str("user_id", input.UserID).
		Str("operation", operation).
		Str("account", movement.AccountID).
		Int64("amount", input.Amount).
		Int64("balance", movement.BalanceAfter).
		Msg("movement recorded")

	account, err := updated.Resolve(domain.AccountByID(movement.AccountID))
	if err != nil {
		return nil, err
	}
	return &ports.OperationResult{
		AccountID:   account.ID,
		AccountKind: account.Kind,
		Balance:     account.Balance,
		Movement:    movement,
	}, nil
}

func (s *LedgerService) applyLeg(operation string, user *domain.User, amount int64, ref domain.AccountRef) (*domain.User, *domain.Movement, error) {
	if operation == "withdraw" {
		return user.Withdraw(amount, ref, s.now())
	}
	return user.Deposit(amount, ref, s.now())
}

// Transfer runs a withdrawal leg on the source and a deposit leg on the
// target. An empty target user id means the source user transfers between
// their own accounts. Both legs are applied to one in-memory snapshot of the
// table and persisted with a single save so a crash cannot leave funds
// withdrawn but never credited.
func (s *LedgerService) Transfer(ctx context.Context, input ports.TransferInput) (*ports.TransferResult, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	source, ok := users[input.FromUserID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	targetID := input.ToUserID
	if targetID == "" {
		targetID = input.FromUserID
	}

	if replay, err := s.isReplay(ctx, input.FromUserID, "transfer", input.IdempotencyKey); err == nil && replay {
		s.logger.Info().Str("user_id", input.FromUserID).
			Str("idempotency_key", input.IdempotencyKey).Msg("idempotent transfer replay")
		return &ports.TransferResult{AlreadyApplied: true}, nil
	}

	withdrawn, outMovement, err := source.Withdraw(input.Amount, input.FromAccount, s.now())
	if err != nil {
		return nil, err
	}

	// Same-user transfers deposit onto the already-debited record so both
	// legs land on one copy.
	target := withdrawn
	if targetID != input.FromUserID {
		other, ok := users[targetID]
		if !ok {
			return nil, domain.ErrTransferTargetNotFound
		}
		target = other
	}

	deposited, inMovement, err := target.Deposit(input.Amount, input.ToAccount, s.now())
	if err != nil {
		if targetID != input.FromUserID && err == domain.ErrAccountNotFound {
			return nil, domain.ErrTransferTargetNotFound
		}
		return nil, err
	}

	s.markApplied(ctx, input.FromUserID, "transfer", input.IdempotencyKey)

	if targetID == input.FromUserID {
		users[input.FromUserID] = deposited
	} else {
		users[input.FromUserID] = withdrawn
		users[targetID] = deposited
	}
	if err := s.store.Save(ctx, users); err != nil {
		return nil, fmt.Errorf("transfer: save: %w", err)
	}

	s.logger.Info().
		Str("from_user_id", input.FromUserID).
		Str("to_user_id", targetID).
		Str("from_account", outMovement.AccountID).
		Str("to_account", inMovement.AccountID).
		Int64("amount", input.Amount).
		Msg("transfer completed")

	return &ports.TransferResult{
		From: ports.OperationResult{
			AccountID:   outMovement.AccountID,
			AccountKind: kindOf(users[input.FromUserID], outMovement.AccountID),
			Balance:     outMovement.BalanceAfter,
			Movement:    outMovement,
		},
		To: ports.OperationResult{
			AccountID:   inMovement.AccountID,
			AccountKind: kindOf(users[targetID], inMovement.AccountID),
			Balance:     inMovement.BalanceAfter,
			Movement:    inMovement,
		},
	}, nil
}

// Balance is a read-only inquiry; calling it twice without an intervening
// mutation returns the same value.
func (s *LedgerService) Balance(ctx context.Context, userID string, ref domain.AccountRef) (*ports.BalanceResult, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	user, ok := users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	account, err := user.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return &ports.BalanceResult{
		AccountID:   account.ID,
		AccountKind: account.Kind,
		Balance:     account.Balance,
	}, nil
}

// Movements returns the referenced account's history in insertion order.
func (s *LedgerService) Movements(ctx context.Context, userID string, ref domain.AccountRef) ([]domain.Movement, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("movements: %w", err)
	}
	user, ok := users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	account, err := user.Resolve(ref)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Movement, len(account.Movements))
	copy(out, account.Movements)
	return out, nil
}

// isReplay consults the dedup store. Dedup failures are logged and treated as
// a miss so a Redis outage never blocks ledger operations.
func (s *LedgerService) isReplay(ctx context.Context, userID, operation, key string) (bool, error) {
	if s.dedup == nil || key == "" {
		return false, nil
	}
	dup, err := s.dedup.IsDuplicate(ctx, userID, operation, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("dedup check failed, processing anyway")
		return false, nil
	}
	return dup, nil
}

func (s *LedgerService) markApplied(ctx context.Context, userID, operation, key string) {
	if s.dedup == nil || key == "" {
		return
	}
	if err := s.dedup.Mark(ctx, userID, operation, key); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to set dedup key")
	}
}

func kindOf(u *domain.User, accountID string) string {
	account, err := u.Resolve(domain.AccountByID(accountID))
	if err != nil {
		return ""
	}
	return account.Kind
}
