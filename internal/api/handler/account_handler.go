package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sistemabancario/banking-system/internal/api/metrics"
	"github.com/sistemabancario/banking-system/internal/core/domain"
	"github.com/sistemabancario/banking-system/internal/core/ports"
)

// AccountHandler handles the ledger operations on the authenticated user's
// accounts: balance, movement history, deposits, withdrawals, and transfers.
type AccountHandler struct {
	ledger ports.LedgerService
}

func NewAccountHandler(ledger ports.LedgerService) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

// Balance handles GET /v1/accounts/:account/balance. The :account segment is
// an account id, a kind ("ahorros"/"corriente"), or "default".
//
// @Summary      Get an account balance
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account id, kind, or 'default'"
// @Success      200      {object}  balanceResponse
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/accounts/{account}/balance [get]
func (h *AccountHandler) Balance(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	result, err := h.ledger.Balance(c.Request().Context(), userID, domain.ParseAccountRef(c.Param("account")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{
		AccountID: result.AccountID,
		Kind:      result.AccountKind,
		Balance:   result.Balance,
	})
}

// Movements handles GET /v1/accounts/:account/movements and returns the
// account's history in insertion order.
//
// @Summary      List account movements
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account id, kind, or 'default'"
// @Success      200      {object}  movementsResponse
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/accounts/{account}/movements [get]
func (h *AccountHandler) Movements(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	ref := domain.ParseAccountRef(c.Param("account"))
	movements, err := h.ledger.Movements(c.Request().Context(), userID, ref)
	if err != nil {
		return err
	}

	balance, err := h.ledger.Balance(c.Request().Context(), userID, ref)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movementsResponse{
		AccountID: balance.AccountID,
		Movements: movements,
	})
}

// Deposit handles POST /v1/accounts/:account/deposit.
//
// @Summary      Deposit into an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string           false  "Idempotency key to prevent duplicate submissions"
// @Param        account          path      string           true   "Account id, kind, or 'default'"
// @Param        body             body      moveFundsRequest true   "Amount to deposit"
// @Success      200              {object}  operationResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Router       /v1/accounts/{account}/deposit [post]
func (h *AccountHandler) Deposit(c echo.Context) error {
	return h.moveFunds(c, "deposit", h.ledger.Deposit)
}

// Withdraw handles POST /v1/accounts/:account/withdraw.
//
// @Summary      Withdraw from an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string           false  "Idempotency key to prevent duplicate submissions"
// @Param        account          path      string           true   "Account id, kind, or 'default'"
// @Param        body             body      moveFundsRequest true   "Amount to withdraw"
// @Success      200              {object}  operationResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/accounts/{account}/withdraw [post]
func (h *AccountHandler) Withdraw(c echo.Context) error {
	return h.moveFunds(c, "withdrawal", h.ledger.Withdraw)
}

func (h *AccountHandler) moveFunds(c echo.Context, operation string, apply func(ctx context.Context, input ports.MoveFundsInput) (*ports.OperationResult, error)) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req moveFundsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	result, err := apply(c.Request().Context(), ports.MoveFundsInput{
		UserID:         userID,
		Amount:         req.Amount,
		Account:        domain.ParseAccountRef(c.Param("account")),
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OperationsErrorsTotal.WithLabelValues(operation, errorReason(err)).Inc()
		return err
	}

	if result.AlreadyApplied {
		metrics.OperationsDedupTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.OperationsDedupTotal.WithLabelValues("miss").Inc()
		metrics.OperationsTotal.WithLabelValues(operation, result.AccountKind).Inc()
	}

	return c.JSON(http.StatusOK, operationResponse{
		AccountID:      result.AccountID,
		Kind:           result.AccountKind,
		Balance:        result.Balance,
		Movement:       result.Movement,
		AlreadyApplied: result.AlreadyApplied,
	})
}

// Transfer handles POST /v1/transfers. An empty cedula_destino moves funds
// between the caller's own accounts.
//
// @Summary      Transfer between accounts
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string          false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      transferRequest true   "Transfer details"
// @Success      200              {object}  transferResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/transfers [post]
func (h *AccountHandler) Transfer(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	result, err := h.ledger.Transfer(c.Request().Context(), ports.TransferInput{
		FromUserID:     userID,
		Amount:         req.Amount,
		FromAccount:    domain.ParseAccountRef(req.FromAccount),
		ToUserID:       req.ToDocument,
		ToAccount:      domain.ParseAccountRef(req.ToAccount),
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	metrics.OperationDuration.WithLabelValues("transfer").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OperationsErrorsTotal.WithLabelValues("transfer", errorReason(err)).Inc()
		return err
	}

	if result.AlreadyApplied {
		metrics.OperationsDedupTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.OperationsDedupTotal.WithLabelValues("miss").Inc()
		metrics.OperationsTotal.WithLabelValues("transfer", result.From.AccountKind).Inc()
	}

	return c.JSON(http.StatusOK, transferResponse{
		From: operationResponse{
			AccountID: result.From.AccountID,
			Kind:      result.From.AccountKind,
			Balance:   result.From.Balance,
			Movement:  result.From.Movement,
		},
		To: operationResponse{
			AccountID: result.To.AccountID,
			Kind:      result.To.AccountKind,
			Balance:   result.To.Balance,
			Movement:  result.To.Movement,
		},
		AlreadyApplied: result.AlreadyApplied,
	})
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrTransferTargetNotFound):
		return "target_not_found"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	default:
		return "error"
	}
}
