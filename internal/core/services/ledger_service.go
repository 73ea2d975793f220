package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/atm_ledger/internal/apperrors"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// DefaultOverdraftLimit is how far a chequing account may go below zero.
var DefaultOverdraftLimit = decimal.RequireFromString("100.00")

// ledgerService posts transactions and reverses them.
type ledgerService struct {
	BaseService
	state     *LedgerState
	converter portssvc.CurrencyConverterSvc
	overdraft decimal.Decimal
	now       func() time.Time

	// mostRecent is the default undo target. Guarded by state.mu.
	mostRecent *domain.Transaction
}

// LedgerServiceOption is a functional option for configuring the ledger service.
type LedgerServiceOption func(*ledgerService)

// WithOverdraftLimit sets the chequing overdraft limit.
func WithOverdraftLimit(limit decimal.Decimal) LedgerServiceOption {
	return func(s *ledgerService) {
		s.overdraft = domain.Floor2(limit.Abs())
	}
}

// WithLedgerClock replaces the clock used to stamp new entries.
func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates the ledger on top of a shared state. converter may be nil,
// in which case foreign deposits are rejected.
func NewLedgerService(state *LedgerState, converter portssvc.CurrencyConverterSvc, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	s := &ledgerService{
		state:     state,
		converter: converter,
		overdraft: DefaultOverdraftLimit,
		now:       time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// posting is a forward transaction before it has an id.
type posting struct {
	kind            domain.TransactionKind
	accountNumber   int
	counterparty    int
	amount          decimal.Decimal
	foreignAmount   decimal.Decimal
	foreignCurrency string
}

func (s *ledgerService) Deposit(ctx context.Context, accountNumber int, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.apply(ctx, posting{kind: domain.Deposit, accountNumber: accountNumber, amount: amount})
}

func (s *ledgerService) DepositForeign(ctx context.Context, accountNumber int, foreignAmount decimal.Decimal, currency string) (*domain.Transaction, error) {
	if s.converter == nil {
		return nil, fmt.Errorf("%w: foreign deposits are not enabled", apperrors.ErrValidation)
	}
	cad, err := s.converter.ToCAD(currency, foreignAmount)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected foreign deposit", slog.Int("account_number", accountNumber), slog.String("currency", currency))
		return nil, err
	}
	return s.apply(ctx, posting{
		kind:            domain.ForeignDeposit,
		accountNumber:   accountNumber,
		amount:          cad,
		foreignAmount:   foreignAmount,
		foreignCurrency: currency,
	})
}

func (s *ledgerService) Withdraw(ctx context.Context, accountNumber int, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.apply(ctx, posting{kind: domain.Withdrawal, accountNumber: accountNumber, amount: amount})
}

func (s *ledgerService) Transfer(ctx context.Context, fromAccount, toAccount int, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.apply(ctx, posting{kind: domain.Transfer, accountNumber: fromAccount, counterparty: toAccount, amount: amount})
}

func (s *ledgerService) Pay(ctx context.Context, fromAccount, payeeAccount int, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.apply(ctx, posting{kind: domain.Payment, accountNumber: fromAccount, counterparty: payeeAccount, amount: amount})
}

// apply runs every forward transaction kind through the same pipeline: validate,
// compute the legs on a cloned registry, commit the log line and account file as
// one unit, then publish. Nothing is published unless the commit succeeds.
func (s *ledgerService) apply(ctx context.Context, p posting) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx).With(slog.String("transaction_type", string(p.kind)), slog.Int("account_number", p.accountNumber))

	if !p.amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	amount := domain.Floor2(p.amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be at least 0.01", apperrors.ErrValidation)
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	snap := s.state.load()
	own, ok := snap.registry.Get(p.accountNumber)
	if !ok {
		logger.Warn("Account not found for transaction")
		return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, p.accountNumber)
	}
	if p.kind.HasCounterpartyAccount() {
		if err := checkCounterparty(snap.registry, p.kind, own, p.counterparty); err != nil {
			logger.Warn("Rejected transaction counterparty", slog.Int("counterparty_number", p.counterparty), slog.String("error", err.Error()))
			return nil, err
		}
	}

	trx := domain.Transaction{
		TransactionID:      snap.nextTransactionID,
		CustomerNumber:     own.OwnerCustomerNumber,
		AccountNumber:      own.AccountNumber,
		Amount:             amount,
		Kind:               p.kind,
		Timestamp:          s.now(),
		CounterpartyNumber: p.counterparty,
		Undoable:           p.kind.DefaultUndoable(),
		ForeignAmount:      p.foreignAmount,
		ForeignCurrency:    p.foreignCurrency,
	}
	if err := trx.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	registry := snap.registry.Clone()
	if err := s.postLegs(registry, trx, resolveLegs(trx, trx.Kind.Legs(), false), true); err != nil {
		logger.Warn("Transaction rejected", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.state.commitTransaction(ctx, registry, trx); err != nil {
		s.LogError(ctx, err, "Failed to commit transaction", slog.Int("transaction_id", trx.TransactionID))
		return nil, err
	}
	s.state.publish(snap.withTransaction(registry, trx))

	tracked := trx
	s.mostRecent = &tracked

	logger.Info("Transaction posted",
		slog.Int("transaction_id", trx.TransactionID),
		slog.String("amount", domain.FormatAmount(trx.Amount)),
		slog.Bool("undoable", trx.Undoable))
	return &trx, nil
}

func checkCounterparty(registry *Registry, kind domain.TransactionKind, own domain.Account, counterparty int) error {
	if counterparty == own.AccountNumber {
		return fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrValidation)
	}
	other, ok := registry.Get(counterparty)
	if !ok {
		return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, counterparty)
	}
	sameOwner := other.OwnerCustomerNumber == own.OwnerCustomerNumber
	switch {
	case kind == domain.Transfer && !sameOwner:
		return fmt.Errorf("%w: transfers are between accounts of the same customer; use a payment", apperrors.ErrValidation)
	case kind == domain.Payment && sameOwner:
		return fmt.Errorf("%w: payments go to another customer's account; use a transfer", apperrors.ErrValidation)
	}
	return nil
}

// accountLeg is a leg bound to a concrete account.
type accountLeg struct {
	accountNumber int
	direction     domain.Direction
}

// resolveLegs binds legs to the accounts of trx. With invert set every direction
// is flipped, which yields the exact inverse effect.
func resolveLegs(trx domain.Transaction, legs []domain.Leg, invert bool) []accountLeg {
	out := make([]accountLeg, 0, len(legs))
	for _, leg := range legs {
		n := trx.AccountNumber
		if leg.Target == domain.CounterpartyAccount {
			n = trx.CounterpartyNumber
		}
		dir := leg.Direction
		if invert {
			dir = dir.Invert()
		}
		out = append(out, accountLeg{accountNumber: n, direction: dir})
	}
	return out
}

// postLegs applies each leg of trx to registry and stamps the touched accounts with
// its id. Limits are only enforced for forward transactions.
func (s *ledgerService) postLegs(registry *Registry, trx domain.Transaction, legs []accountLeg, enforceLimits bool) error {
	for _, leg := range legs {
		acct, ok := registry.Get(leg.accountNumber)
		if !ok {
			return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, leg.accountNumber)
		}
		if enforceLimits && leg.direction == domain.MoneyOut && !acct.CanSend() {
			return fmt.Errorf("%w: money cannot leave %s %d", apperrors.ErrValidation, acct.Kind, acct.AccountNumber)
		}

		delta, err := domain.SignedDelta(acct.Kind.Nature(), leg.direction, trx.Amount)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if err := registry.AddAmount(leg.accountNumber, delta); err != nil {
			return err
		}

		if enforceLimits {
			updated, _ := registry.Get(leg.accountNumber)
			if err := updated.CheckBalance(s.overdraft); err != nil {
				return fmt.Errorf("%w: %v", apperrors.ErrInsufficientFunds, err)
			}
		}
		if err := registry.SetRecentTransaction(leg.accountNumber, trx.TransactionID); err != nil {
			return err
		}
	}
	return nil
}

// MostRecentTransaction returns a copy of the tracked transaction, or nil.
func (s *ledgerService) MostRecentTransaction() *domain.Transaction {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if s.mostRecent == nil {
		return nil
	}
	trx := *s.mostRecent
	return &trx
}

func isRejection(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotUndoable) ||
		errors.Is(err, apperrors.ErrConflict)
}
