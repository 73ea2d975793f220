package services

import (
	"context"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerWriterSvc posts forward transactions.
type LedgerWriterSvc interface {
	// Deposit posts a domestic deposit. The entry is undoable.
	Deposit(ctx context.Context, accountNumber int, amount decimal.Decimal) (*domain.Transaction, error)

	// DepositForeign converts a foreign-currency amount to CAD and posts the result.
	// The entry is never undoable.
	DepositForeign(ctx context.Context, accountNumber int, foreignAmount decimal.Decimal, currency string) (*domain.Transaction, error)

	// Withdraw takes money out of an account.
	Withdraw(ctx context.Context, accountNumber int, amount decimal.Decimal) (*domain.Transaction, error)

	// Transfer moves money between two accounts of the same customer.
	Transfer(ctx context.Context, fromAccount, toAccount int, amount decimal.Decimal) (*domain.Transaction, error)

	// Pay moves money to an account owned by a different customer.
	Pay(ctx context.Context, fromAccount, payeeAccount int, amount decimal.Decimal) (*domain.Transaction, error)
}

// UndoSvc reverses posted transactions by appending Reversal entries.
type UndoSvc interface {
	// UndoMostRecentTransaction reverses the transaction tracked as most recent and clears the pointer.
	UndoMostRecentTransaction(ctx context.Context) (*domain.Transaction, error)

	// UndoTransaction reverses any undoable transaction in the log by id.
	UndoTransaction(ctx context.Context, transactionID int) (*domain.Transaction, error)

	// MostRecentTransaction returns the transaction currently tracked for undo, or nil.
	MostRecentTransaction() *domain.Transaction
}

// LedgerSvcFacade combines the posting and undo operations.
type LedgerSvcFacade interface {
	LedgerWriterSvc
	UndoSvc
}
