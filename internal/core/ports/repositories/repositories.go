package repositories

import (
	"context"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
)

// AccountStore persists account records. The file is rewritten wholesale on every change.
type AccountStore interface {
	// ReadAllAccounts returns every well-formed account record. Malformed lines are
	// logged and skipped; an I/O failure returns what was parsed alongside the error.
	ReadAllAccounts(ctx context.Context) ([]domain.Account, error)

	// WriteAllAccounts replaces the account file with the given records.
	WriteAllAccounts(ctx context.Context, accounts []domain.Account) error
}

// TransactionStore persists the append-only ledger.
type TransactionStore interface {
	// ReadAllTransactions returns the full log in file order.
	ReadAllTransactions(ctx context.Context) ([]domain.Transaction, error)

	// HighestTransactionID returns the largest id present in the log, counting lines
	// that ReadAllTransactions skipped as malformed.
	HighestTransactionID(ctx context.Context) (int, error)

	// AppendTransaction appends one line and returns the file size before the append,
	// which TruncateTransactions can restore if the surrounding unit of work fails.
	AppendTransaction(ctx context.Context, trx domain.Transaction) (int64, error)

	// TruncateTransactions cuts the log back to size bytes.
	TruncateTransactions(ctx context.Context, size int64) error
}

// AccountRequestStore persists pending account requests. The file is rewritten wholesale.
type AccountRequestStore interface {
	ReadAllAccountRequests(ctx context.Context) ([]domain.AccountRequest, error)
	WriteAllAccountRequests(ctx context.Context, requests []domain.AccountRequest) error
}

// CustomerStore persists customer identity records.
type CustomerStore interface {
	ReadAllCustomers(ctx context.Context) ([]domain.Customer, error)
	WriteAllCustomers(ctx context.Context, customers []domain.Customer) error
}

// UnitOfWork collects compensations for the writes of one logical mutation.
type UnitOfWork interface {
	// OnRollback registers fn to run, in reverse registration order, if the unit fails.
	OnRollback(fn func(ctx context.Context) error)
}

// TransactionManager runs a sequence of writes as one all-or-nothing unit.
type TransactionManager interface {
	WithUnitOfWork(ctx context.Context, fn func(uow UnitOfWork) error) error
}

// RecordStore combines every store the ledger core calls into.
type RecordStore interface {
	AccountStore
	TransactionStore
	AccountRequestStore
	CustomerStore
	TransactionManager
}
