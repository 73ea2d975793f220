package flatfile

import (
	"context"
	"log/slog"
	"path/filepath"

	portsrepo "github.com/SscSPs/atm_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/atm_ledger/internal/middleware"
)

const (
	DefaultAccountFile        = "accounts.txt"
	DefaultTransactionFile    = "transactions.txt"
	DefaultAccountRequestFile = "account_requests.txt"
	DefaultCustomerFile       = "customers.txt"
)

// Store is the tab-delimited Record Store. Every call opens, uses and closes
// its own file handle; nothing is held between calls.
type Store struct {
	dir                string
	accountFile        string
	transactionFile    string
	accountRequestFile string
	customerFile       string
}

// StoreOption is a functional option for configuring the store.
type StoreOption func(*Store)

// WithAccountFile overrides the account file name.
func WithAccountFile(name string) StoreOption {
	return func(s *Store) {
		if name != "" {
			s.accountFile = name
		}
	}
}

// WithTransactionFile overrides the transaction log file name.
func WithTransactionFile(name string) StoreOption {
	return func(s *Store) {
		if name != "" {
			s.transactionFile = name
		}
	}
}

// WithAccountRequestFile overrides the account request file name.
func WithAccountRequestFile(name string) StoreOption {
	return func(s *Store) {
		if name != "" {
			s.accountRequestFile = name
		}
	}
}

// WithCustomerFile overrides the customer file name.
func WithCustomerFile(name string) StoreOption {
	return func(s *Store) {
		if name != "" {
			s.customerFile = name
		}
	}
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, options ...StoreOption) *Store {
	s := &Store{
		dir:                dir,
		accountFile:        DefaultAccountFile,
		transactionFile:    DefaultTransactionFile,
		accountRequestFile: DefaultAccountRequestFile,
		customerFile:       DefaultCustomerFile,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Ensure Store implements the portsrepo.RecordStore interface
var _ portsrepo.RecordStore = (*Store)(nil)

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

type unitOfWork struct {
	compensations []func(ctx context.Context) error
}

func (u *unitOfWork) OnRollback(fn func(ctx context.Context) error) {
	u.compensations = append(u.compensations, fn)
}

// WithUnitOfWork runs fn and, if it fails, undoes the writes it registered
// compensations for, newest first. The error from fn is returned unchanged.
func (s *Store) WithUnitOfWork(ctx context.Context, fn func(uow portsrepo.UnitOfWork) error) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	u := &unitOfWork{}

	err := fn(u)
	if err == nil {
		return nil
	}

	for i := len(u.compensations) - 1; i >= 0; i-- {
		if cerr := u.compensations[i](ctx); cerr != nil {
			// Nothing more can be done automatically; the operator has to reconcile.
			logger.Error("Failed to roll back record store write", slog.String("error", cerr.Error()), slog.String("cause", err.Error()))
		}
	}
	return err
}
