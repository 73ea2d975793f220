package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/atm_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/atm_ledger/internal/middleware"
)

const (
	firstAccountNumber  = 1001
	firstCustomerNumber = 1
)

// snapshot is one consistent view of the bank. Published snapshots are read-only;
// every mutation builds a successor and publishes it whole.
type snapshot struct {
	registry     *Registry
	customers    map[int]domain.Customer
	transactions []domain.Transaction
	requests     []domain.AccountRequest
	// reversedBy maps a reversed transaction id to the id of its Reversal entry.
	reversedBy map[int]int

	nextTransactionID  int
	nextAccountNumber  int
	nextCustomerNumber int
}

func buildSnapshot(accounts []domain.Account, trxs []domain.Transaction, highestTrxID int, requests []domain.AccountRequest, customers []domain.Customer) *snapshot {
	s := &snapshot{
		registry:           NewRegistry(accounts),
		customers:          make(map[int]domain.Customer, len(customers)),
		transactions:       slices.Clip(trxs),
		requests:           slices.Clip(requests),
		reversedBy:         make(map[int]int),
		nextTransactionID:  max(1, highestTrxID+1),
		nextCustomerNumber: firstCustomerNumber,
	}

	for _, c := range customers {
		s.customers[c.CustomerNumber] = c
		s.nextCustomerNumber = max(s.nextCustomerNumber, c.CustomerNumber+1)
	}
	for _, a := range accounts {
		s.nextCustomerNumber = max(s.nextCustomerNumber, a.OwnerCustomerNumber+1)
	}
	for _, t := range trxs {
		s.nextTransactionID = max(s.nextTransactionID, t.TransactionID+1)
		if t.IsReversingEntry {
			s.reversedBy[t.CounterpartyNumber] = t.TransactionID
		}
	}
	s.nextAccountNumber = max(firstAccountNumber, s.registry.MaxAccountNumber()+1)
	return s
}

// customer returns the customer with its primary chequing reference derived from the registry.
func (s *snapshot) customer(customerNumber int) (domain.Customer, bool) {
	c, ok := s.customers[customerNumber]
	if !ok {
		return c, false
	}
	c.PrimaryChequingAccount = nil
	if n, ok := s.registry.PrimaryChequing(customerNumber); ok {
		c.PrimaryChequingAccount = &n
	}
	return c, true
}

// findTransaction scans the whole log.
func (s *snapshot) findTransaction(transactionID int) (domain.Transaction, bool) {
	for _, t := range s.transactions {
		if t.TransactionID == transactionID {
			return t, true
		}
	}
	return domain.Transaction{}, false
}

// withTransaction returns the successor snapshot after trx was committed against registry.
func (s *snapshot) withTransaction(registry *Registry, trx domain.Transaction) *snapshot {
	next := *s
	next.registry = registry
	next.transactions = append(slices.Clip(s.transactions), trx)
	if trx.IsReversingEntry {
		next.reversedBy = maps.Clone(s.reversedBy)
		next.reversedBy[trx.CounterpartyNumber] = trx.TransactionID
	}
	next.nextTransactionID = max(s.nextTransactionID, trx.TransactionID+1)
	return &next
}

// withAccount returns the successor snapshot after a new account was persisted.
func (s *snapshot) withAccount(registry *Registry, requests []domain.AccountRequest) *snapshot {
	next := *s
	next.registry = registry
	next.requests = slices.Clip(requests)
	next.nextAccountNumber = max(s.nextAccountNumber, registry.MaxAccountNumber()+1)
	return &next
}

func (s *snapshot) withRequests(requests []domain.AccountRequest) *snapshot {
	next := *s
	next.requests = slices.Clip(requests)
	return &next
}

func (s *snapshot) withCustomer(c domain.Customer) *snapshot {
	next := *s
	next.customers = maps.Clone(s.customers)
	next.customers[c.CustomerNumber] = c
	next.nextCustomerNumber = max(s.nextCustomerNumber, c.CustomerNumber+1)
	return &next
}

// LedgerState owns the published snapshot and the single-writer lock shared by the
// ledger and bank services. Readers load the snapshot without locking.
type LedgerState struct {
	store   portsrepo.RecordStore
	mu      sync.Mutex
	current atomic.Pointer[snapshot]
}

// NewLedgerState creates an empty state backed by store. Call Reload on the bank
// service to populate it from disk.
func NewLedgerState(store portsrepo.RecordStore) *LedgerState {
	st := &LedgerState{store: store}
	st.current.Store(buildSnapshot(nil, nil, 0, nil, nil))
	return st
}

func (st *LedgerState) load() *snapshot {
	return st.current.Load()
}

func (st *LedgerState) publish(s *snapshot) {
	st.current.Store(s)
}

// reloadLocked rereads every record file and publishes the result. Read failures
// degrade to whatever was parsed; they are joined into the returned error.
// The caller must hold st.mu.
func (st *LedgerState) reloadLocked(ctx context.Context) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, accErr := st.store.ReadAllAccounts(ctx)
	trxs, trxErr := st.store.ReadAllTransactions(ctx)
	highestTrxID, idErr := st.store.HighestTransactionID(ctx)
	requests, reqErr := st.store.ReadAllAccountRequests(ctx)
	customers, custErr := st.store.ReadAllCustomers(ctx)

	st.publish(buildSnapshot(accounts, trxs, highestTrxID, requests, customers))
	logger.Info("Ledger state reloaded",
		slog.Int("accounts", len(accounts)),
		slog.Int("transactions", len(trxs)),
		slog.Int("highest_transaction_id", highestTrxID),
		slog.Int("account_requests", len(requests)),
		slog.Int("customers", len(customers)))

	if err := errors.Join(accErr, trxErr, idErr, reqErr, custErr); err != nil {
		return fmt.Errorf("reload completed with partial data: %w", err)
	}
	return nil
}

// commitTransaction appends trx and rewrites the account file from registry as one
// unit. If the rewrite fails the appended line is truncated away.
// The caller must hold st.mu.
func (st *LedgerState) commitTransaction(ctx context.Context, registry *Registry, trx domain.Transaction) error {
	return st.store.WithUnitOfWork(ctx, func(uow portsrepo.UnitOfWork) error {
		size, err := st.store.AppendTransaction(ctx, trx)
		if err != nil {
			return err
		}
		uow.OnRollback(func(ctx context.Context) error {
			return st.store.TruncateTransactions(ctx, size)
		})
		return st.store.WriteAllAccounts(ctx, registry.Accounts())
	})
}
