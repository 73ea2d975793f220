package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/atm_ledger/internal/apperrors"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/atm_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/SscSPs/atm_ledger/internal/dto"
	"github.com/SscSPs/atm_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// DefaultCreditLimit is given to new credit card and line of credit accounts.
var DefaultCreditLimit = decimal.RequireFromString("1000.00")

// DefaultPageSize is used when a transaction listing does not ask for a limit.
const DefaultPageSize = 50

// bankService orchestrates account creation, the request workflow and lookups.
type bankService struct {
	BaseService
	state       *LedgerState
	creditLimit decimal.Decimal
	now         func() time.Time
}

// BankServiceOption is a functional option for configuring the bank service.
type BankServiceOption func(*bankService)

// WithDefaultCreditLimit sets the credit limit of new credit accounts.
func WithDefaultCreditLimit(limit decimal.Decimal) BankServiceOption {
	return func(s *bankService) {
		s.creditLimit = domain.Floor2(limit.Abs())
	}
}

// WithBankClock replaces the clock used to stamp new records.
func WithBankClock(now func() time.Time) BankServiceOption {
	return func(s *bankService) {
		s.now = now
	}
}

// NewBankService creates the bank facade on top of a shared state.
func NewBankService(state *LedgerState, options ...BankServiceOption) portssvc.BankSvcFacade {
	s := &bankService{
		state:       state,
		creditLimit: DefaultCreditLimit,
		now:         time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Ensure bankService implements the portssvc.BankSvcFacade interface
var _ portssvc.BankSvcFacade = (*bankService)(nil)

func (s *bankService) Reload(ctx context.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if err := s.state.reloadLocked(ctx); err != nil {
		s.LogError(ctx, err, "Reload served partial data")
		return err
	}
	return nil
}

func (s *bankService) CreateAccount(ctx context.Context, req domain.AccountRequest) (*domain.Account, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	snap := s.state.load()
	account, registry, err := s.openAccount(snap, req)
	if err != nil {
		s.LogWarn(ctx, err, "Account creation rejected", slog.Int("customer_number", req.CustomerNumber), slog.String("account_type", req.RequestedKind))
		return nil, err
	}

	if err := s.state.store.WriteAllAccounts(ctx, registry.Accounts()); err != nil {
		s.LogError(ctx, err, "Failed to persist new account", slog.Int("account_number", account.AccountNumber))
		return nil, err
	}
	s.state.publish(snap.withAccount(registry, snap.requests))

	s.LogInfo(ctx, "Account created",
		slog.Int("account_number", account.AccountNumber),
		slog.Int("customer_number", account.OwnerCustomerNumber),
		slog.String("account_type", string(account.Kind)),
		slog.Bool("is_primary", account.IsPrimary))
	return &account, nil
}

// openAccount builds the account for req on a clone of the snapshot's registry.
// The first chequing account of a customer becomes the primary one.
func (s *bankService) openAccount(snap *snapshot, req domain.AccountRequest) (domain.Account, *Registry, error) {
	if _, ok := snap.customers[req.CustomerNumber]; !ok {
		return domain.Account{}, nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, req.CustomerNumber)
	}
	kind, err := domain.ParseAccountKind(req.RequestedKind)
	if err != nil {
		return domain.Account{}, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	account := domain.Account{
		AccountNumber:       snap.nextAccountNumber,
		OwnerCustomerNumber: req.CustomerNumber,
		Kind:                kind,
		Balance:             domain.Floor2(decimal.Zero),
		OpenedAt:            s.now(),
	}
	switch {
	case kind == domain.Chequing:
		_, hasPrimary := snap.registry.PrimaryChequing(req.CustomerNumber)
		account.IsPrimary = !hasPrimary
	case kind.HasCreditLimit():
		account.CreditLimit = s.creditLimit
	}

	registry := snap.registry.Clone()
	registry.Put(account)
	return account, registry, nil
}

func (s *bankService) ApproveAccountRequest(ctx context.Context, index int) (*domain.Account, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	snap := s.state.load()
	if index < 0 || index >= len(snap.requests) {
		return nil, fmt.Errorf("%w: account request %d", apperrors.ErrNotFound, index)
	}
	req := snap.requests[index]

	account, registry, err := s.openAccount(snap, req)
	if err != nil {
		s.LogWarn(ctx, err, "Account request rejected", slog.Int("index", index), slog.Int("customer_number", req.CustomerNumber))
		return nil, err
	}
	remaining := slices.Delete(slices.Clone(snap.requests), index, index+1)

	previous := snap.registry.Accounts()
	err = s.state.store.WithUnitOfWork(ctx, func(uow portsrepo.UnitOfWork) error {
		if err := s.state.store.WriteAllAccounts(ctx, registry.Accounts()); err != nil {
			return err
		}
		uow.OnRollback(func(ctx context.Context) error {
			return s.state.store.WriteAllAccounts(ctx, previous)
		})
		return s.state.store.WriteAllAccountRequests(ctx, remaining)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to approve account request", slog.Int("index", index))
		return nil, err
	}
	s.state.publish(snap.withAccount(registry, remaining))

	s.LogInfo(ctx, "Account request approved",
		slog.Int("account_number", account.AccountNumber),
		slog.Int("customer_number", account.OwnerCustomerNumber),
		slog.String("account_type", string(account.Kind)))
	return &account, nil
}

func (s *bankService) SubmitAccountRequest(ctx context.Context, customerNumber int, requestedKind string) (*domain.AccountRequest, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	snap := s.state.load()
	if _, ok := snap.customers[customerNumber]; !ok {
		return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerNumber)
	}
	kind, err := domain.ParseAccountKind(requestedKind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	req := domain.AccountRequest{CustomerNumber: customerNumber, RequestedKind: string(kind), RequestedAt: s.now()}
	requests := append(slices.Clip(snap.requests), req)
	if err := s.state.store.WriteAllAccountRequests(ctx, requests); err != nil {
		s.LogError(ctx, err, "Failed to persist account request", slog.Int("customer_number", customerNumber))
		return nil, err
	}
	s.state.publish(snap.withRequests(requests))

	s.LogInfo(ctx, "Account request submitted", slog.Int("customer_number", customerNumber), slog.String("account_type", req.RequestedKind))
	return &req, nil
}

func (s *bankService) UpdateAccountRequests(ctx context.Context, requests []domain.AccountRequest) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	snap := s.state.load()
	normalized := make([]domain.AccountRequest, len(requests))
	for i, r := range requests {
		if _, ok := snap.customers[r.CustomerNumber]; !ok {
			return fmt.Errorf("%w: account request %d: customer %d", apperrors.ErrNotFound, i, r.CustomerNumber)
		}
		kind, err := domain.ParseAccountKind(r.RequestedKind)
		if err != nil {
			return fmt.Errorf("%w: account request %d: %v", apperrors.ErrValidation, i, err)
		}
		if r.RequestedAt.IsZero() {
			return fmt.Errorf("%w: account request %d has no request time", apperrors.ErrValidation, i)
		}
		r.RequestedKind = string(kind)
		normalized[i] = r
	}

	if err := s.state.store.WriteAllAccountRequests(ctx, normalized); err != nil {
		s.LogError(ctx, err, "Failed to rewrite account requests")
		return err
	}
	s.state.publish(snap.withRequests(normalized))
	s.LogInfo(ctx, "Account requests updated", slog.Int("count", len(normalized)))
	return nil
}

func (s *bankService) RegisterCustomer(ctx context.Context, username string) (*domain.Customer, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.ContainsAny(username, "\t\n\r") {
		return nil, fmt.Errorf("%w: username must be non-empty and contain no tabs or line breaks", apperrors.ErrValidation)
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	snap := s.state.load()
	for _, c := range snap.customers {
		if strings.EqualFold(c.Username, username) {
			return nil, fmt.Errorf("%w: username '%s' is taken", apperrors.ErrConflict, username)
		}
	}

	customer := domain.Customer{CustomerNumber: snap.nextCustomerNumber, Username: username, CreatedAt: s.now()}
	customers := make([]domain.Customer, 0, len(snap.customers)+1)
	for _, c := range snap.customers {
		customers = append(customers, c)
	}
	customers = append(customers, customer)
	slices.SortFunc(customers, func(a, b domain.Customer) int { return cmp.Compare(a.CustomerNumber, b.CustomerNumber) })

	if err := s.state.store.WriteAllCustomers(ctx, customers); err != nil {
		s.LogError(ctx, err, "Failed to persist customer", slog.String("username", username))
		return nil, err
	}
	s.state.publish(snap.withCustomer(customer))

	s.LogInfo(ctx, "Customer registered", slog.Int("customer_number", customer.CustomerNumber))
	return &customer, nil
}

func (s *bankService) FindCustomer(ctx context.Context, customerNumber int) (*domain.Customer, error) {
	c, ok := s.state.load().customer(customerNumber)
	if !ok {
		return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerNumber)
	}
	return &c, nil
}

func (s *bankService) FindAccount(ctx context.Context, accountNumber int) (*domain.Account, error) {
	a, ok := s.state.load().registry.Get(accountNumber)
	if !ok {
		return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountNumber)
	}
	return &a, nil
}

func (s *bankService) FindTransaction(ctx context.Context, transactionID int) (*domain.Transaction, error) {
	t, ok := s.state.load().findTransaction(transactionID)
	if !ok {
		return nil, fmt.Errorf("%w: transaction %d", apperrors.ErrNotFound, transactionID)
	}
	return &t, nil
}

func (s *bankService) ListCustomerAccounts(ctx context.Context, customerNumber int) ([]domain.Account, error) {
	snap := s.state.load()
	if _, ok := snap.customers[customerNumber]; !ok {
		return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerNumber)
	}
	return snap.registry.ByOwner(customerNumber), nil
}

// ListTransactions returns a page of the log in file order, optionally narrowed to one
// customer or to one account. An account matches as source, as destination, or through
// the entry a reversal points at. Pages are cut by transaction id.
func (s *bankService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	afterID := 0
	if params.NextToken != nil {
		var err error
		if afterID, err = pagination.DecodeToken(*params.NextToken); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	snap := s.state.load()
	var byID map[int]domain.Transaction
	if params.AccountNumber != 0 {
		byID = make(map[int]domain.Transaction, len(snap.transactions))
		for _, t := range snap.transactions {
			byID[t.TransactionID] = t
		}
	}

	page := make([]domain.Transaction, 0, min(limit, len(snap.transactions)))
	var nextToken *string
	for _, t := range snap.transactions {
		if t.TransactionID <= afterID {
			continue
		}
		if params.CustomerNumber != 0 && t.CustomerNumber != params.CustomerNumber {
			continue
		}
		if params.AccountNumber != 0 && !touchesAccount(t, params.AccountNumber, byID) {
			continue
		}
		if len(page) == limit {
			token := pagination.EncodeToken(page[len(page)-1].TransactionID)
			nextToken = &token
			break
		}
		page = append(page, t)
	}

	s.LogDebug(ctx, "Transactions listed", slog.Int("count", len(page)))
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(page),
		NextToken:    nextToken,
	}, nil
}

func touchesAccount(t domain.Transaction, accountNumber int, byID map[int]domain.Transaction) bool {
	if t.AccountNumber == accountNumber {
		return true
	}
	if t.Kind.HasCounterpartyAccount() {
		return t.CounterpartyNumber == accountNumber
	}
	if t.IsReversingEntry {
		original, ok := byID[t.CounterpartyNumber]
		return ok && original.Kind.HasCounterpartyAccount() && original.CounterpartyNumber == accountNumber
	}
	return false
}

func (s *bankService) ListAccountRequests(ctx context.Context) ([]domain.AccountRequest, error) {
	return slices.Clone(s.state.load().requests), nil
}

func (s *bankService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.state.load().registry.Accounts(), nil
}
