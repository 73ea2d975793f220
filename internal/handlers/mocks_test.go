package handlers_test

import (
	"context"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/SscSPs/atm_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) postResult(args mock.Arguments) (*domain.Transaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Deposit(ctx context.Context, accountNumber int, amount decimal.Decimal) (*domain.Transaction, error) {
	return m.postResult(m.Called(ctx, accountNumber, amount))
}
func (m *MockLedgerService) DepositForeign(ctx context.Context, accountNumber int, foreignAmount decimal.Decimal, currency string) (*domain.Transaction, error) {
	return m.postResult(m.Called(ctx, accountNumber, foreignAmount, currency))
}
func (m *MockLedgerService) Withdraw(ctx context.Context, accountNumber int, amount decimal.Decimal) (*domain.Transaction, error) {
	return m.postResult(m.Called(ctx, accountNumber, amount))
}
func (m *MockLedgerService) Transfer(ctx context.Context, fromAccount, toAccount int, amount decimal.Decimal) (*domain.Transaction, error) {
	return m.postResult(m.Called(ctx, fromAccount, toAccount, amount))
}
func (m *MockLedgerService) Pay(ctx context.Context, fromAccount, payeeAccount int, amount decimal.Decimal) (*domain.Transaction, error) {
	return m.postResult(m.Called(ctx, fromAccount, payeeAccount, amount))
}
func (m *MockLedgerService) UndoMostRecentTransaction(ctx context.Context) (*domain.Transaction, error) {
	return m.postResult(m.Called(ctx))
}
func (m *MockLedgerService) UndoTransaction(ctx context.Context, transactionID int) (*domain.Transaction, error) {
	return m.postResult(m.Called(ctx, transactionID))
}
func (m *MockLedgerService) MostRecentTransaction() *domain.Transaction {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Transaction)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock BankService ---
type MockBankService struct {
	mock.Mock
}

func (m *MockBankService) FindCustomer(ctx context.Context, customerNumber int) (*domain.Customer, error) {
	args := m.Called(ctx, customerNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockBankService) FindAccount(ctx context.Context, accountNumber int) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockBankService) FindTransaction(ctx context.Context, transactionID int) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockBankService) ListCustomerAccounts(ctx context.Context, customerNumber int) ([]domain.Account, error) {
	args := m.Called(ctx, customerNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockBankService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockBankService) ListAccountRequests(ctx context.Context) ([]domain.AccountRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountRequest), args.Error(1)
}
func (m *MockBankService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockBankService) Reload(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockBankService) CreateAccount(ctx context.Context, req domain.AccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockBankService) ApproveAccountRequest(ctx context.Context, index int) (*domain.Account, error) {
	args := m.Called(ctx, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockBankService) SubmitAccountRequest(ctx context.Context, customerNumber int, requestedKind string) (*domain.AccountRequest, error) {
	args := m.Called(ctx, customerNumber, requestedKind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountRequest), args.Error(1)
}
func (m *MockBankService) UpdateAccountRequests(ctx context.Context, requests []domain.AccountRequest) error {
	return m.Called(ctx, requests).Error(0)
}
func (m *MockBankService) RegisterCustomer(ctx context.Context, username string) (*domain.Customer, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

var _ portssvc.BankSvcFacade = (*MockBankService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

var _ portssvc.AuthSvc = (*MockAuthService)(nil)

// --- Mock CurrencyConverter ---
type MockCurrencyConverter struct {
	mock.Mock
}

func (m *MockCurrencyConverter) ToCAD(currency string, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(currency, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockCurrencyConverter) SupportedCurrencies() []string {
	return m.Called().Get(0).([]string)
}

var _ portssvc.CurrencyConverterSvc = (*MockCurrencyConverter)(nil)
