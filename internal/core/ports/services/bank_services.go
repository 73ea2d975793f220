package services

import (
	"context"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/SscSPs/atm_ledger/internal/dto"
)

// BankReaderSvc serves lookups from the last published snapshot.
type BankReaderSvc interface {
	FindCustomer(ctx context.Context, customerNumber int) (*domain.Customer, error)
	FindAccount(ctx context.Context, accountNumber int) (*domain.Account, error)
	FindTransaction(ctx context.Context, transactionID int) (*domain.Transaction, error)
	ListCustomerAccounts(ctx context.Context, customerNumber int) ([]domain.Account, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	ListAccountRequests(ctx context.Context) ([]domain.AccountRequest, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// BankWriterSvc covers account creation and the request workflow.
type BankWriterSvc interface {
	// Reload rereads every record file and publishes a fresh snapshot.
	Reload(ctx context.Context) error

	// CreateAccount opens the account described by req for an existing customer.
	CreateAccount(ctx context.Context, req domain.AccountRequest) (*domain.Account, error)

	// ApproveAccountRequest creates the account for the pending request at index and removes the request.
	ApproveAccountRequest(ctx context.Context, index int) (*domain.Account, error)

	SubmitAccountRequest(ctx context.Context, customerNumber int, requestedKind string) (*domain.AccountRequest, error)

	// UpdateAccountRequests replaces the pending request list wholesale.
	UpdateAccountRequests(ctx context.Context, requests []domain.AccountRequest) error

	RegisterCustomer(ctx context.Context, username string) (*domain.Customer, error)
}

// BankSvcFacade combines the bank read and write operations.
type BankSvcFacade interface {
	BankReaderSvc
	BankWriterSvc
}
