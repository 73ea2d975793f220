package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/atm_ledger/internal/adapters/flatfile"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/atm_ledger/internal/core/ports/services"
	"github.com/SscSPs/atm_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var opened = time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedAccounts is the bank every ledger test starts from.
//
//	customer 1: chequing 1001 (100.00, primary), saving 1002 (20.00), credit card 1003, line of credit 1004
//	customer 2: chequing 1005 (0.00, primary)
func seedAccounts() []domain.Account {
	return []domain.Account{
		{AccountNumber: 1001, OwnerCustomerNumber: 1, Kind: domain.Chequing, Balance: amt("100.00"), OpenedAt: opened, IsPrimary: true},
		{AccountNumber: 1002, OwnerCustomerNumber: 1, Kind: domain.Saving, Balance: amt("20.00"), OpenedAt: opened},
		{AccountNumber: 1003, OwnerCustomerNumber: 1, Kind: domain.CreditCard, Balance: amt("0.00"), OpenedAt: opened, CreditLimit: amt("500.00")},
		{AccountNumber: 1004, OwnerCustomerNumber: 1, Kind: domain.LineOfCredit, Balance: amt("0.00"), OpenedAt: opened, CreditLimit: amt("300.00")},
		{AccountNumber: 1005, OwnerCustomerNumber: 2, Kind: domain.Chequing, Balance: amt("0.00"), OpenedAt: opened, IsPrimary: true},
	}
}

func seedCustomers() []domain.Customer {
	return []domain.Customer{
		{CustomerNumber: 1, Username: "alice", CreatedAt: opened},
		{CustomerNumber: 2, Username: "bob", CreatedAt: opened},
		{CustomerNumber: 3, Username: "carol", CreatedAt: opened},
	}
}

type fixture struct {
	dir    string
	store  *flatfile.Store
	ledger portssvc.LedgerSvcFacade
	bank   portssvc.BankSvcFacade
}

func seedStore(t *testing.T, store *flatfile.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.WriteAllAccounts(ctx, seedAccounts()))
	require.NoError(t, store.WriteAllCustomers(ctx, seedCustomers()))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	store := flatfile.NewStore(dir)
	seedStore(t, store)

	converter, err := services.NewCurrencyConverter(map[string]decimal.Decimal{"USD": amt("1.35")})
	require.NoError(t, err)

	state := services.NewLedgerState(store)
	f := &fixture{
		dir:    dir,
		store:  store,
		ledger: services.NewLedgerService(state, converter),
		bank:   services.NewBankService(state, services.WithDefaultCreditLimit(amt("1000.00"))),
	}
	require.NoError(t, f.bank.Reload(context.Background()))
	return f
}

func (f *fixture) balance(t *testing.T, accountNumber int) string {
	t.Helper()
	a, err := f.bank.FindAccount(context.Background(), accountNumber)
	require.NoError(t, err)
	return domain.FormatAmount(a.Balance)
}

// diskBalance reads the account straight from the record file.
func (f *fixture) diskBalance(t *testing.T, accountNumber int) string {
	t.Helper()
	accounts, err := f.store.ReadAllAccounts(context.Background())
	require.NoError(t, err)
	for _, a := range accounts {
		if a.AccountNumber == accountNumber {
			return domain.FormatAmount(a.Balance)
		}
	}
	t.Fatalf("account %d not on disk", accountNumber)
	return ""
}

func (f *fixture) diskTransactions(t *testing.T) []domain.Transaction {
	t.Helper()
	trxs, err := f.store.ReadAllTransactions(context.Background())
	require.NoError(t, err)
	return trxs
}
