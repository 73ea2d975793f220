package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/atm_ledger/internal/adapters/flatfile"
	"github.com/SscSPs/atm_ledger/internal/apperrors"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/SscSPs/atm_ledger/internal/core/services"
	"github.com/SscSPs/atm_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type BankServiceTestSuite struct {
	suite.Suite
	f   *fixture
	ctx context.Context
}

func (suite *BankServiceTestSuite) SetupTest() {
	suite.f = newFixture(suite.T())
	suite.ctx = context.Background()
}

func (suite *BankServiceTestSuite) TestCreateAccount_FirstChequingIsPrimary() {
	first, err := suite.f.bank.CreateAccount(suite.ctx, domain.AccountRequest{CustomerNumber: 3, RequestedKind: "ChequingAccount"})
	suite.Require().NoError(err)
	suite.True(first.IsPrimary)
	suite.Equal(1006, first.AccountNumber)
	suite.Equal("0.00", domain.FormatAmount(first.Balance))

	second, err := suite.f.bank.CreateAccount(suite.ctx, domain.AccountRequest{CustomerNumber: 3, RequestedKind: "chequingaccount"})
	suite.Require().NoError(err)
	suite.False(second.IsPrimary)
	suite.Equal(1007, second.AccountNumber)

	customer, err := suite.f.bank.FindCustomer(suite.ctx, 3)
	suite.Require().NoError(err)
	suite.Require().NotNil(customer.PrimaryChequingAccount)
	suite.Equal(first.AccountNumber, *customer.PrimaryChequingAccount)

	// The flag is persisted, so a reload derives the same primary account.
	suite.Require().NoError(suite.f.bank.Reload(suite.ctx))
	customer, err = suite.f.bank.FindCustomer(suite.ctx, 3)
	suite.Require().NoError(err)
	suite.Equal(first.AccountNumber, *customer.PrimaryChequingAccount)
}

func (suite *BankServiceTestSuite) TestCreateAccount_ExistingPrimaryIsKept() {
	acct, err := suite.f.bank.CreateAccount(suite.ctx, domain.AccountRequest{CustomerNumber: 1, RequestedKind: "ChequingAccount"})
	suite.Require().NoError(err)
	suite.False(acct.IsPrimary)
}

func (suite *BankServiceTestSuite) TestCreateAccount_KindsAndLimits() {
	tests := []struct {
		kind      string
		want      domain.AccountKind
		wantLimit string
	}{
		{"SavingAccount", domain.Saving, "0.00"},
		{"POWERSAVINGACCOUNT", domain.PowerSaving, "0.00"},
		{"CreditCardAccount", domain.CreditCard, "1000.00"},
		{"lineOfCreditAccount", domain.LineOfCredit, "1000.00"},
	}
	for _, tt := range tests {
		acct, err := suite.f.bank.CreateAccount(suite.ctx, domain.AccountRequest{CustomerNumber: 2, RequestedKind: tt.kind})
		suite.Require().NoError(err, tt.kind)
		suite.Equal(tt.want, acct.Kind)
		suite.Equal(tt.wantLimit, domain.FormatAmount(acct.CreditLimit))
	}

	accounts, err := suite.f.bank.ListCustomerAccounts(suite.ctx, 2)
	suite.Require().NoError(err)
	suite.Len(accounts, 5)

	onDisk, err := suite.f.store.ReadAllAccounts(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(onDisk, 9)
}

func (suite *BankServiceTestSuite) TestCreateAccount_Rejections() {
	_, err := suite.f.bank.CreateAccount(suite.ctx, domain.AccountRequest{CustomerNumber: 77, RequestedKind: "SavingAccount"})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.f.bank.CreateAccount(suite.ctx, domain.AccountRequest{CustomerNumber: 1, RequestedKind: "BrokerageAccount"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	accounts, err := suite.f.bank.ListAccounts(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(accounts, len(seedAccounts()))
}

func (suite *BankServiceTestSuite) TestAccountRequestWorkflow() {
	_, err := suite.f.bank.SubmitAccountRequest(suite.ctx, 3, "savingaccount")
	suite.Require().NoError(err)
	_, err = suite.f.bank.SubmitAccountRequest(suite.ctx, 3, "ChequingAccount")
	suite.Require().NoError(err)

	_, err = suite.f.bank.SubmitAccountRequest(suite.ctx, 99, "ChequingAccount")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.f.bank.SubmitAccountRequest(suite.ctx, 3, "GoldAccount")
	suite.ErrorIs(err, apperrors.ErrValidation)

	pending, err := suite.f.bank.ListAccountRequests(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 2)
	suite.Equal("SavingAccount", pending[0].RequestedKind)

	acct, err := suite.f.bank.ApproveAccountRequest(suite.ctx, 1)
	suite.Require().NoError(err)
	suite.Equal(domain.Chequing, acct.Kind)
	suite.True(acct.IsPrimary)

	pending, err = suite.f.bank.ListAccountRequests(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal("SavingAccount", pending[0].RequestedKind)

	onDisk, err := suite.f.store.ReadAllAccountRequests(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(onDisk, 1)

	_, err = suite.f.bank.ApproveAccountRequest(suite.ctx, 5)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BankServiceTestSuite) TestApproveAccountRequest_UnknownTypeKeepsRequest() {
	// An operator edited the request file by hand.
	suite.Require().NoError(suite.f.store.WriteAllAccountRequests(suite.ctx, []domain.AccountRequest{
		{CustomerNumber: 3, RequestedKind: "GoldAccount", RequestedAt: opened},
	}))
	suite.Require().NoError(suite.f.bank.Reload(suite.ctx))

	_, err := suite.f.bank.ApproveAccountRequest(suite.ctx, 0)
	suite.ErrorIs(err, apperrors.ErrValidation)

	pending, err := suite.f.bank.ListAccountRequests(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(pending, 1)
}

func (suite *BankServiceTestSuite) TestUpdateAccountRequests_ValidatesEntries() {
	suite.Require().NoError(suite.f.bank.UpdateAccountRequests(suite.ctx, []domain.AccountRequest{
		{CustomerNumber: 1, RequestedKind: " savingaccount ", RequestedAt: opened},
	}))
	pending, err := suite.f.bank.ListAccountRequests(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal("SavingAccount", pending[0].RequestedKind)

	testCases := []struct {
		name    string
		request domain.AccountRequest
		wantErr error
	}{
		{"unknown customer", domain.AccountRequest{CustomerNumber: 99, RequestedKind: "SavingAccount", RequestedAt: opened}, apperrors.ErrNotFound},
		{"unknown type", domain.AccountRequest{CustomerNumber: 1, RequestedKind: "GoldAccount", RequestedAt: opened}, apperrors.ErrValidation},
		{"quoted type", domain.AccountRequest{CustomerNumber: 1, RequestedKind: `"SavingAccount`, RequestedAt: opened}, apperrors.ErrValidation},
		{"missing time", domain.AccountRequest{CustomerNumber: 1, RequestedKind: "SavingAccount"}, apperrors.ErrValidation},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := suite.f.bank.UpdateAccountRequests(suite.ctx, []domain.AccountRequest{tc.request})
			suite.ErrorIs(err, tc.wantErr)

			onDisk, err := suite.f.store.ReadAllAccountRequests(suite.ctx)
			suite.Require().NoError(err)
			suite.Require().Len(onDisk, 1, "a rejected update leaves the file alone")
			suite.Equal("SavingAccount", onDisk[0].RequestedKind)
		})
	}
}

func (suite *BankServiceTestSuite) TestUpdateAccountRequests_RoundTripPreservesOrder() {
	requests := make([]domain.AccountRequest, 0, 6)
	kinds := domain.AllAccountKinds()
	for i := 0; i < 6; i++ {
		requests = append(requests, domain.AccountRequest{
			CustomerNumber: i%3 + 1,
			RequestedKind:  string(kinds[i%len(kinds)]),
			RequestedAt:    opened.Add(time.Duration(i) * time.Minute),
		})
	}
	suite.Require().NoError(suite.f.bank.UpdateAccountRequests(suite.ctx, requests))

	suite.Require().NoError(suite.f.bank.Reload(suite.ctx))
	got, err := suite.f.bank.ListAccountRequests(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(got, len(requests))
	for i := range requests {
		suite.Equal(requests[i].CustomerNumber, got[i].CustomerNumber)
		suite.Equal(requests[i].RequestedKind, got[i].RequestedKind)
		suite.True(requests[i].RequestedAt.Equal(got[i].RequestedAt))
	}

	err = suite.f.bank.UpdateAccountRequests(suite.ctx, []domain.AccountRequest{{CustomerNumber: 1, RequestedKind: "Bad\tKind"}})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BankServiceTestSuite) TestRegisterCustomer() {
	c, err := suite.f.bank.RegisterCustomer(suite.ctx, "  dave ")
	suite.Require().NoError(err)
	suite.Equal(4, c.CustomerNumber)
	suite.Equal("dave", c.Username)

	_, err = suite.f.bank.RegisterCustomer(suite.ctx, "DAVE")
	suite.ErrorIs(err, apperrors.ErrConflict)

	_, err = suite.f.bank.RegisterCustomer(suite.ctx, "eve\tmallory")
	suite.ErrorIs(err, apperrors.ErrValidation)

	onDisk, err := suite.f.store.ReadAllCustomers(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(onDisk, 4)
	suite.Equal("dave", onDisk[3].Username)

	found, err := suite.f.bank.FindCustomer(suite.ctx, 4)
	suite.Require().NoError(err)
	suite.Nil(found.PrimaryChequingAccount)
}

func (suite *BankServiceTestSuite) TestRegisterCustomer_QuotedUsernameKeepsLaterCustomers() {
	for _, name := range []string{`"dave`, "erin", `fr"ank"`} {
		_, err := suite.f.bank.RegisterCustomer(suite.ctx, name)
		suite.Require().NoError(err)
	}

	suite.Require().NoError(suite.f.bank.Reload(suite.ctx))
	for n, want := range map[int]string{4: `"dave`, 5: "erin", 6: `fr"ank"`} {
		c, err := suite.f.bank.FindCustomer(suite.ctx, n)
		suite.Require().NoError(err)
		suite.Equal(want, c.Username)
	}
}

func (suite *BankServiceTestSuite) TestLookups() {
	_, err := suite.f.bank.FindCustomer(suite.ctx, 42)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.f.bank.FindAccount(suite.ctx, 42)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.f.bank.FindTransaction(suite.ctx, 42)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.f.bank.ListCustomerAccounts(suite.ctx, 42)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	trx, err := suite.f.ledger.Deposit(suite.ctx, 1001, amt("1.00"))
	suite.Require().NoError(err)
	found, err := suite.f.bank.FindTransaction(suite.ctx, trx.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.Deposit, found.Kind)
}

func (suite *BankServiceTestSuite) TestListTransactions_Filters() {
	transfer, err := suite.f.ledger.Transfer(suite.ctx, 1001, 1002, amt("5.00"))
	suite.Require().NoError(err)
	_, err = suite.f.ledger.Deposit(suite.ctx, 1005, amt("5.00"))
	suite.Require().NoError(err)
	_, err = suite.f.ledger.UndoTransaction(suite.ctx, transfer.TransactionID)
	suite.Require().NoError(err)

	all, err := suite.f.bank.ListTransactions(suite.ctx, dto.ListTransactionsParams{})
	suite.Require().NoError(err)
	suite.Len(all.Transactions, 3)
	suite.Nil(all.NextToken)

	byAccount, err := suite.f.bank.ListTransactions(suite.ctx, dto.ListTransactionsParams{AccountNumber: 1002})
	suite.Require().NoError(err)
	suite.Len(byAccount.Transactions, 2, "the transfer and its reversal both touch the destination")

	byCustomer, err := suite.f.bank.ListTransactions(suite.ctx, dto.ListTransactionsParams{CustomerNumber: 2})
	suite.Require().NoError(err)
	suite.Len(byCustomer.Transactions, 1)
}

func (suite *BankServiceTestSuite) TestListTransactions_Pages() {
	for i := 0; i < 5; i++ {
		_, err := suite.f.ledger.Deposit(suite.ctx, 1001, amt("1.00"))
		suite.Require().NoError(err)
	}

	var ids []int
	params := dto.ListTransactionsParams{Limit: 2}
	for pages := 0; ; pages++ {
		suite.Require().Less(pages, 5, "paging must terminate")
		page, err := suite.f.bank.ListTransactions(suite.ctx, params)
		suite.Require().NoError(err)
		for _, t := range page.Transactions {
			ids = append(ids, t.TransactionID)
		}
		if page.NextToken == nil {
			break
		}
		params.NextToken = page.NextToken
	}
	suite.Equal([]int{1, 2, 3, 4, 5}, ids)

	bad := "not-a-token"
	_, err := suite.f.bank.ListTransactions(suite.ctx, dto.ListTransactionsParams{NextToken: &bad})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BankServiceTestSuite) TestReload_SkipsMalformedLines() {
	path := filepath.Join(suite.f.dir, flatfile.DefaultTransactionFile)
	content := "1\t1\tDeposit\t10.00\t1001\t2024-01-15T10:00:00\t0\ttrue\tfalse\n" +
		"garbage line\n" +
		"7\t1\tWithdrawal\t5.00\t1001\t2024-01-15T10:05:00\t0\ttrue\tfalse\n"
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	suite.Require().NoError(suite.f.bank.Reload(suite.ctx))
	all, err := suite.f.bank.ListTransactions(suite.ctx, dto.ListTransactionsParams{})
	suite.Require().NoError(err)
	suite.Len(all.Transactions, 2)

	trx, err := suite.f.ledger.Deposit(suite.ctx, 1001, amt("1.00"))
	suite.Require().NoError(err)
	suite.Equal(8, trx.TransactionID)
}

func (suite *BankServiceTestSuite) TestReload_CorruptLastLineIDIsNotReused() {
	path := filepath.Join(suite.f.dir, flatfile.DefaultTransactionFile)
	content := "1\t1\tDeposit\t10.00\t1001\t2024-01-15T10:00:00\t0\ttrue\tfalse\n" +
		"9\t1\tDeposit\tten\t1001\t2024-01-15T10:05:00\t0\ttrue\n"
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	suite.Require().NoError(suite.f.bank.Reload(suite.ctx))
	all, err := suite.f.bank.ListTransactions(suite.ctx, dto.ListTransactionsParams{})
	suite.Require().NoError(err)
	suite.Len(all.Transactions, 1)

	trx, err := suite.f.ledger.Deposit(suite.ctx, 1001, amt("1.00"))
	suite.Require().NoError(err)
	suite.Equal(10, trx.TransactionID)

	_, err = suite.f.bank.FindTransaction(suite.ctx, 9)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BankServiceTestSuite) TestReload_EmptyDirectory() {
	state := services.NewLedgerState(flatfile.NewStore(suite.T().TempDir()))
	bank := services.NewBankService(state)
	suite.Require().NoError(bank.Reload(suite.ctx))

	accounts, err := bank.ListAccounts(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(accounts)

	c, err := bank.RegisterCustomer(suite.ctx, "first")
	suite.Require().NoError(err)
	suite.Equal(1, c.CustomerNumber)

	acct, err := bank.CreateAccount(suite.ctx, domain.AccountRequest{CustomerNumber: c.CustomerNumber, RequestedKind: "ChequingAccount"})
	suite.Require().NoError(err)
	suite.Equal(1001, acct.AccountNumber)
	suite.True(acct.IsPrimary)
}

func TestBankServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BankServiceTestSuite))
}
