package flatfile

import (
	"context"
	"fmt"
	"strconv"

	"github.com/SscSPs/atm_ledger/internal/core/domain"
)

// Account line layout:
//
//	kind  accountNumber  owner  balance  openedAt  recentTrxID  [extra]
//
// extra is the primary flag for chequing accounts and the credit limit for
// credit card and line of credit accounts; saving accounts have none.
func encodeAccount(a domain.Account) []string {
	fields := []string{
		string(a.Kind),
		strconv.Itoa(a.AccountNumber),
		strconv.Itoa(a.OwnerCustomerNumber),
		domain.FormatAmount(a.Balance),
		domain.FormatTime(a.OpenedAt),
		strconv.Itoa(a.RecentTransactionID),
	}
	switch {
	case a.Kind == domain.Chequing:
		fields = append(fields, strconv.FormatBool(a.IsPrimary))
	case a.Kind.HasCreditLimit():
		fields = append(fields, domain.FormatAmount(a.CreditLimit))
	}
	return fields
}

func decodeAccount(fields []string) (domain.Account, error) {
	var a domain.Account
	if len(fields) == 0 {
		return a, fmt.Errorf("empty account record")
	}
	kind := domain.AccountKind(fields[0])
	if !kind.Valid() {
		return a, fmt.Errorf("unrecognized account type '%s'", fields[0])
	}
	want := 6
	if kind == domain.Chequing || kind.HasCreditLimit() {
		want = 7
	}
	if err := expectFields(fields, want); err != nil {
		return a, fmt.Errorf("%s record: %w", kind, err)
	}

	var err error
	a.Kind = kind
	if a.AccountNumber, err = strconv.Atoi(fields[1]); err != nil {
		return a, fmt.Errorf("invalid account number: %w", err)
	}
	if a.OwnerCustomerNumber, err = strconv.Atoi(fields[2]); err != nil {
		return a, fmt.Errorf("invalid owner customer number: %w", err)
	}
	balance, err := domain.ParseAmount(fields[3])
	if err != nil {
		return a, err
	}
	a.Balance = domain.Floor2(balance)
	if a.OpenedAt, err = domain.ParseTime(fields[4]); err != nil {
		return a, fmt.Errorf("invalid open date: %w", err)
	}
	if a.RecentTransactionID, err = strconv.Atoi(fields[5]); err != nil {
		return a, fmt.Errorf("invalid recent transaction ID: %w", err)
	}

	switch {
	case kind == domain.Chequing:
		if a.IsPrimary, err = strconv.ParseBool(fields[6]); err != nil {
			return a, fmt.Errorf("invalid primary flag: %w", err)
		}
	case kind.HasCreditLimit():
		limit, err := domain.ParseAmount(fields[6])
		if err != nil {
			return a, fmt.Errorf("invalid credit limit: %w", err)
		}
		a.CreditLimit = domain.Floor2(limit)
	}
	return a, nil
}

// ReadAllAccounts implements portsrepo.AccountStore.
func (s *Store) ReadAllAccounts(ctx context.Context) ([]domain.Account, error) {
	return readRecords(ctx, s.path(s.accountFile), decodeAccount)
}

// WriteAllAccounts implements portsrepo.AccountStore.
func (s *Store) WriteAllAccounts(ctx context.Context, accounts []domain.Account) error {
	lines := make([][]string, len(accounts))
	for i, a := range accounts {
		lines[i] = encodeAccount(a)
	}
	return writeRecords(ctx, s.path(s.accountFile), lines)
}
