package services

import (
	"fmt"
	"maps"
	"slices"

	"github.com/SscSPs/atm_ledger/internal/apperrors"
	"github.com/SscSPs/atm_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Registry is the in-memory index of live accounts keyed by account number.
// A published Registry is never mutated; writers work on a Clone.
type Registry struct {
	accounts map[int]domain.Account
}

// NewRegistry indexes accounts by number. When a number repeats, the later record wins.
func NewRegistry(accounts []domain.Account) *Registry {
	r := &Registry{accounts: make(map[int]domain.Account, len(accounts))}
	for _, a := range accounts {
		r.accounts[a.AccountNumber] = a
	}
	return r
}

// Clone returns an independent copy for a copy-on-write mutation.
func (r *Registry) Clone() *Registry {
	return &Registry{accounts: maps.Clone(r.accounts)}
}

// Len returns the number of accounts.
func (r *Registry) Len() int {
	return len(r.accounts)
}

// Get returns a copy of the account.
func (r *Registry) Get(accountNumber int) (domain.Account, bool) {
	a, ok := r.accounts[accountNumber]
	return a, ok
}

// Put inserts or replaces an account.
func (r *Registry) Put(a domain.Account) {
	r.accounts[a.AccountNumber] = a
}

// AddAmount is the only primitive that changes a balance. The result is re-scaled with Floor2.
func (r *Registry) AddAmount(accountNumber int, delta decimal.Decimal) error {
	a, ok := r.accounts[accountNumber]
	if !ok {
		return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountNumber)
	}
	a.AddAmount(delta)
	r.accounts[accountNumber] = a
	return nil
}

// SetRecentTransaction records the id of the last entry that touched the account.
func (r *Registry) SetRecentTransaction(accountNumber, transactionID int) error {
	a, ok := r.accounts[accountNumber]
	if !ok {
		return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountNumber)
	}
	a.RecentTransactionID = transactionID
	r.accounts[accountNumber] = a
	return nil
}

// Accounts returns every account ordered by account number.
func (r *Registry) Accounts() []domain.Account {
	out := make([]domain.Account, 0, len(r.accounts))
	var numbers []int
	for n := range r.accounts {
		numbers = append(numbers, n)
	}
	slices.Sort(numbers)
	for _, n := range numbers {
		out = append(out, r.accounts[n])
	}
	return out
}

// ByOwner returns the accounts of one customer ordered by account number.
func (r *Registry) ByOwner(customerNumber int) []domain.Account {
	var out []domain.Account
	for _, a := range r.Accounts() {
		if a.OwnerCustomerNumber == customerNumber {
			out = append(out, a)
		}
	}
	return out
}

// PrimaryChequing returns the customer's primary chequing account number.
func (r *Registry) PrimaryChequing(customerNumber int) (int, bool) {
	for _, a := range r.ByOwner(customerNumber) {
		if a.Kind == domain.Chequing && a.IsPrimary {
			return a.AccountNumber, true
		}
	}
	return 0, false
}

// MaxAccountNumber returns the highest account number in use, or 0.
func (r *Registry) MaxAccountNumber() int {
	highest := 0
	for n := range r.accounts {
		highest = max(highest, n)
	}
	return highest
}
